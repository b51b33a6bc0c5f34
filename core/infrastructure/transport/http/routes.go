package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hyperterse/sqlgeneric/core/domain/interfaces"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/logging"
)

// RegisterRoutes registers all HTTP routes
func RegisterRoutes(r chi.Router, handlerService interfaces.HandlerService) {
	log := logging.New("routes")

	routes := []string{
		"POST /v1/execute",
		"POST /v1/render",
		"GET /heartbeat",
		"GET /metrics",
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/execute", handleExecute(handlerService))
		r.Post("/render", handleRender(handlerService))
	})
	r.Get("/heartbeat", handleHeartbeat)
	r.Handle("/metrics", promhttp.Handler())

	log.Infof("Routes registered: %d", len(routes))
	for _, route := range routes {
		log.Debugf("  %s", route)
	}
}
