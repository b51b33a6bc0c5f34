package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	sharedctx "github.com/hyperterse/sqlgeneric/core/shared/context"
)

// RequestContext carries the router's request id into the shared context
// so the pipeline logs under the same id, and echoes it to the client
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := chimiddleware.GetReqID(ctx); id != "" {
			ctx = sharedctx.WithRequestID(ctx, id)
			w.Header().Set(chimiddleware.RequestIDHeader, id)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
