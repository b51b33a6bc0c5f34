package http

import (
	"net/http"
	"strings"

	"github.com/hyperterse/sqlgeneric/core/domain/interfaces"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/serializer"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/transport/http/dto"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/transport/http/handlers"
	httpmiddleware "github.com/hyperterse/sqlgeneric/core/infrastructure/transport/http/middleware"
)

// handleExecute runs one invocation and answers with its envelope. A raised
// failure answers with an error body and the status of its error code.
func handleExecute(handlerService interfaces.HandlerService) http.HandlerFunc {
	base := handlers.NewBaseHandler("http:execute")

	return func(w http.ResponseWriter, r *http.Request) {
		log := base.Logger()

		var body dto.ExecuteRequest
		if details, err := httpmiddleware.DecodeAndValidate(r, &body); err != nil {
			log.Warnf("Rejected request body: %v", err)
			base.WriteBadRequest(w, err, details)
			return
		}

		outcome, err := handlerService.Handle(r.Context(), body.HostInput())
		if err != nil {
			log.Errorf("Invocation raised: %v", err)
			base.WriteError(w, err)
			return
		}

		format := envelopeFormat(r)
		env, err := serializer.Render(outcome, format)
		if err != nil {
			log.Errorf("Failed to render envelope: %v", err)
			base.WriteError(w, err)
			return
		}

		if outcome.IsFailure() {
			log.Infof("Invocation failed, error captured in envelope")
		}
		base.WriteEnvelope(w, format, env)
	}
}

func handleRender(handlerService interfaces.HandlerService) http.HandlerFunc {
	base := handlers.NewBaseHandler("http:render")

	return func(w http.ResponseWriter, r *http.Request) {
		var body dto.ExecuteRequest
		if details, err := httpmiddleware.DecodeAndValidate(r, &body); err != nil {
			base.WriteBadRequest(w, err, details)
			return
		}

		stmt, err := handlerService.Preview(r.Context(), body.HostInput())
		if err != nil {
			base.WriteError(w, err)
			return
		}
		base.WriteSuccess(w, dto.NewRenderResponse(stmt))
	}
}

func handleHeartbeat(w http.ResponseWriter, _ *http.Request) {
	handlers.NewBaseHandler("http:heartbeat").WriteSuccess(w, dto.HealthResponse{Success: true})
}

// envelopeFormat picks JSON when the client asks for it; XML otherwise
func envelopeFormat(r *http.Request) serializer.Format {
	for _, accept := range r.Header.Values("Accept") {
		if strings.Contains(accept, "application/json") {
			return serializer.FormatJSON
		}
	}
	return serializer.FormatXML
}
