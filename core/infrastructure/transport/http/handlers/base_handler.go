package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hyperterse/sqlgeneric/core/domain/interfaces"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/logging"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/serializer"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/transport/http/dto"
	apperrors "github.com/hyperterse/sqlgeneric/core/shared/errors"
)

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	logger interfaces.Logger
}

// NewBaseHandler creates a new base handler
func NewBaseHandler(tag string) *BaseHandler {
	return &BaseHandler{
		logger: logging.New(tag),
	}
}

// Logger returns the handler's logger
func (h *BaseHandler) Logger() interfaces.Logger {
	return h.logger
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		h.logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

// WriteEnvelope writes a rendered result envelope
func (h *BaseHandler) WriteEnvelope(w http.ResponseWriter, format serializer.Format, envelope string) {
	contentType := "application/xml; charset=utf-8"
	if format == serializer.FormatJSON {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(envelope)); err != nil {
		h.logger.Errorf("Failed to write envelope: %v", err)
	}
}

// WriteError writes an error response with the status of its error code
func (h *BaseHandler) WriteError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewAppError(apperrors.ErrCodeInternalError, err.Error(), err)
	}

	h.WriteJSON(w, appErr.Status, dto.ErrorResponse{
		Success: false,
		Code:    string(appErr.Code),
		Error:   err.Error(),
	})
}

// WriteBadRequest writes a request body error, with per-field details when
// validation failed
func (h *BaseHandler) WriteBadRequest(w http.ResponseWriter, err error, details []dto.ErrorDetail) {
	h.WriteJSON(w, http.StatusBadRequest, dto.ErrorResponse{
		Success: false,
		Code:    string(apperrors.ErrCodeInvalidInput),
		Error:   err.Error(),
		Details: details,
	})
}

// WriteSuccess writes a success response
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, data any) {
	h.WriteJSON(w, http.StatusOK, data)
}
