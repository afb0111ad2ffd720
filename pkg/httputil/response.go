package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/utafrali/OdooGateway/pkg/errors"
	"github.com/utafrali/OdooGateway/pkg/logger"
	"github.com/utafrali/OdooGateway/pkg/validator"
)

// ErrorResponse is the JSON error body returned by all endpoints on failure.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// If encoding fails, headers are already sent so nothing meaningful can be done.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a standardized error response based on the error type.
// It maps AppError and sentinel errors to HTTP statuses, logs server-side
// errors, and prefers the request-scoped logger from context over the
// fallback logger.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	requestID := logger.CorrelationIDFromContext(r.Context())

	status := apperrors.HTTPStatus(err)
	code := "INTERNAL_ERROR"
	message := "an internal error occurred"

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
		message = appErr.Message
		status = appErr.Status
	}

	// Server-side failures get logged with full detail; the caller only sees
	// the sanitized message.
	if status >= http.StatusInternalServerError || status == http.StatusBadGateway {
		l.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
		)
	}

	WriteJSON(w, status, ErrorResponse{Error: message, Code: code, RequestID: requestID})
}

// WriteValidationError writes a standardized validation error response with
// field-level detail when the error is a validator.ValidationError.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "request validation failed",
			Code:   "VALIDATION_ERROR",
			Fields: valErr.Fields(),
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_INPUT"})
}

// ParseID validates that the given string is a positive integer identifier.
// If invalid, it writes a 400 response and returns 0 plus false, signaling
// the caller to return early.
func ParseID(w http.ResponseWriter, param string) (int, bool) {
	id, err := strconv.Atoi(param)
	if err != nil || id <= 0 {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid id: " + param,
			Code:  "INVALID_PARAMETER",
		})
		return 0, false
	}
	return id, true
}
