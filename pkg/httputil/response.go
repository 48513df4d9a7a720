package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/softmatrices/forique-sub000/pkg/errors"
	"github.com/softmatrices/forique-sub000/pkg/logger"
	"github.com/softmatrices/forique-sub000/pkg/validator"
)

// Response is the JSON envelope of every API reply: data on success, error
// otherwise.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse is the error half of the envelope. RequestID echoes the
// correlation ID so a shopper's report can be matched to the logs.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// RetryAfterUnavailable is the Retry-After value, in seconds, sent with 503
// responses while the session store is unreachable.
const RetryAfterUnavailable = "5"

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// sentinelReplies gives the public reply for a bare sentinel. Wrapped
// messages are replaced so internals never reach the client, except for
// invalid input where the message is the point.
var sentinelReplies = []struct {
	target error
	reply  func(err error) *apperrors.AppError
}{
	{apperrors.ErrNotFound, func(error) *apperrors.AppError {
		return &apperrors.AppError{Code: "NOT_FOUND", Message: "resource not found", Status: http.StatusNotFound}
	}},
	{apperrors.ErrInvalidInput, func(err error) *apperrors.AppError {
		return apperrors.InvalidInput(err.Error())
	}},
	{apperrors.ErrConflict, func(error) *apperrors.AppError {
		return apperrors.Conflict("resource was modified concurrently")
	}},
	{apperrors.ErrServiceUnavail, func(error) *apperrors.AppError {
		return apperrors.ServiceUnavailable("service temporarily unavailable")
	}},
}

// WriteError writes err in the envelope. An AppError anywhere in the chain is
// used as is, known sentinels get their canonical reply, and anything else is
// a logged 500. The request-scoped logger from the RequestLogger middleware is
// preferred over fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			l.WarnContext(r.Context(), "request failed",
				slog.String("code", appErr.Code),
				slog.String("error", err.Error()),
				slog.String("path", r.URL.Path),
			)
		}
		WriteAppError(w, r, appErr)
		return
	}

	for _, s := range sentinelReplies {
		if errors.Is(err, s.target) {
			WriteAppError(w, r, s.reply(err))
			return
		}
	}

	l.ErrorContext(r.Context(), "internal error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	WriteAppError(w, r, apperrors.Internal(err))
}

// WriteAppError writes appErr in the standard envelope with the request's
// correlation ID, without logging. Middleware that rejects a request before
// any handler runs uses it directly.
func WriteAppError(w http.ResponseWriter, r *http.Request, appErr *apperrors.AppError) {
	writeErrorResponse(w, r, appErr.Status, &ErrorResponse{Code: appErr.Code, Message: appErr.Message})
}

// WriteValidationError writes a 400. A *validator.ValidationError is
// reported field by field, any other decode error as INVALID_INPUT.
func WriteValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeErrorResponse(w, r, http.StatusBadRequest, &ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "request validation failed",
			Fields:  valErr.Fields(),
		})
		return
	}
	WriteAppError(w, r, apperrors.InvalidInput(err.Error()))
}

func writeErrorResponse(w http.ResponseWriter, r *http.Request, status int, body *ErrorResponse) {
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", RetryAfterUnavailable)
	}
	body.RequestID = logger.CorrelationIDFromContext(r.Context())
	WriteJSON(w, status, Response{Error: body})
}
