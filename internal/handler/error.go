// Package handler contains the HTTP handlers of the SkyBooker front-end.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/DukeRupert/skybooker/internal/domain"
)

var codeStatus = map[string]int{
	domain.EINVALID:   http.StatusBadRequest,
	domain.ENOTFOUND:  http.StatusNotFound,
	domain.ECONFLICT:  http.StatusConflict,
	domain.ETOOLARGE:  http.StatusRequestEntityTooLarge,
	domain.ERATELIMIT: http.StatusTooManyRequests,
	domain.EINTERNAL:  http.StatusInternalServerError,
}

// ErrorCodeToHTTPStatus maps a domain error code to its HTTP status.
// Unknown codes are 500.
func ErrorCodeToHTTPStatus(code string) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// JSONError is the body of an error response to a JSON client.
type JSONError struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields,omitempty"`
	} `json:"error"`
}

// ErrorResponse logs err and writes it as JSON or plain text, depending on
// what the client accepts. Only user-safe text reaches the body: Op names
// and wrapped causes are logged, never written.
func ErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)

	var body JSONError
	body.Error.Code = code
	body.Error.Message = domain.ErrorMessage(err)

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		body.Error.Fields = ve.Fields
	}

	logError(logger, r, err, code, status)

	if acceptsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
		return
	}
	http.Error(w, body.Error.Message, status)
}

// ErrorResponder adapts ErrorResponse for middleware that reports errors
// without importing this package.
func ErrorResponder(logger *slog.Logger) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		ErrorResponse(w, r, logger, err)
	}
}

// NotFoundResponse writes a 404 for a route-level miss.
func NotFoundResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	ErrorResponse(w, r, logger, domain.NotFound("", "page", r.URL.Path))
}

// InternalErrorResponse wraps an unexpected error and writes a 500.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	ErrorResponse(w, r, logger, domain.Internal(err, "", "Unexpected error"))
}

func logError(logger *slog.Logger, r *http.Request, err error, code string, status int) {
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
	}
	if op := domain.ErrorOp(err); op != "" {
		attrs = append(attrs, "op", op)
	}

	if status >= http.StatusInternalServerError {
		logger.Error("server error", attrs...)
		return
	}
	logger.Info("client error", attrs...)
}

// acceptsJSON reports whether the client asked for JSON. htmx requests
// always get text.
func acceptsJSON(r *http.Request) bool {
	if isHTMX(r) {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
