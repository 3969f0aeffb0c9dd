package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"galaxy-server/internal/shared/errors"
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type outcome struct {
	status int
	level  slog.Level
	msg    string
}

var outcomes = map[errors.ErrorType]outcome{
	errors.ErrorTypeNotFound:         {http.StatusNotFound, slog.LevelDebug, "Resource not found"},
	errors.ErrorTypeValidation:       {http.StatusBadRequest, slog.LevelDebug, "Rejected request"},
	errors.ErrorTypeMethodNotAllowed: {http.StatusMethodNotAllowed, slog.LevelDebug, "Rejected request"},
	errors.ErrorTypeConflict:         {http.StatusConflict, slog.LevelInfo, "World state conflict"},
	errors.ErrorTypeUnauthorized:     {http.StatusUnauthorized, slog.LevelWarn, "Authorization error"},
	errors.ErrorTypeForbidden:        {http.StatusForbidden, slog.LevelWarn, "Authorization error"},
	errors.ErrorTypeRateLimited:      {http.StatusTooManyRequests, slog.LevelWarn, "Client rate limited"},
	errors.ErrorTypeExternal:         {http.StatusServiceUnavailable, slog.LevelError, "Backend unavailable"},
}

var internalOutcome = outcome{http.StatusInternalServerError, slog.LevelError, "Internal server error"}

// Error is the one place request errors are logged. The error type picks
// both the status code and the log level.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	errorType := errors.GetType(err)
	o, ok := outcomes[errorType]
	if !ok {
		o = internalOutcome
	}

	logger.Log(r.Context(), o.level, o.msg,
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
		"error_type", errorType,
		"status_code", o.status,
		"error", err,
	)

	writeJSON(w, o.status, ErrorResponse{
		Error:   string(errorType),
		Message: err.Error(),
		Code:    o.status,
	})
}

// StatusCode returns the HTTP status Error would send for err.
func StatusCode(err error) int {
	if o, ok := outcomes[errors.GetType(err)]; ok {
		return o.status
	}
	return internalOutcome.status
}

// Success writes data as JSON. A nil data writes only the status.
func Success(w http.ResponseWriter, statusCode int, data any) {
	if data == nil {
		w.WriteHeader(statusCode)
		return
	}
	writeJSON(w, statusCode, data)
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// the status is already out, nothing useful to do on failure
	_ = json.NewEncoder(w).Encode(v)
}
