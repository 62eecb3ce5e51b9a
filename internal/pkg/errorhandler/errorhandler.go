package errorhandler

import (
	"context"
	"net/http"

	"github.com/landesnetz/landesnetz-api/internal/pkg/logger"
	"github.com/landesnetz/landesnetz-api/internal/pkg/response"
)

// HandleError logs err with the request's logger and sends a generic 500.
// Storage and encoding details never reach the caller.
func HandleError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	logger.FromContext(ctx).Error().
		Err(err).
		Int("status_code", http.StatusInternalServerError).
		Msg(msg)

	response.InternalError(w)
}

// HandlePanicError logs a recovered panic and sends a generic 500
func HandlePanicError(ctx context.Context, w http.ResponseWriter, panicErr interface{}, stackTrace string) {
	logger.FromContext(ctx).Error().
		Interface("panic_error", panicErr).
		Str("panic_stack", stackTrace).
		Msg("Request panic error")

	response.InternalError(w)
}

// LogValidationError logs validation errors with details
func LogValidationError(ctx context.Context, fieldErrors map[string]string) {
	logger.FromContext(ctx).Warn().
		Interface("validation_errors", fieldErrors).
		Msg("Validation error")
}
