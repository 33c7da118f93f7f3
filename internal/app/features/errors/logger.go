// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/plantfloor/sparetrack/internal/app/system/apperr"
)

// ErrorLogger logs handler errors and renders the matching error page,
// so features don't each reinvent the log-then-respond dance.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger backed by the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// Handle logs err and writes the response appropriate to its kind:
// validation errors get a 400 with the message, not-found gets the 404
// page, everything else gets a 500 page with the detail kept out of the
// response body.
func (e *ErrorLogger) Handle(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case apperr.IsValidation(err):
		e.log.Info("request rejected",
			zap.String("op", op),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
	case apperr.IsNotFound(err):
		e.log.Info("record not found",
			zap.String("op", op),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		RenderNotFound(w, r, "")
	default:
		e.log.Error("handler error",
			zap.String("op", op),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		templates.Render(w, r, "error_internal", pageData{
			Title:   "Something went wrong",
			Message: "An unexpected error occurred. Please try again.",
			BackURL: "/",
		})
	}
}
