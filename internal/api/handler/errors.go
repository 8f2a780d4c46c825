package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/mythcatalog/internal/api/apierr"
)

// errorWriter writes mapped error responses and logs anything that maps to a 500
type errorWriter struct {
	logger *slog.Logger
}

func (e errorWriter) write(w http.ResponseWriter, r *http.Request, err error) {
	if apierr.Status(err) >= http.StatusInternalServerError {
		e.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}
