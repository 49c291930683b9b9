package logger

import (
	"log/slog"
	"os"
)

// New returns a slog logger writing to stdout. format selects the handler:
// "text" for local development, anything else gets JSON.
func New(format string) *slog.Logger {
	var h slog.Handler
	if format == "text" {
		h = slog.NewTextHandler(os.Stdout, nil)
	} else {
		h = slog.NewJSONHandler(os.Stdout, nil)
	}
	return slog.New(h)
}
