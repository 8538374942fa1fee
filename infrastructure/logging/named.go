package logging

import (
	"log/slog"
	"os"
	"strings"
	"transit/application/logging"
)

// NewNamedLogger picks the backend a settings file names: "slog" writes
// text records to stderr, anything else uses the std log package.
func NewNamedLogger(name string) logging.Logger {
	if strings.EqualFold(name, "slog") {
		return NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}
	return NewLogLogger()
}
