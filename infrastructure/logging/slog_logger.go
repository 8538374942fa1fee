package logging

import (
	"fmt"
	"log/slog"
	"transit/application/logging"
)

// SlogLogger forwards Printf-style lines to a structured slog.Logger at Info level.
type SlogLogger struct {
	logger *slog.Logger
}

func NewSlogLogger(logger *slog.Logger) logging.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger}
}

func (s *SlogLogger) Printf(format string, v ...any) {
	s.logger.Info(fmt.Sprintf(format, v...))
}

// NopLogger discards everything; used where logging is optional.
type NopLogger struct{}

func (NopLogger) Printf(string, ...any) {}
