package logging

import (
	"log"
	"transit/application/logging"
)

type LogLogger struct {
	prefix string
}

func NewLogLogger() logging.Logger {
	return &LogLogger{}
}

// NewPrefixedLogLogger tags every line, e.g. with a listener or connection id.
func NewPrefixedLogLogger(prefix string) logging.Logger {
	return &LogLogger{prefix: prefix}
}

func (l LogLogger) Printf(format string, v ...any) {
	if l.prefix != "" {
		log.Printf(l.prefix+" "+format, v...)
		return
	}
	log.Printf(format, v...)
}
