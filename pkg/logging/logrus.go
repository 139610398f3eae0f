// Package logging adapts structured loggers to the fields resolver.
package logging

import (
	"github.com/sirupsen/logrus"

	fields "github.com/goliatone/go-fields"
)

// Logrus forwards resolver events to a logrus logger as structured entries.
type Logrus struct {
	logger logrus.FieldLogger
}

// NewLogrus wraps logger. A nil logger uses the logrus standard logger.
func NewLogrus(logger logrus.FieldLogger) *Logrus {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Logrus{logger: logger}
}

// Log implements fields.Logger.
func (l *Logrus) Log(event fields.LogEvent) {
	entry := l.logger.WithFields(logrus.Fields{"component": "fields"})
	if event.Subject != "" {
		entry = entry.WithField("subject", event.Subject)
	}
	if event.Field != "" {
		entry = entry.WithField("field", event.Field)
	}
	if event.Key != "" {
		entry = entry.WithField("key", event.Key)
	}
	if event.Err != nil {
		entry = entry.WithError(event.Err)
	}
	switch event.Level {
	case fields.LogLevelError:
		entry.Error(event.Message)
	case fields.LogLevelWarn:
		entry.Warn(event.Message)
	default:
		entry.Debug(event.Message)
	}
}
