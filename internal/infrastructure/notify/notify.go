// Package notify delivers transient user-facing messages raised by the
// listing controllers.
package notify

import (
	"github.com/rs/zerolog"

	"github.com/wanderlust/travel-listing-service/internal/domain"
	"github.com/wanderlust/travel-listing-service/internal/infrastructure/logger"
)

// LogNotifier writes notifications to a structured logger. The server has no
// toast surface of its own, so the log is where operators see them.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier creates a notifier that logs with a component field.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{
		log: logger.ForComponent(log, "notifier"),
	}
}

// Notify logs the message at the zerolog level matching the notify level.
func (n *LogNotifier) Notify(message string, level domain.NotifyLevel) {
	n.log.WithLevel(zerologLevel(level)).
		Str("notify_level", string(level)).
		Msg(message)
}

func zerologLevel(level domain.NotifyLevel) zerolog.Level {
	switch level {
	case domain.NotifyError:
		return zerolog.ErrorLevel
	case domain.NotifyWarning:
		return zerolog.WarnLevel
	case domain.NotifyInfo, domain.NotifySuccess:
		return zerolog.InfoLevel
	default:
		return zerolog.InfoLevel
	}
}

// Func adapts a plain function to domain.Notifier.
type Func func(message string, level domain.NotifyLevel)

// Notify calls f.
func (f Func) Notify(message string, level domain.NotifyLevel) {
	f(message, level)
}

var (
	_ domain.Notifier = (*LogNotifier)(nil)
	_ domain.Notifier = Func(nil)
)
