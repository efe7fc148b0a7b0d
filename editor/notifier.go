package editor

import (
	"clementus360/wellness-sessions/config"
)

// Notifier shows transient feedback to the user.
type Notifier interface {
	Success(msg string)
	Failure(msg string, err error)
}

// LogNotifier reports through the application logger.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) {
	config.Logger.Info(msg)
}

func (LogNotifier) Failure(msg string, err error) {
	config.Logger.WithError(err).Warn(msg)
}
