package logger

import (
	"tourist-hub-api/internal/config"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus.Logger with additional functionality
type Logger struct {
	*logrus.Logger
}

// NewLogger creates a new structured logger instance
func NewLogger(cfg *config.Config) *Logger {
	log := logrus.New()

	// Set log level
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	// Set log format
	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return &Logger{Logger: log}
}

// WithProvider adds provider context to log entries
func (l *Logger) WithProvider(providerID string) *logrus.Entry {
	return l.WithField("provider_id", providerID)
}

// WithUser adds user context to log entries
func (l *Logger) WithUser(userID string) *logrus.Entry {
	return l.WithField("user_id", userID)
}

// WithTourEvent adds tour event context to log entries
func (l *Logger) WithTourEvent(tourEventID string) *logrus.Entry {
	return l.WithField("tour_event_id", tourEventID)
}

// WithRegistration adds registration context to log entries
func (l *Logger) WithRegistration(registrationID string) *logrus.Entry {
	return l.WithField("registration_id", registrationID)
}
