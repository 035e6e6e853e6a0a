package config

import (
	"context"
	"os"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

func Init() {
	logrus.SetOutput(os.Stdout)

	if os.Getenv("ENV") == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// WithContext returns a logger carrying the chi request id, so every
// line emitted while serving one request can be correlated.
func WithContext(ctx context.Context) logrus.FieldLogger {
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		return logrus.WithField("request_id", reqID)
	}
	return logrus.StandardLogger()
}
