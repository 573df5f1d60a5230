package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger: JSON in production or when
// format is "json", text otherwise.
func Setup(level, format string, production bool) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetOutput(os.Stdout)

	if format == "json" || (format == "" && production) {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	return log
}
