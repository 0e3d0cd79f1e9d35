package config

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Component names used as the "component" field of log entries.
const (
	ComponentApp     = "APP"
	ComponentSession = "SESSION"
	ComponentSolver  = "SOLVER"
	ComponentViewer  = "VIEWER"
)

var logger = newBaseLogger(os.Stderr)

func newBaseLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// NewLogger returns an entry tagged with the component name.
func NewLogger(component string) *logrus.Entry {
	return logger.WithField("component", component)
}

// SetupLogger sets the output and the level of every component logger.
func SetupLogger(w io.Writer, debug bool) {
	logger.SetOutput(w)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
}
