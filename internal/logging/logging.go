// Package logging builds the application logger: logrus with a nested
// field formatter writing to stderr, plus an optional rotating file.
package logging

import (
	"io"
	"os"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates a logger at the given level. When file is non-empty, log
// lines are additionally written there with size-based rotation.
func New(level, file string) *logrus.Logger {
	logger := logrus.New()

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	logger.SetFormatter(&formatter.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.000",
		HideKeys:        false,
		FieldsOrder:     []string{"component", "session"},
	})

	writers := []io.Writer{os.Stderr}
	if file != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   file,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    50, // megabytes
			MaxAge:     7,  // days
			MaxBackups: 3,
		})
	}
	logger.SetOutput(io.MultiWriter(writers...))

	return logger
}
