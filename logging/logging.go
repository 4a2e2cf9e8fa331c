package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const defaultLogPath = "callbacks.log"

var (
	instance  *logrus.Logger
	once      sync.Once
	logpath   = os.Getenv("LOGGING_PATH")
	logToFile = os.Getenv("LOG_TO_FILE")
	logLevel  = os.Getenv("LOG_LEVEL")
	logFormat = os.Getenv("LOG_FORMAT")
)

// GetLogger returns the process wide logger. Logs go to stderr unless
// LOG_TO_FILE is set, stdout belongs to the demo output.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		instance = newLogger(os.Stderr)
	})
	return instance
}

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(MapLevelToLogrus(logLevel))
	l.Formatter = MapFormatter(logFormat)
	l.Out = out

	if logToFile == "" {
		return l
	}

	if logpath == "" {
		logpath = defaultLogPath
	}
	file, err := os.OpenFile(logpath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		l.Warnf("failed to log to file %s, using stderr : %v", logpath, err)
		return l
	}
	l.Out = file
	return l
}

// ForComponent is the usual entry point for packages that want a tagged logger.
func ForComponent(name string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"component": name,
	})
}

func MapLevelToLogrus(lvl string) logrus.Level {
	switch strings.ToLower(lvl) {
	case "panic":
		return logrus.PanicLevel
	case "fatal":
		return logrus.FatalLevel
	case "error":
		return logrus.ErrorLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	case "trace":
		return logrus.TraceLevel
	}
	return logrus.InfoLevel
}

func MapFormatter(format string) logrus.Formatter {
	switch strings.ToLower(format) {
	case "text":
		return &logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		}
	}
	return &logrus.JSONFormatter{}
}
