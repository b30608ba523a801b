package logging

import (
	"io"
	"os"
	"strings"

	"fleetreport/internal/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the global logrus logger. With LOG_FILE set, output goes
// to stdout and to a size-rotated file.
func Setup(env config.LogEnv) {
	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(env.Level)))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if strings.EqualFold(env.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logrus.SetOutput(output(env))
}

func output(env config.LogEnv) io.Writer {
	if strings.TrimSpace(env.File) == "" {
		return os.Stdout
	}
	rotating := &lumberjack.Logger{
		Filename:   env.File,
		MaxSize:    env.MaxSizeMB,
		MaxBackups: env.MaxBackups,
		MaxAge:     env.MaxAgeDays,
		Compress:   true,
	}
	return io.MultiWriter(os.Stdout, rotating)
}
