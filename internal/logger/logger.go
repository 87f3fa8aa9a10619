package logger

import (
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"tableside/internal/config"
)

// New builds a service-scoped logger. With a configured path, output rotates
// on disk; otherwise it goes to stdout.
func New(cfg *config.Config, service string) *log.Entry {
	l := log.New()
	l.SetFormatter(&log.JSONFormatter{})

	if cfg.Logging.Path != "" {
		l.SetOutput(&lumberjack.Logger{
			Filename:   cfg.Logging.Path,
			MaxSize:    32, // megabytes
			MaxBackups: 2,
			MaxAge:     28, // days
			Compress:   true,
		})
	} else {
		l.SetOutput(os.Stdout)
	}

	lvl, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)

	return l.WithField("service", service)
}
