// Package logger configures the process-wide logrus logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"marketplace-api/config"

	log "github.com/sirupsen/logrus"
)

// Setup applies the configured level and format to the standard logrus logger.
func Setup(cfg config.LogConfig) error {
	return configure(log.StandardLogger(), cfg, os.Stdout)
}

func configure(l *log.Logger, cfg config.LogConfig, out io.Writer) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	l.SetLevel(level)
	l.SetOutput(out)

	switch strings.ToLower(cfg.Format) {
	case "json":
		l.SetFormatter(&log.JSONFormatter{})
	case "", "text":
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q", cfg.Format)
	}
	return nil
}
