// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/meenmo/fwdcurve/config"
)

const (
	defaultRotationSize = 2
	defaultMaxBackups   = 30
)

// Setup points logrus at stderr and, when FilePath is set, a rotating file
// under FilePath/app. It returns the file logger so callers can close it.
func Setup(cfg config.Logging, app string) (io.Closer, error) {
	if app == "" {
		return nil, fmt.Errorf("logging.Setup: app name cannot be empty")
	}

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	level, errLevel := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if errLevel != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	var writers []io.Writer
	if cfg.ConsoleOutput {
		writers = append(writers, os.Stderr)
	}

	var file *lumberjack.Logger
	if cfg.FilePath != "" {
		dir := filepath.Join(cfg.FilePath, app)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("logging.Setup: create log directory %q: %w", dir, err)
		}
		file = &lumberjack.Logger{
			Filename:   filepath.Join(dir, app+".log"),
			MaxSize:    cfg.RotationSize,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}
		if file.MaxSize <= 0 {
			file.MaxSize = defaultRotationSize
		}
		if file.MaxBackups <= 0 {
			file.MaxBackups = defaultMaxBackups
		}
		writers = append(writers, file)
	}

	switch len(writers) {
	case 0:
		logrus.SetOutput(io.Discard)
	case 1:
		logrus.SetOutput(writers[0])
	default:
		logrus.SetOutput(io.MultiWriter(writers...))
	}

	if errLevel != nil {
		logrus.Warnf("Invalid log level %q, defaulting to info: %v", cfg.Level, errLevel)
	}
	logrus.WithFields(logrus.Fields{"app": app, "level": logrus.GetLevel().String()}).Debug("logging configured")

	if file == nil {
		return nopCloser{}, nil
	}
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
