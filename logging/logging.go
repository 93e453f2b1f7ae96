// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rpupo63/personal-blog-backend/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup builds a logger from cfg and installs it as log.Logger
func Setup(cfg config.LogConfig) zerolog.Logger {
	logger := New(cfg, os.Stdout)
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	log.Logger = logger
	return logger
}

// New builds a logger writing to terminal and, when cfg.File is set, to a rotated file.
// The file always receives JSON so it stays machine readable.
func New(cfg config.LogConfig, terminal io.Writer) zerolog.Logger {
	var writers []io.Writer

	if terminal != nil {
		if cfg.JSON {
			writers = append(writers, terminal)
		} else {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:        terminal,
				NoColor:    cfg.NoColor,
				TimeFormat: time.RFC3339,
			})
		}
	}

	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.Rotation.MaxSize,
			MaxBackups: cfg.Rotation.MaxBackups,
			MaxAge:     cfg.Rotation.MaxAge,
			Compress:   cfg.Rotation.Compress,
		})
	}

	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a config level name onto zerolog, defaulting to info
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
