package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger: человекочитаемый вывод в консоль + файл с ротацией
// (файл отключается пустым LogFile).
func SetupLogger(cfg Config, console io.Writer) zerolog.Logger {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}}
	if cfg.LogFile != "" {
		_ = os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755)
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		})
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}
