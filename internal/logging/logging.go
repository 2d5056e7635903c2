// Package logging builds the zap logger shared by every component.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Default rotation settings for the file sink.
const (
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
	defaultMaxAgeDays = 28
)

// ErrInvalidLevel indicates an unknown --log-level value.
var ErrInvalidLevel = errors.New("invalid log level")

// Config describes where logs go.
type Config struct {
	Level string    // debug, info, warn or error. Empty means info.
	File  string    // Optional JSON log file, rotated by size.
	Out   io.Writer // Console sink. Nil means os.Stderr.

	MaxSizeMB  int // Rotation size; zero uses the default.
	MaxBackups int
	MaxAgeDays int
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("%w: %q (want debug, info, warn or error)", ErrInvalidLevel, s)
	}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

// New builds a logger writing human-readable lines to the console and,
// when cfg.File is set, JSON lines to a rotated file. The returned close
// function flushes and releases the file sink.
func New(cfg Config) (*zap.Logger, func() error, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	consoleCfg := encoderConfig()
	consoleCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(out), level),
	}

	var rotator *lumberjack.Logger
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o750); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		rotator = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, defaultMaxSizeMB),
			MaxBackups: orDefault(cfg.MaxBackups, defaultMaxBackups),
			MaxAge:     orDefault(cfg.MaxAgeDays, defaultMaxAgeDays),
		}
		// The file keeps everything from debug up for post-mortem.
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(rotator), zapcore.DebugLevel))
	}

	logger := zap.New(zapcore.NewTee(cores...))

	closeFn := func() error {
		// Sync on a console sink fails for terminals; only the file matters.
		_ = logger.Sync()
		if rotator != nil {
			return rotator.Close()
		}
		return nil
	}
	return logger, closeFn, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
