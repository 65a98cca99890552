package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logDir      = "logs"
	logFileName = "dotfield.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging returns a file-backed development logger when debug is set
// The terminal is in raw mode, so nothing is ever written to stdout or stderr;
// without debug every logger is a no-op and the standard logger is discarded
func setupLogging(debug bool) (*zap.Logger, *os.File) {
	if !debug {
		log.SetOutput(io.Discard)
		return zap.NewNop(), nil
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.SetOutput(io.Discard)
		return zap.NewNop(), nil
	}

	path := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("dotfield-%s.log", time.Now().Format("20060102-150405")))
		_ = os.Rename(path, rotated)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return zap.NewNop(), nil
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(f),
		zap.DebugLevel,
	)
	logger := zap.New(core, zap.AddCaller(), zap.Development())
	log.SetOutput(f)
	return logger, f
}
