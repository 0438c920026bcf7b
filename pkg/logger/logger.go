package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var InfoLogger, FatalLogger *zap.Logger

var (
	serviceName = "default"
)

func SetServiceName(newName string) string {
	oldName := serviceName
	serviceName = newName

	return oldName
}

// Init поднимает production-логгер zap с уровнем debug|info|warn|error.
func Init(level string) error {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	InfoLogger = l
	FatalLogger = l
	return nil
}

func Sync() {
	if InfoLogger != nil {
		_ = InfoLogger.Sync()
	}
}

// L — структурный логгер с полем service. До Init (в тестах) пишет в никуда.
func L() *zap.Logger {
	if InfoLogger == nil {
		return zap.NewNop()
	}
	return InfoLogger.With(zap.String("service", serviceName))
}

func Debug(format string, args ...interface{}) {
	L().Debug(fmt.Sprintf(format, args...))
}

func Info(format string, args ...interface{}) {
	L().Info(fmt.Sprintf(format, args...))
}

func Warn(format string, args ...interface{}) {
	L().Warn(fmt.Sprintf(format, args...))
}

func Error(format string, args ...interface{}) {
	L().Error(fmt.Sprintf(format, args...))
}

func Fatal(format string, args ...interface{}) {
	if FatalLogger == nil {
		panic("FatalLogger is not initialized")
	}

	msg := fmt.Sprintf(format, args...)
	FatalLogger.With(
		zap.String("service", serviceName),
	).Fatal(msg)
}
