package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFileEnvKey redirects logs to a file instead of stderr.
const LogFileEnvKey = "WSENGINE_LOG_FILE"

var (
	atomicLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	base        *zap.Logger
	sugar       *zap.SugaredLogger
)

func init() {
	cfg := zap.NewProductionConfig()
	cfg.Level = atomicLevel

	logger, err := build(cfg, os.Getenv(LogFileEnvKey))
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}
	base = logger
	sugar = base.Sugar()
}

// build writes to logFile when set. A log file that cannot be opened falls
// back to stderr with a warning, so commands still answer on stdout.
func build(cfg zap.Config, logFile string) (*zap.Logger, error) {
	// stdout carries the JSON protocol, so logs never go there.
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if logFile == "" {
		return cfg.Build()
	}

	fileCfg := cfg
	fileCfg.OutputPaths = []string{logFile}
	fileCfg.ErrorOutputPaths = []string{logFile}
	logger, err := fileCfg.Build()
	if err == nil {
		return logger, nil
	}

	logger, stderrErr := cfg.Build()
	if stderrErr != nil {
		return nil, stderrErr
	}
	logger.Warn("cannot open log file, logging to stderr",
		zap.String("path", logFile), zap.Error(err))
	return logger, nil
}

// SetLevel sets the minimum level by name (debug, info, warn, error).
// Unknown names leave the level unchanged and return an error.
func SetLevel(level string) error {
	parsed, err := ParseLevel(level)
	if err != nil {
		return err
	}
	atomicLevel.SetLevel(parsed)
	return nil
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// Level returns the current minimum level.
func Level() zapcore.Level {
	return atomicLevel.Level()
}

// L returns the structured logger for callers that want typed fields.
func L() *zap.Logger {
	return base
}

func Sync() {
	_ = base.Sync()
}

func Debug(format string, args ...any) {
	sugar.Debugf(format, args...)
}

func Info(format string, args ...any) {
	sugar.Infof(format, args...)
}

func Warn(format string, args ...any) {
	sugar.Warnf(format, args...)
}

func Error(format string, args ...any) {
	sugar.Errorf(format, args...)
}
