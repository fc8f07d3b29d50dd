package logger

import (
	"os"
	"path/filepath"

	"github.com/Payphone-Digital/catalog/config"
	"github.com/Payphone-Digital/catalog/internal/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger
)

// InitLogger initializes the global Zap logger from configuration. Logs go
// to stdout/stderr, and additionally to files when LogsPath is set.
func InitLogger(cfg *config.Config) error {
	zapLevel := LevelFor(cfg)

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	encoder := zapcore.NewJSONEncoder(encoderConfig)
	if cfg.IsProduction() {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	infoWriters := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	errorWriters := []zapcore.WriteSyncer{zapcore.AddSync(os.Stderr)}

	if cfg.App.LogsPath != "" {
		if err := os.MkdirAll(cfg.App.LogsPath, 0755); err != nil {
			return err
		}

		infoFile, err := os.OpenFile(filepath.Join(cfg.App.LogsPath, "info.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		errorFile, err := os.OpenFile(filepath.Join(cfg.App.LogsPath, "error.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			infoFile.Close()
			return err
		}

		infoWriters = append(infoWriters, zapcore.AddSync(infoFile))
		errorWriters = append(errorWriters, zapcore.AddSync(errorFile))
	}

	// info core stops below error level; errors only go to the error sinks
	infoCore := zapcore.NewCore(
		encoder,
		zapcore.NewMultiWriteSyncer(infoWriters...),
		zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= zapLevel && l < zapcore.ErrorLevel }),
	)
	errorCore := zapcore.NewCore(
		encoder,
		zapcore.NewMultiWriteSyncer(errorWriters...),
		zapcore.ErrorLevel,
	)

	SetLogger(zap.New(zapcore.NewTee(infoCore, errorCore), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("service", cfg.App.Name)))

	return nil
}

// LevelFor returns the configured log level, falling back to info in
// production and debug elsewhere
func LevelFor(cfg *config.Config) zapcore.Level {
	switch cfg.App.LogLevel {
	case constants.LogLevelDebug:
		return zapcore.DebugLevel
	case constants.LogLevelInfo:
		return zapcore.InfoLevel
	case constants.LogLevelWarn:
		return zapcore.WarnLevel
	case constants.LogLevelError:
		return zapcore.ErrorLevel
	}
	if cfg.IsProduction() {
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}

// SetLogger replaces the global logger
func SetLogger(l *zap.Logger) {
	Logger = l
	Sugar = l.Sugar()
}

// GetLogger returns the structured logger, or a no-op logger before
// InitLogger has run
func GetLogger() *zap.Logger {
	if Logger == nil {
		return zap.NewNop()
	}
	return Logger
}

// GetSugarLogger returns the sugared logger
func GetSugarLogger() *zap.SugaredLogger {
	return GetLogger().Sugar()
}

// Sync syncs all logs (call this before application exits)
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// WithFields adds structured fields to the logger
func WithFields(fields ...zap.Field) *zap.Logger {
	return GetLogger().With(fields...)
}

// LogRequest logs HTTP request information
func LogRequest(method, path string, statusCode int, duration int64, clientIP string, userAgent string, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", statusCode),
		zap.Int64("duration_ms", duration),
		zap.String("client_ip", clientIP),
		zap.String("user_agent", userAgent),
	}, fields...)

	switch {
	case statusCode >= 500:
		GetLogger().Error("HTTP Request", allFields...)
	case statusCode >= 400:
		GetLogger().Warn("HTTP Request", allFields...)
	default:
		GetLogger().Info("HTTP Request", allFields...)
	}
}

// LogError logs error with stack trace
func LogError(err error, message string, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.Error(err),
	}, fields...)

	GetLogger().Error(message, allFields...)
}

// LogPanic logs a recovered panic
func LogPanic(recovered interface{}, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.Any("panic", recovered),
		zap.Stack("stack"),
	}, fields...)

	GetLogger().Error("Panic recovered", allFields...)
}

// LogDatabase logs database operations
func LogDatabase(operation, table string, duration int64, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("operation", operation),
		zap.String("table", table),
		zap.Int64("duration_ms", duration),
	}, fields...)

	GetLogger().Debug("Database operation", allFields...)
}
