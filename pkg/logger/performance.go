package logger

import (
	"os"
	"sync"
	"time"

	"github.com/Payphone-Digital/catalog/internal/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

// PerformanceConfig tunes the builder-style logger used on request paths
type PerformanceConfig struct {
	MinLogLevel      zapcore.Level `json:"min_log_level"`
	EnableSampling   bool          `json:"enable_sampling"`
	SampleFirst      int           `json:"sample_first"`
	SampleThereafter int           `json:"sample_thereafter"`
	MaxLogPerSecond  int           `json:"max_log_per_second"`
	EnableRateLimit  bool          `json:"enable_rate_limit"`
}

// DefaultPerformanceConfig logs everything from info up
func DefaultPerformanceConfig() PerformanceConfig {
	return PerformanceConfig{
		MinLogLevel:      zapcore.InfoLevel,
		SampleFirst:      100,
		SampleThereafter: 100,
		MaxLogPerSecond:  1000,
	}
}

// ProductionConfig samples repeated messages and caps the log rate
func ProductionConfig() PerformanceConfig {
	return PerformanceConfig{
		MinLogLevel:      zapcore.InfoLevel,
		EnableSampling:   true,
		SampleFirst:      100,
		SampleThereafter: 10,
		MaxLogPerSecond:  500,
		EnableRateLimit:  true,
	}
}

// DevelopmentConfig logs everything, including debug
func DevelopmentConfig() PerformanceConfig {
	return PerformanceConfig{
		MinLogLevel:      zapcore.DebugLevel,
		SampleFirst:      100,
		SampleThereafter: 100,
		MaxLogPerSecond:  10000,
	}
}

// OptimizedLogger drops entries below the configured level or above the
// configured rate before any field is built
type OptimizedLogger struct {
	config  PerformanceConfig
	logger  *zap.Logger
	limiter *rate.Limiter
}

// NewOptimizedLogger wraps base, or a stdout production logger when base is nil
func NewOptimizedLogger(config PerformanceConfig, base *zap.Logger) (*OptimizedLogger, error) {
	if base == nil {
		zapConfig := zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(config.MinLogLevel)
		zapConfig.OutputPaths = []string{"stdout"}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
		zapConfig.EncoderConfig.TimeKey = "timestamp"
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zapConfig.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
		zapConfig.DisableStacktrace = true
		zapConfig.Sampling = nil

		var err error
		base, err = zapConfig.Build(zap.WithCaller(false))
		if err != nil {
			return nil, err
		}
	}

	if config.EnableSampling {
		base = base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewSamplerWithOptions(core, time.Second, config.SampleFirst, config.SampleThereafter)
		}))
	}

	ol := &OptimizedLogger{
		config: config,
		logger: base,
	}
	if config.EnableRateLimit && config.MaxLogPerSecond > 0 {
		ol.limiter = rate.NewLimiter(rate.Limit(config.MaxLogPerSecond), config.MaxLogPerSecond)
	}

	return ol, nil
}

// ShouldLog reports whether an entry at level passes the level and rate gates
func (ol *OptimizedLogger) ShouldLog(level zapcore.Level) bool {
	if level < ol.config.MinLogLevel {
		return false
	}
	// errors are never rate limited
	if ol.limiter != nil && level < zapcore.ErrorLevel && !ol.limiter.Allow() {
		return false
	}
	return true
}

// Zap exposes the underlying logger
func (ol *OptimizedLogger) Zap() *zap.Logger {
	return ol.logger
}

var (
	optimizedLogger *OptimizedLogger
	optimizedMu     sync.RWMutex
)

// InitOptimizedLogger installs the global builder logger on top of base
func InitOptimizedLogger(config PerformanceConfig, base *zap.Logger) error {
	ol, err := NewOptimizedLogger(config, base)
	if err != nil {
		return err
	}

	optimizedMu.Lock()
	optimizedLogger = ol
	optimizedMu.Unlock()
	return nil
}

// GetOptimizedLogger returns the global builder logger, creating one from
// APP_ENV and the global zap logger on first use. Before InitLogger the
// result discards everything.
func GetOptimizedLogger() *OptimizedLogger {
	optimizedMu.RLock()
	ol := optimizedLogger
	optimizedMu.RUnlock()
	if ol != nil {
		return ol
	}

	optimizedMu.Lock()
	defer optimizedMu.Unlock()
	if optimizedLogger != nil {
		return optimizedLogger
	}

	config := DefaultPerformanceConfig()
	switch os.Getenv("APP_ENV") {
	case constants.EnvProduction:
		config = ProductionConfig()
	case constants.EnvDevelopment:
		config = DevelopmentConfig()
	}

	ol, err := NewOptimizedLogger(config, GetLogger())
	if err != nil {
		ol = &OptimizedLogger{config: config, logger: zap.NewNop()}
	}
	optimizedLogger = ol
	return optimizedLogger
}
