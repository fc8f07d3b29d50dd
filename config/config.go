package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Payphone-Digital/catalog/internal/constants"
	"github.com/Payphone-Digital/catalog/pkg/validation"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Catalog   CatalogConfig
}

type AppConfig struct {
	Name            string        `mapstructure:"name" validate:"required"`
	Environment     string        `mapstructure:"environment" validate:"oneof=development staging production test"`
	Debug           bool          `mapstructure:"debug"`
	Port            string        `mapstructure:"port" validate:"required,numeric"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	LogsPath        string        `mapstructure:"logs_path"`
	LogLevel        string        `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins" validate:"min=1,dive,required"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	Host            string        `mapstructure:"host" validate:"required_if=Driver postgres"`
	Port            int           `mapstructure:"port" validate:"required_if=Driver postgres,gte=0,lte=65535"`
	Name            string        `mapstructure:"name" validate:"required_if=Driver postgres"`
	User            string        `mapstructure:"user" validate:"required_if=Driver postgres"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"sslmode" validate:"oneof=disable require verify-ca verify-full prefer allow"`
	SQLitePath      string        `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
}

type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host" validate:"required_if=Enabled true"`
	Port         int           `mapstructure:"port" validate:"gte=0,lte=65535"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database" validate:"gte=0"`
	PoolSize     int           `mapstructure:"pool_size" validate:"gte=1"`
	MinIdleConns int           `mapstructure:"min_idle_conns" validate:"gte=0"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
}

// RateLimitConfig configures the per-client token bucket
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" validate:"gt=0"`
	Burst             int           `mapstructure:"burst" validate:"gte=1"`
	ClientTTL         time.Duration `mapstructure:"client_ttl" validate:"gt=0"`
}

type CatalogConfig struct {
	FacetCacheTTL time.Duration `mapstructure:"facet_cache_ttl" validate:"gte=0"`
	SeedOnStart   bool          `mapstructure:"seed_on_start"`
}

func LoadConfig() (*Config, error) {
	// A missing .env is fine, the process environment still applies
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:            getEnv("APP_NAME", "catalog-service"),
			Environment:     getEnv("APP_ENV", constants.EnvDevelopment),
			Port:            getEnv("APP_PORT", "8080"),
			Debug:           getEnvAsBool("APP_DEBUG", true),
			RequestTimeout:  getEnvAsDuration("APP_REQUEST_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("APP_SHUTDOWN_TIMEOUT", 15*time.Second),
			LogsPath:        getEnv("LOGS_PATH", ""),
			LogLevel:        getEnv("LOG_LEVEL", ""),
			AllowedOrigins:  getEnvAsSlice("APP_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "catalog"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			SQLitePath:      getEnv("DB_SQLITE_PATH", "catalog.db"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 50),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
			SlowThreshold:   getEnvAsDuration("DB_SLOW_THRESHOLD", 200*time.Millisecond),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			Database:     getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvAsDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvAsDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getEnvAsDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 20),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 40),
			ClientTTL:         getEnvAsDuration("RATE_LIMIT_CLIENT_TTL", 10*time.Minute),
		},
		Catalog: CatalogConfig{
			FacetCacheTTL: getEnvAsDuration("CATALOG_FACET_CACHE_TTL", 5*time.Minute),
			SeedOnStart:   getEnvAsBool("CATALOG_SEED_ON_START", true),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks struct constraints on the loaded configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %s: %w", validation.Describe(err), err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == constants.EnvProduction
}

// Address returns the host:port Redis listens on
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
