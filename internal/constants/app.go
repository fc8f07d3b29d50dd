package constants

// Application Information
const (
	AppName    = "Catalog Service"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Cache Key Prefixes
const (
	CacheKeyPrefix = "catalog:"
	CacheKeyFacets = CacheKeyPrefix + "facets"
)

// Log Levels
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)
