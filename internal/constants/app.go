package constants

// Environment Types
const (
	EnvLocal       = "local"
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Token
const (
	TokenTypeBearer = "bearer"
	BearerScheme    = "Bearer"
)

// Cache Key Segments
const (
	CacheKeyUser = "user:"
)

// Log Levels
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)
