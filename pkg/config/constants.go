package config

// EnvPrefix is the envconfig prefix shared by every VIVIMART_* variable.
const EnvPrefix = "VIVIMART"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags (tests, error text).
const (
	EnvAppEnv     = "VIVIMART_APP_ENV"
	EnvPort       = "VIVIMART_APP_PORT"
	EnvDBDSN      = "VIVIMART_DB_DSN"
	EnvDBHost     = "VIVIMART_DB_HOST"
	EnvDBUser     = "VIVIMART_DB_USER"
	EnvDBName     = "VIVIMART_DB_NAME"
	EnvRedisURL   = "VIVIMART_REDIS_URL"
	EnvJWTSecret  = "VIVIMART_JWT_SECRET"
	EnvJWTIssuer  = "VIVIMART_JWT_ISSUER"
	EnvJWTExpMins = "VIVIMART_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
