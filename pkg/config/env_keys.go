package config

// EnvPrefix is passed to envconfig.Process; individual fields carry the
// fully-qualified names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "VENTAPOS_APP_ENV"
	EnvPort       = "VENTAPOS_APP_PORT"
	EnvDBDSN      = "VENTAPOS_DB_DSN"
	EnvDBHost     = "VENTAPOS_DB_HOST"
	EnvDBUser     = "VENTAPOS_DB_USER"
	EnvDBName     = "VENTAPOS_DB_NAME"
	EnvRedisURL   = "VENTAPOS_REDIS_URL"
	EnvJWTSecret  = "VENTAPOS_JWT_SECRET"
	EnvJWTIssuer  = "VENTAPOS_JWT_ISSUER"
	EnvJWTExpMins = "VENTAPOS_JWT_EXPIRATION_MINUTES"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
