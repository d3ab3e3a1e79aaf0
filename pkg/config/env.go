package config

// EnvPrefix is passed to envconfig; every field carries its full variable name.
const EnvPrefix = "ZAKKA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	CartStoreRedis  = "redis"
	CartStoreMemory = "memory"
)

const (
	EnvAppEnv    = "ZAKKA_APP_ENV"
	EnvPort      = "ZAKKA_APP_PORT"
	EnvLogLevel  = "ZAKKA_LOG_LEVEL"
	EnvDBDSN     = "ZAKKA_DB_DSN"
	EnvDBHost    = "ZAKKA_DB_HOST"
	EnvDBUser    = "ZAKKA_DB_USER"
	EnvDBName    = "ZAKKA_DB_NAME"
	EnvRedisURL  = "ZAKKA_REDIS_URL"
	EnvJWTSecret = "ZAKKA_JWT_SECRET"
	EnvJWTIssuer = "ZAKKA_JWT_ISSUER"
	EnvJWTExp    = "ZAKKA_JWT_EXPIRATION_MINUTES"
	EnvCartStore = "ZAKKA_CART_STORE"
	EnvCartTTL   = "ZAKKA_CART_TTL"
	EnvUseSQLite = "ZAKKA_USE_SQLITE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
