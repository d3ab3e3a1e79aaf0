package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Cart          CartConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ZAKKA_APP_ENV" required:"true"`
	Port         string `envconfig:"ZAKKA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ZAKKA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ZAKKA_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"ZAKKA_LOG_FORMAT" default:"json"`
}

// ConsoleLogs reports whether human-readable log output was requested.
func (a AppConfig) ConsoleLogs() bool {
	return strings.EqualFold(a.LogFormat, "console")
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ZAKKA_DB_DSN"`
	Driver string `envconfig:"ZAKKA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ZAKKA_DB_HOST"`
	LegacyPort     int    `envconfig:"ZAKKA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ZAKKA_DB_USER"`
	LegacyPassword string `envconfig:"ZAKKA_DB_PASSWORD"`
	LegacyName     string `envconfig:"ZAKKA_DB_NAME"`
	LegacySSLMode  string `envconfig:"ZAKKA_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"ZAKKA_DB_SQLITE_PATH" default:"zakka.db"`

	MaxOpenConns    int           `envconfig:"ZAKKA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ZAKKA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ZAKKA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ZAKKA_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"ZAKKA_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ZAKKA_REDIS_URL"`
	Address      string        `envconfig:"ZAKKA_REDIS_ADDR"`
	Password     string        `envconfig:"ZAKKA_REDIS_PASSWORD"`
	DB           int           `envconfig:"ZAKKA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ZAKKA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ZAKKA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ZAKKA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ZAKKA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ZAKKA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ZAKKA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ZAKKA_JWT_ISSUER" default:"zakka"`
	ExpirationMinutes      int    `envconfig:"ZAKKA_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"ZAKKA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ZAKKA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ZAKKA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ZAKKA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ZAKKA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ZAKKA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ZAKKA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"ZAKKA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"ZAKKA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"ZAKKA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"ZAKKA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"ZAKKA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// CartConfig controls where carts live and how the browser keeps its handle.
type CartConfig struct {
	Store        string        `envconfig:"ZAKKA_CART_STORE" default:"redis"`
	TTL          time.Duration `envconfig:"ZAKKA_CART_TTL" default:"72h"`
	CookieName   string        `envconfig:"ZAKKA_CART_COOKIE_NAME" default:"zakka_session"`
	CookieSecure bool          `envconfig:"ZAKKA_CART_COOKIE_SECURE" default:"false"`
	// SweepInterval paces expiry sweeps of the memory store.
	SweepInterval time.Duration `envconfig:"ZAKKA_CART_SWEEP_INTERVAL" default:"10m"`
}

// UsesRedis reports whether carts are kept in Redis.
func (c CartConfig) UsesRedis() bool {
	return strings.EqualFold(strings.TrimSpace(c.Store), CartStoreRedis)
}

func (c CartConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Store)) {
	case CartStoreRedis, CartStoreMemory:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvCartStore, CartStoreRedis, CartStoreMemory, c.Store)
	}
	if c.TTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvCartTTL)
	}
	return nil
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ZAKKA_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ZAKKA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ZAKKA_AUTO_MIGRATE" default:"false"`
	SeedOnBoot  bool `envconfig:"ZAKKA_SEED_ON_BOOT" default:"false"`
}

// IsSQLite reports whether the sqlite driver was selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" || db.IsSQLite() {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
