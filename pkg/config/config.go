package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VENTAPOS_APP_ENV" required:"true"`
	Port         string `envconfig:"VENTAPOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VENTAPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VENTAPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"VENTAPOS_DB_DSN"`

	Host     string `envconfig:"VENTAPOS_DB_HOST"`
	Port     int    `envconfig:"VENTAPOS_DB_PORT" default:"5432"`
	User     string `envconfig:"VENTAPOS_DB_USER"`
	Password string `envconfig:"VENTAPOS_DB_PASSWORD"`
	Name     string `envconfig:"VENTAPOS_DB_NAME"`
	SSLMode  string `envconfig:"VENTAPOS_DB_SSLMODE" default:"disable"`

	// LockTimeout bounds how long a unit of work may wait on a row lock
	// before the store aborts the acquisition.
	LockTimeout time.Duration `envconfig:"VENTAPOS_DB_LOCK_TIMEOUT" default:"5s"`

	MaxOpenConns    int           `envconfig:"VENTAPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VENTAPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VENTAPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VENTAPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VENTAPOS_REDIS_URL" required:"true"`
	Password     string        `envconfig:"VENTAPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"VENTAPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VENTAPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VENTAPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VENTAPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VENTAPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VENTAPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"VENTAPOS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VENTAPOS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"VENTAPOS_JWT_EXPIRATION_MINUTES" required:"true"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VENTAPOS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VENTAPOS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VENTAPOS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VENTAPOS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VENTAPOS_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"VENTAPOS_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"VENTAPOS_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"VENTAPOS_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VENTAPOS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
