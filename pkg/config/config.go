package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is passed to envconfig; all variables carry the PETSHOP_ prefix.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"PETSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"PETSHOP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PETSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PETSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"PETSHOP_DB_DSN"`

	Host     string `envconfig:"PETSHOP_DB_HOST"`
	Port     int    `envconfig:"PETSHOP_DB_PORT" default:"5432"`
	User     string `envconfig:"PETSHOP_DB_USER"`
	Password string `envconfig:"PETSHOP_DB_PASSWORD"`
	Name     string `envconfig:"PETSHOP_DB_NAME"`
	SSLMode  string `envconfig:"PETSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PETSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PETSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PETSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PETSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.Host == "" || db.User == "" || db.Name == "" {
		return fmt.Errorf("either PETSHOP_DB_DSN or PETSHOP_DB_HOST/USER/NAME must be set")
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   "/" + db.Name,
	}
	if db.Password != "" {
		u.User = url.UserPassword(db.User, db.Password)
	} else {
		u.User = url.User(db.User)
	}
	query := url.Values{}
	query.Set("sslmode", db.SSLMode)
	u.RawQuery = query.Encode()

	db.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"PETSHOP_REDIS_URL"`
	Address      string        `envconfig:"PETSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"PETSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"PETSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PETSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PETSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PETSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PETSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PETSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"PETSHOP_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"PETSHOP_JWT_ISSUER" default:"petshop"`
	ExpirationMinutes      int    `envconfig:"PETSHOP_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"PETSHOP_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PETSHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PETSHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PETSHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PETSHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PETSHOP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PETSHOP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"PETSHOP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"PETSHOP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"PETSHOP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"PETSHOP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"PETSHOP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PETSHOP_AUTO_MIGRATE" default:"false"`
}
