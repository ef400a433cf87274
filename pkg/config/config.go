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
	Pricing      PricingConfig
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
	Env          string `envconfig:"DEALERHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"DEALERHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DEALERHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DEALERHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DEALERHUB_DB_DSN"`
	Driver string `envconfig:"DEALERHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DEALERHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"DEALERHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DEALERHUB_DB_USER"`
	LegacyPassword string `envconfig:"DEALERHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"DEALERHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"DEALERHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DEALERHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DEALERHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DEALERHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DEALERHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DEALERHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DEALERHUB_REDIS_ADDR"`
	Password     string        `envconfig:"DEALERHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"DEALERHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DEALERHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DEALERHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DEALERHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DEALERHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DEALERHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PricingConfig carries the knobs the pricing paths read at runtime.
type PricingConfig struct {
	DefaultVATRate float64 `envconfig:"DEALERHUB_PRICING_DEFAULT_VAT_RATE" default:"0.07"`
	ResaleMarkup   float64 `envconfig:"DEALERHUB_PRICING_RESALE_MARKUP" default:"1.25"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DEALERHUB_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
