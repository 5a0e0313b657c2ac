package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Alerts       AlertConfig
	Line         LineConfig
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
	Env          string `envconfig:"OFFICESTOCK_APP_ENV" default:"development"`
	Port         string `envconfig:"OFFICESTOCK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"OFFICESTOCK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OFFICESTOCK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"OFFICESTOCK_DB_DSN"`

	Host     string `envconfig:"OFFICESTOCK_DB_HOST"`
	Port     int    `envconfig:"OFFICESTOCK_DB_PORT" default:"5432"`
	User     string `envconfig:"OFFICESTOCK_DB_USER"`
	Password string `envconfig:"OFFICESTOCK_DB_PASSWORD"`
	Name     string `envconfig:"OFFICESTOCK_DB_NAME"`
	SSLMode  string `envconfig:"OFFICESTOCK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OFFICESTOCK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OFFICESTOCK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OFFICESTOCK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OFFICESTOCK_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// LockTimeout bounds how long a ledger transaction may wait on a row lock.
	LockTimeout time.Duration `envconfig:"OFFICESTOCK_DB_LOCK_TIMEOUT" default:"5s"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database config incomplete: set OFFICESTOCK_DB_DSN or host/user/name")
	}
	d.DSN = fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
	return nil
}

type AlertConfig struct {
	// LowStockThreshold triggers a notification when a withdrawal leaves
	// an item at or below this quantity.
	LowStockThreshold int `envconfig:"OFFICESTOCK_LOW_STOCK_THRESHOLD" default:"5"`
}

type LineConfig struct {
	AccessToken string        `envconfig:"OFFICESTOCK_LINE_ACCESS_TOKEN"`
	RecipientID string        `envconfig:"OFFICESTOCK_LINE_USER_ID"`
	BaseURL     string        `envconfig:"OFFICESTOCK_LINE_BASE_URL" default:"https://api.line.me"`
	Timeout     time.Duration `envconfig:"OFFICESTOCK_LINE_TIMEOUT" default:"5s"`
}

// Enabled reports whether the LINE sink has credentials to push with.
func (l LineConfig) Enabled() bool {
	return strings.TrimSpace(l.AccessToken) != "" && strings.TrimSpace(l.RecipientID) != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"OFFICESTOCK_FEATURE_AUTO_MIGRATE" default:"false"`
}
