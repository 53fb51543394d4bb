package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	ERP          ERPConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"FIELDOPS_APP_ENV" required:"true"`
	Port         string   `envconfig:"FIELDOPS_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"FIELDOPS_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"FIELDOPS_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"FIELDOPS_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FIELDOPS_DB_DSN"`
	Driver string `envconfig:"FIELDOPS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FIELDOPS_DB_HOST"`
	LegacyPort     int    `envconfig:"FIELDOPS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FIELDOPS_DB_USER"`
	LegacyPassword string `envconfig:"FIELDOPS_DB_PASSWORD"`
	LegacyName     string `envconfig:"FIELDOPS_DB_NAME"`
	LegacySSLMode  string `envconfig:"FIELDOPS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FIELDOPS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FIELDOPS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FIELDOPS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FIELDOPS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FIELDOPS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FIELDOPS_REDIS_ADDR"`
	Password     string        `envconfig:"FIELDOPS_REDIS_PASSWORD"`
	DB           int           `envconfig:"FIELDOPS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FIELDOPS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FIELDOPS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FIELDOPS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FIELDOPS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FIELDOPS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FIELDOPS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FIELDOPS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FIELDOPS_JWT_EXPIRATION_MINUTES" default:"720"`
}

// ERPConfig points at the Odoo-compatible JSON-RPC endpoint.
type ERPConfig struct {
	URL      string        `envconfig:"FIELDOPS_ERP_URL" required:"true"`
	Database string        `envconfig:"FIELDOPS_ERP_DB" required:"true"`
	Login    string        `envconfig:"FIELDOPS_ERP_LOGIN" required:"true"`
	Password string        `envconfig:"FIELDOPS_ERP_PASSWORD" required:"true"`
	Timeout  time.Duration `envconfig:"FIELDOPS_ERP_TIMEOUT" default:"30s"`
}

type CheckoutConfig struct {
	TaxRate          string        `envconfig:"FIELDOPS_CHECKOUT_TAX_RATE" default:"0"`
	DefaultPartnerID int64         `envconfig:"FIELDOPS_CHECKOUT_DEFAULT_PARTNER_ID" default:"1"`
	DraftTTL         time.Duration `envconfig:"FIELDOPS_CHECKOUT_DRAFT_TTL" default:"72h"`
}

// TaxRateDecimal returns the configured tax rate; validate guarantees it parses.
func (c CheckoutConfig) TaxRateDecimal() decimal.Decimal {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.TaxRate))
	if err != nil {
		return decimal.Zero
	}
	return rate
}

func (c CheckoutConfig) validate() error {
	raw := strings.TrimSpace(c.TaxRate)
	if raw == "" {
		return nil
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("%s must be a decimal: %w", EnvCheckoutTaxRate, err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvCheckoutTaxRate)
	}
	return nil
}

type FeatureFlagsConfig struct {
	UseSQLite     bool `envconfig:"FIELDOPS_USE_SQLITE" default:"false"`
	AutoMigrate   bool `envconfig:"FIELDOPS_AUTO_MIGRATE" default:"false"`
	PublishEvents bool `envconfig:"FIELDOPS_PUBLISH_EVENTS" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"FIELDOPS_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	CheckoutTopic string `envconfig:"FIELDOPS_PUBSUB_CHECKOUT_TOPIC" default:"fo-checkout-events"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" {
		return nil
	}
	if useSQLite {
		db.Driver = DriverSQLite
		db.DSN = "file:fieldops.db?cache=shared"
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
