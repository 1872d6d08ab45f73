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
	AdminAuth     AdminAuthConfig
	AuthRateLimit AuthRateLimitConfig
	Stripe        StripeConfig
	Email         EmailConfig
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
	Env          string `envconfig:"TEMB_APP_ENV" required:"true"`
	Port         string `envconfig:"TEMB_APP_PORT" required:"true"`
	BaseURL      string `envconfig:"TEMB_BASE_URL" default:"http://localhost:3000"`
	LogLevel     string `envconfig:"TEMB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TEMB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TEMB_DB_DSN"`
	Driver string `envconfig:"TEMB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TEMB_DB_HOST"`
	LegacyPort     int    `envconfig:"TEMB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TEMB_DB_USER"`
	LegacyPassword string `envconfig:"TEMB_DB_PASSWORD"`
	LegacyName     string `envconfig:"TEMB_DB_NAME"`
	LegacySSLMode  string `envconfig:"TEMB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TEMB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TEMB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TEMB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TEMB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional. When neither URL nor address is set, login rate
// limiting is skipped.
type RedisConfig struct {
	URL          string        `envconfig:"TEMB_REDIS_URL"`
	Address      string        `envconfig:"TEMB_REDIS_ADDR"`
	Password     string        `envconfig:"TEMB_REDIS_PASSWORD"`
	DB           int           `envconfig:"TEMB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TEMB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TEMB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TEMB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TEMB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TEMB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Configured() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret         string `envconfig:"TEMB_JWT_SECRET" required:"true"`
	Issuer         string `envconfig:"TEMB_JWT_ISSUER" default:"temb-admin"`
	ExpirationDays int    `envconfig:"TEMB_JWT_EXPIRATION_DAYS" default:"7"`
}

// SessionTTL returns the admin session lifetime.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.ExpirationDays <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationDays) * 24 * time.Hour
}

// AdminAuthConfig holds the two fixed credential pairs for the dashboard.
// Passwords may be plaintext or an argon2id hash string.
type AdminAuthConfig struct {
	AdminUsername    string `envconfig:"TEMB_ADMIN_USERNAME" required:"true"`
	AdminPassword    string `envconfig:"TEMB_ADMIN_PASSWORD" required:"true"`
	SubadminUsername string `envconfig:"TEMB_SUBADMIN_USERNAME"`
	SubadminPassword string `envconfig:"TEMB_SUBADMIN_PASSWORD"`
}

type AuthRateLimitConfig struct {
	LoginWindow  time.Duration `envconfig:"TEMB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit int           `envconfig:"TEMB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"10"`
}

type StripeConfig struct {
	SecretKey          string `envconfig:"TEMB_STRIPE_SECRET_KEY"`
	WebhookSecret      string `envconfig:"TEMB_STRIPE_WEBHOOK_SECRET"`
	ConnectedAccountID string `envconfig:"TEMB_STRIPE_CONNECTED_ACCOUNT_ID"`
	PriceBlackEdition  string `envconfig:"TEMB_STRIPE_PRICE_BLACK_EDITION"`
	PriceWhiteEdition  string `envconfig:"TEMB_STRIPE_PRICE_WHITE_EDITION"`
	FeeBasisPoints     int64  `envconfig:"TEMB_STRIPE_FEE_BASIS_POINTS" default:"150"`
	ShippingRateMX     string `envconfig:"TEMB_STRIPE_SHIPPING_RATE_MX"`
	ShippingRateINTL   string `envconfig:"TEMB_STRIPE_SHIPPING_RATE_INTL"`
}

// Configured reports whether checkout can talk to Stripe at all.
func (s StripeConfig) Configured() bool {
	return strings.TrimSpace(s.SecretKey) != ""
}

// FeeModeActive reports whether platform-fee routing to a connected account
// is enabled.
func (s StripeConfig) FeeModeActive() bool {
	return strings.TrimSpace(s.ConnectedAccountID) != ""
}

type EmailConfig struct {
	ResendAPIKey string `envconfig:"TEMB_RESEND_API_KEY"`
	From         string `envconfig:"TEMB_EMAIL_FROM" default:"orders@electronicmusicbook.com"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TEMB_AUTO_MIGRATE" default:"false"`
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
