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
	FeatureFlags FeatureFlagsConfig
	Catalog      CatalogConfig
	Shipping     ShippingConfig
	Loyalty      LoyaltyConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"GROCERLY_APP_ENV" required:"true"`
	Port         string `envconfig:"GROCERLY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GROCERLY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GROCERLY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GROCERLY_DB_DSN"`
	Driver string `envconfig:"GROCERLY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GROCERLY_DB_HOST"`
	LegacyPort     int    `envconfig:"GROCERLY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GROCERLY_DB_USER"`
	LegacyPassword string `envconfig:"GROCERLY_DB_PASSWORD"`
	LegacyName     string `envconfig:"GROCERLY_DB_NAME"`
	LegacySSLMode  string `envconfig:"GROCERLY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GROCERLY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GROCERLY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GROCERLY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GROCERLY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GROCERLY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GROCERLY_REDIS_ADDR"`
	Password     string        `envconfig:"GROCERLY_REDIS_PASSWORD"`
	DB           int           `envconfig:"GROCERLY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GROCERLY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GROCERLY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GROCERLY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GROCERLY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GROCERLY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GROCERLY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GROCERLY_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GROCERLY_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GROCERLY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GROCERLY_AUTO_MIGRATE" default:"false"`
}

// CatalogConfig bounds catalog reads. UnitFetchTimeout caps how long unit
// resolution may block before degrading to the synthesized fallback unit.
type CatalogConfig struct {
	UnitFetchTimeout    time.Duration `envconfig:"GROCERLY_CATALOG_UNIT_FETCH_TIMEOUT" default:"10s"`
	PromotionCacheTTL   time.Duration `envconfig:"GROCERLY_CATALOG_PROMOTION_CACHE_TTL" default:"1m"`
	DefaultLanguage     string        `envconfig:"GROCERLY_CATALOG_DEFAULT_LANGUAGE" default:"en"`
	MaxQuantityPerQuote int           `envconfig:"GROCERLY_CATALOG_MAX_QTY_PER_QUOTE" default:"1000"`
}

// ShippingConfig drives the distance-banded delivery fee at checkout.
type ShippingConfig struct {
	OriginLat        float64 `envconfig:"GROCERLY_SHIPPING_ORIGIN_LAT" default:"0"`
	OriginLng        float64 `envconfig:"GROCERLY_SHIPPING_ORIGIN_LNG" default:"0"`
	BaseFee          string  `envconfig:"GROCERLY_SHIPPING_BASE_FEE" default:"2.50"`
	PerKmFee         string  `envconfig:"GROCERLY_SHIPPING_PER_KM_FEE" default:"0.40"`
	FreeOverSubtotal string  `envconfig:"GROCERLY_SHIPPING_FREE_OVER_SUBTOTAL" default:"75"`
	MaxRadiusKM      float64 `envconfig:"GROCERLY_SHIPPING_MAX_RADIUS_KM" default:"25"`
}

// LoyaltyConfig drives point earn/redeem conversion at checkout.
type LoyaltyConfig struct {
	PointValue    string `envconfig:"GROCERLY_LOYALTY_POINT_VALUE" default:"0.01"`
	EarnPerAmount string `envconfig:"GROCERLY_LOYALTY_EARN_PER_AMOUNT" default:"1"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"GROCERLY_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"GROCERLY_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"GROCERLY_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"GROCERLY_PUBSUB_ORDERS_TOPIC" default:"grocerly-order-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"GROCERLY_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"GROCERLY_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"GROCERLY_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
