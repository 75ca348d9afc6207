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
	OTP           OTPConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GoogleMaps    GoogleMapsConfig
	Razorpay      RazorpayConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Orders        OrdersConfig
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
	Env          string `envconfig:"VIVIMART_APP_ENV" required:"true"`
	Port         string `envconfig:"VIVIMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VIVIMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VIVIMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VIVIMART_DB_DSN"`
	Driver string `envconfig:"VIVIMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VIVIMART_DB_HOST"`
	LegacyPort     int    `envconfig:"VIVIMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VIVIMART_DB_USER"`
	LegacyPassword string `envconfig:"VIVIMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"VIVIMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"VIVIMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VIVIMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VIVIMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VIVIMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VIVIMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VIVIMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VIVIMART_REDIS_ADDR"`
	Password     string        `envconfig:"VIVIMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"VIVIMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VIVIMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VIVIMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VIVIMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VIVIMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VIVIMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"VIVIMART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VIVIMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"VIVIMART_JWT_EXPIRATION_MINUTES" required:"true"`
}

type OTPConfig struct {
	TTL         time.Duration `envconfig:"VIVIMART_OTP_TTL" default:"5m"`
	MaxAttempts int           `envconfig:"VIVIMART_OTP_MAX_ATTEMPTS" default:"5"`
	CodeLength  int           `envconfig:"VIVIMART_OTP_CODE_LENGTH" default:"6"`

	ArgonMemoryKB    int `envconfig:"VIVIMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VIVIMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VIVIMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VIVIMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VIVIMART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	OTPWindow     time.Duration `envconfig:"VIVIMART_AUTH_RATE_LIMIT_OTP_WINDOW" default:"1m"`
	OTPPhoneLimit int           `envconfig:"VIVIMART_AUTH_RATE_LIMIT_OTP_PHONE_LIMIT" default:"3"`
	OTPIPLimit    int           `envconfig:"VIVIMART_AUTH_RATE_LIMIT_OTP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VIVIMART_AUTO_MIGRATE" default:"false"`
}

type GoogleMapsConfig struct {
	APIKey string `envconfig:"VIVIMART_GOOGLE_MAPS_API_KEY"`
}

type RazorpayConfig struct {
	KeyID     string `envconfig:"VIVIMART_RAZORPAY_KEY_ID"`
	KeySecret string `envconfig:"VIVIMART_RAZORPAY_KEY_SECRET"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"VIVIMART_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"VIVIMART_PUBSUB_ORDERS_TOPIC" default:"vm-order-events"`
	OrdersSubscription string `envconfig:"VIVIMART_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"VIVIMART_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"VIVIMART_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"VIVIMART_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type OrdersConfig struct {
	PaymentTTL time.Duration `envconfig:"VIVIMART_ORDERS_PAYMENT_TTL" default:"24h"`
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
