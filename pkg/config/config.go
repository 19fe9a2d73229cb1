package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix scopes every environment variable consumed by the backend.
const EnvPrefix = "FRUITIFY"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "FRUITIFY_APP_ENV"
	EnvDBDSN  = "FRUITIFY_DB_DSN"
	EnvDBHost = "FRUITIFY_DB_HOST"
	EnvDBUser = "FRUITIFY_DB_USER"
	EnvDBName = "FRUITIFY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Razorpay      RazorpayConfig
	Telegram      TelegramConfig
	Email         EmailConfig
	Cron          CronConfig
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
	Env          string `envconfig:"FRUITIFY_APP_ENV" required:"true"`
	Port         string `envconfig:"FRUITIFY_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FRUITIFY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FRUITIFY_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"FRUITIFY_AUTO_MIGRATE" default:"false"`

	CORSOrigins []string `envconfig:"FRUITIFY_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FRUITIFY_DB_DSN"`
	Driver string `envconfig:"FRUITIFY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FRUITIFY_DB_HOST"`
	LegacyPort     int    `envconfig:"FRUITIFY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FRUITIFY_DB_USER"`
	LegacyPassword string `envconfig:"FRUITIFY_DB_PASSWORD"`
	LegacyName     string `envconfig:"FRUITIFY_DB_NAME"`
	LegacySSLMode  string `envconfig:"FRUITIFY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FRUITIFY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FRUITIFY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FRUITIFY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FRUITIFY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FRUITIFY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FRUITIFY_REDIS_ADDR"`
	Password     string        `envconfig:"FRUITIFY_REDIS_PASSWORD"`
	DB           int           `envconfig:"FRUITIFY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FRUITIFY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FRUITIFY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FRUITIFY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FRUITIFY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FRUITIFY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FRUITIFY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FRUITIFY_JWT_ISSUER" default:"fruitify"`
	ExpirationMinutes int    `envconfig:"FRUITIFY_JWT_EXPIRATION_MINUTES" default:"10080"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FRUITIFY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FRUITIFY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FRUITIFY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FRUITIFY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FRUITIFY_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FRUITIFY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FRUITIFY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FRUITIFY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FRUITIFY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FRUITIFY_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FRUITIFY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type RazorpayConfig struct {
	KeyID     string `envconfig:"FRUITIFY_RAZORPAY_KEY_ID"`
	KeySecret string `envconfig:"FRUITIFY_RAZORPAY_KEY_SECRET"`
	Currency  string `envconfig:"FRUITIFY_RAZORPAY_CURRENCY" default:"INR"`
}

// Configured reports whether the gateway credentials are present. When false,
// payment-order creation degrades to cash on delivery.
func (r RazorpayConfig) Configured() bool {
	return r.KeyID != "" && r.KeySecret != ""
}

type TelegramConfig struct {
	Enabled     bool          `envconfig:"FRUITIFY_TELEGRAM_ENABLED" default:"true"`
	BotToken    string        `envconfig:"FRUITIFY_TELEGRAM_BOT_TOKEN"`
	ChatID      string        `envconfig:"FRUITIFY_TELEGRAM_CHAT_ID"`
	APIBaseURL  string        `envconfig:"FRUITIFY_TELEGRAM_API_BASE_URL" default:"https://api.telegram.org"`
	MaxAttempts int           `envconfig:"FRUITIFY_TELEGRAM_MAX_ATTEMPTS" default:"3"`
	BaseDelay   time.Duration `envconfig:"FRUITIFY_TELEGRAM_BASE_DELAY" default:"500ms"`
	HTTPTimeout time.Duration `envconfig:"FRUITIFY_TELEGRAM_HTTP_TIMEOUT" default:"10s"`
}

// Configured reports whether the notifier can actually reach the provider.
func (t TelegramConfig) Configured() bool {
	return t.Enabled && t.BotToken != "" && t.ChatID != ""
}

type EmailConfig struct {
	Enabled  bool   `envconfig:"FRUITIFY_EMAIL_ENABLED" default:"true"`
	SMTPHost string `envconfig:"FRUITIFY_SMTP_HOST"`
	SMTPPort int    `envconfig:"FRUITIFY_SMTP_PORT" default:"587"`
	SMTPUser string `envconfig:"FRUITIFY_SMTP_USER"`
	SMTPPass string `envconfig:"FRUITIFY_SMTP_PASS"`
	From     string `envconfig:"FRUITIFY_EMAIL_FROM"`
}

// Configured reports whether the mailer has a usable SMTP target.
func (e EmailConfig) Configured() bool {
	return e.Enabled && e.SMTPHost != "" && e.From != ""
}

type CronConfig struct {
	Interval             time.Duration `envconfig:"FRUITIFY_CRON_INTERVAL" default:"24h"`
	TelegramLogRetention int           `envconfig:"FRUITIFY_CRON_TELEGRAM_LOG_RETENTION_DAYS" default:"30"`
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
