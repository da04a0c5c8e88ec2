package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string   `env:"PORT,         default=8080"`
	Env         string   `env:"ENV,          default=development"`
	LogLevel    string   `env:"LOG_LEVEL,    default=info"`
	AppName     string   `env:"APP_NAME,     default=MedHR+"`
	FrontendURL string   `env:"FRONTEND_URL, default=http://localhost:3000"`
	CORSOrigins []string `env:"CORS_ORIGINS"`

	JWT      JWTConfig
	Accounts AccountsConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Storage  StorageConfig
	Midtrans MidtransConfig
	Mail     MailConfig
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET, required"`
	TTL    time.Duration `env:"JWT_EXPIRE, default=120h"`
}

// AccountsConfig covers registration, password reset and the admin seeded on
// first start.
type AccountsConfig struct {
	OTPTTL        time.Duration `env:"OTP_EXPIRE,            default=5m"`
	ResetTTL      time.Duration `env:"RESET_PASSWORD_EXPIRE, default=15m"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL,        default=1m"`
	ContactEmail  string        `env:"ADMIN_CONTACT_EMAIL"`

	AdminName     string `env:"ADMIN_NAME, default=Administrator"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=medhrplus"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,  default=5s"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=localhost"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM, default=no-reply@medhrplus.local"`
	FromName string `env:"SMTP_FROM_NAME, default=MedHR+"`
}

// StorageConfig points at an S3 compatible bucket. Endpoint is empty for AWS
// itself and set for Wasabi or MinIO.
type StorageConfig struct {
	Endpoint  string `env:"S3_ENDPOINT"`
	Region    string `env:"S3_REGION, default=us-east-1"`
	Bucket    string `env:"S3_BUCKET, default=medhrplus"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	PublicURL string `env:"S3_PUBLIC_URL"`

	MaxUploadBytes   int64         `env:"UPLOAD_MAX_BYTES,   default=5242880"`
	UploadsPerWindow int           `env:"UPLOAD_RATE_LIMIT,  default=20"`
	UploadWindow     time.Duration `env:"UPLOAD_RATE_WINDOW, default=10m"`
}

type MidtransConfig struct {
	ServerKey  string `env:"MIDTRANS_SERVER_KEY"`
	ClientKey  string `env:"MIDTRANS_CLIENT_KEY"`
	Production bool   `env:"MIDTRANS_PRODUCTION, default=false"`
}

type MailConfig struct {
	Workers   int `env:"MAIL_WORKERS,    default=4"`
	QueueSize int `env:"MAIL_QUEUE_SIZE, default=256"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	if cfg.Accounts.AdminEmail != "" && cfg.Accounts.AdminPassword == "" {
		return nil, fmt.Errorf("load config: ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}
	return &cfg, nil
}
