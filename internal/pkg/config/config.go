package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	// MaxConcurrentJobs caps background jobs running at once.
	MaxConcurrentJobs int `env:"MAX_CONCURRENT_JOBS, default=64"`

	Auth      AuthConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Generator GeneratorConfig
	AWS       AWSConfig
	Storage   StorageConfig
}

type AuthConfig struct {
	JWTSecret            string        `env:"JWT_SECRET, required"`
	AccessTokenTTL       time.Duration `env:"ACCESS_TOKEN_TTL,             default=30m"`
	ConfirmationTokenTTL time.Duration `env:"CONFIRMATION_TOKEN_TTL,       default=24h"`
	ResendInterval       time.Duration `env:"CONFIRMATION_RESEND_INTERVAL, default=10m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=social_api"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type GeneratorConfig struct {
	URL     string        `env:"GENERATOR_URL,     default=https://api.deepai.org/api/cute-creature-generator"`
	APIKey  string        `env:"GENERATOR_API_KEY"`
	Timeout time.Duration `env:"GENERATOR_TIMEOUT, default=60s"`
}

// AWSConfig is shared by the SES notifier and the S3 object store. Empty
// credentials fall back to the SDK's default chain.
type AWSConfig struct {
	Region          string `env:"AWS_REGION"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	EmailSender     string `env:"EMAIL_SENDER"`
}

type StorageConfig struct {
	Endpoint  string `env:"STORAGE_ENDPOINT"`
	Bucket    string `env:"STORAGE_BUCKET"`
	PublicURL string `env:"STORAGE_PUBLIC_URL"`
}

// EmailEnabled reports whether SES delivery is configured. Without it
// emails are only logged.
func (c *Config) EmailEnabled() bool {
	return c.AWS.Region != "" && c.AWS.EmailSender != ""
}

// StorageEnabled reports whether the upload endpoint has a bucket to write to.
func (c *Config) StorageEnabled() bool {
	return c.Storage.Bucket != ""
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration through lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
