package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config is the immutable process configuration. It is loaded once at
// startup and injected; nothing reads the environment past this point.
type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	BaseURL  string `env:"BASE_URL, default=http://localhost:8080"`

	// The two signing secrets must differ; the token codec enforces it.
	AccessTokenSecret  string `env:"ACCESS_TOKEN_SECRET_KEY"`
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET_KEY"`
	BcryptCost         int    `env:"BCRYPT_COST, default=10"`

	Postgres PostgresConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
}

type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN, default=postgres://localhost:5432/partner_system"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=smtp.gmail.com"`
	Port     int    `env:"SMTP_PORT, default=587"`
	From     string `env:"SMTP_FROM"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
}

// Production reports whether the deployment-mode flag is set to production.
// It drives the secure/SameSite cookie attributes.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
