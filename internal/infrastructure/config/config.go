package config

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port         string `env:"PORT,            default=8080"`
	Env          string `env:"ENV,             default=development"`
	JWTSecret    string `env:"JWT_SECRET"`
	SessionTTLMS int    `env:"SESSION_TTL_MS,  default=3600000"`
	FrontendURL  string `env:"FRONTEND_URL,    default=http://localhost:5173"`
	LogLevel     string `env:"LOG_LEVEL,       default=info"`
	UploadDir    string `env:"UPLOAD_DIR,      default=uploads"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=kpop_store"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from the environment and rejects anything the
// process cannot safely start without. Token signing in particular must be
// available up front — the server never issues unsigned sessions, so a
// missing secret is a startup failure, not a per-request 500.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.SessionTTLMS <= 0 {
		return nil, errors.New("SESSION_TTL_MS must be positive")
	}
	return &cfg, nil
}

// SessionTTL returns the configured session lifetime as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMS) * time.Millisecond
}

// Production reports whether the process runs with production hardening
// (Secure cookies, JSON logs).
func (c *Config) Production() bool {
	return c.Env == "production"
}
