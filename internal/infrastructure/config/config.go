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

	Auth     AuthConfig
	Activity ActivityConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET, required"`
	TokenTTL         time.Duration `env:"TOKEN_TTL,  default=24h"`
	SeedDefaultUsers bool          `env:"SEED_DEFAULT_USERS, default=true"`
}

type ActivityConfig struct {
	Workers    int `env:"ACTIVITY_WORKERS,      default=4"`
	BufferSize int `env:"ACTIVITY_QUEUE_BUFFER, default=256"`
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,            default=task_tracker"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=100"`
}

type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR,      default=localhost:6379"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB,        default=0"`
	PoolSize       int           `env:"REDIS_POOL_SIZE, default=10"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through l, which lets tests supply a fixed environment.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.Auth.TokenTTL <= 0 {
		return nil, fmt.Errorf("config: TOKEN_TTL must be positive, got %s", cfg.Auth.TokenTTL)
	}
	return &cfg, nil
}
