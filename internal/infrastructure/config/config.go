package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	EnvDevelopment = "development"

	// DevSessionSecret is the default signing secret; Validate refuses it outside development.
	DevSessionSecret = "dev-session-secret-change-me"
)

var storeDrivers = map[string]bool{"memory": true, "sqlite": true, "mysql": true, "postgres": true, "mongo": true}
var sessionDrivers = map[string]bool{"memory": true, "redis": true}

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	LogPretty       bool          `env:"LOG_PRETTY,       default=false"`
	BcryptCost      int           `env:"BCRYPT_COST,      default=10"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Store   StoreConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER, default=sqlite"`
	DSN    string `env:"DATABASE_DSN, default=data/todo.db"`
}

type SessionConfig struct {
	Driver     string        `env:"SESSION_DRIVER, default=memory"`
	Secret     string        `env:"SESSION_SECRET, default=dev-session-secret-change-me"`
	CookieName string        `env:"SESSION_COOKIE, default=todo_session"`
	TTL        time.Duration `env:"SESSION_TTL,    default=30m"`
	Secure     bool          `env:"SESSION_SECURE, default=false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=todo"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads a .env file when present, then the environment, using go-envconfig.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(fmt.Sprintf("config: failed to read .env: %v", err))
	}

	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith resolves the configuration from an arbitrary lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express as tags.
func (c *Config) Validate() error {
	if !storeDrivers[c.Store.Driver] {
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	if !sessionDrivers[c.Session.Driver] {
		return fmt.Errorf("unsupported SESSION_DRIVER %q", c.Session.Driver)
	}
	if c.Session.Secret == "" {
		return errors.New("SESSION_SECRET must not be empty")
	}
	if c.Env != EnvDevelopment && c.Session.Secret == DevSessionSecret {
		return errors.New("SESSION_SECRET must be set outside development")
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}
