package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	LedgerCSV      = "csv"
	LedgerPostgres = "postgres"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

type Config struct {
	Port            string        `env:"PORT" envDefault:":5000"`
	LedgerDriver    string        `env:"LEDGER_DRIVER" envDefault:"csv"`
	LedgerPath      string        `env:"LEDGER_PATH" envDefault:"data/pedidos_restaurante.csv"`
	CutoffPath      string        `env:"CUTOFF_PATH"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	SessionDriver   string        `env:"SESSION_DRIVER" envDefault:"memory"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	RedisAddr       string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	MenuFile        string        `env:"MENU_FILE"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"text"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.CutoffPath == "" {
		cfg.CutoffPath = filepath.Join(filepath.Dir(cfg.LedgerPath), "historial_reset.txt")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LedgerDriver {
	case LedgerCSV:
	case LedgerPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when LEDGER_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown LEDGER_DRIVER %q", c.LedgerDriver)
	}

	switch c.SessionDriver {
	case SessionMemory, SessionRedis:
	default:
		return fmt.Errorf("unknown SESSION_DRIVER %q", c.SessionDriver)
	}
	return nil
}
