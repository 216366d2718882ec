// Package config loads the client configuration from a YAML (or JSON) file
// and BBSDEMO_* environment variables, in that order of precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BBSDEMO_"

// Storage backends for the settings blob.
const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config is the full client configuration.
type Config struct {
	Server      ServerConfig  `yaml:"server" json:"server" envPrefix:"SERVER_"`
	Storage     StorageConfig `yaml:"storage" json:"storage" envPrefix:"STORAGE_"`
	Redis       RedisConfig   `yaml:"redis" json:"redis" envPrefix:"REDIS_"`
	Log         LogConfig     `yaml:"log" json:"log" envPrefix:"LOG_"`
	MetricsAddr string        `yaml:"metrics_addr" json:"metrics_addr" env:"METRICS_ADDR"`
	Params      ParamsConfig  `yaml:"params" json:"params" envPrefix:"PARAMS_"`
	Wheel       WheelConfig   `yaml:"wheel" json:"wheel" envPrefix:"WHEEL_"`
}

// ServerConfig locates the generator service.
type ServerConfig struct {
	URL     string        `yaml:"url" json:"url" env:"URL"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" env:"TIMEOUT"`
}

// StorageConfig selects where settings are persisted.
type StorageConfig struct {
	Backend string `yaml:"backend" json:"backend" env:"BACKEND"`
	Path    string `yaml:"path" json:"path" env:"PATH"`
	// EncryptionKey, when set, seals the stored blob with AES-256-GCM.
	// Base64 of 32 bytes.
	EncryptionKey string `yaml:"encryption_key" json:"-" env:"ENCRYPTION_KEY"`
}

// RedisConfig is used when Storage.Backend is "redis".
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr" env:"ADDR"`
	Password string `yaml:"password" json:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" json:"db" env:"DB"`
	Prefix   string `yaml:"prefix" json:"prefix" env:"PREFIX"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level  string `yaml:"level" json:"level" env:"LEVEL"`
	Format string `yaml:"format" json:"format" env:"FORMAT"` // text or json
}

// ParamsConfig holds the (p, q, seed) prefilled in every workflow.
type ParamsConfig struct {
	P    string `yaml:"p" json:"p" env:"P"`
	Q    string `yaml:"q" json:"q" env:"Q"`
	Seed string `yaml:"seed" json:"seed" env:"SEED"`
}

// WheelConfig sizes the roulette table.
type WheelConfig struct {
	Slots   int `yaml:"slots" json:"slots" env:"SLOTS"`
	Balance int `yaml:"balance" json:"balance" env:"BALANCE"`
	Bet     int `yaml:"bet" json:"bet" env:"BET"`
}

// Default returns the built-in configuration.
func Default() Config {
	p := domain.DefaultParams()
	return Config{
		Server:  ServerConfig{URL: "http://localhost:8080", Timeout: 10 * time.Second},
		Storage: StorageConfig{Backend: StorageFile, Path: DefaultStoragePath()},
		Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "bbsdemo:"},
		Log:     LogConfig{Level: "warn", Format: "text"},
		Params:  ParamsConfig{P: p.P, Q: p.Q, Seed: p.Seed},
		Wheel: WheelConfig{
			Slots:   domain.DefaultSlots,
			Balance: domain.DefaultBalance,
			Bet:     domain.DefaultBet,
		},
	}
}

// DefaultPath is the config file used when none is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "bbsdemo.yaml"
	}
	return filepath.Join(dir, "bbsdemo", "config.yaml")
}

// DefaultStoragePath is where the file backend keeps the settings blob.
func DefaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".bbsdemo"
	}
	return filepath.Join(dir, "bbsdemo")
}

// Load reads path (DefaultPath if empty) over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	default:
		if strings.ToLower(filepath.Ext(path)) == ".json" {
			err = json.Unmarshal(data, &cfg)
		} else {
			err = yaml.Unmarshal(data, &cfg)
		}
		if err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first unusable value.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case StorageFile, StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("unknown storage backend %q (want file, memory or redis)", c.Storage.Backend)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive")
	}
	if c.Wheel.Slots <= 0 || c.Wheel.Balance <= 0 || c.Wheel.Bet <= 0 {
		return fmt.Errorf("wheel slots, balance and bet must be positive")
	}
	return nil
}

// DomainParams returns the configured parameters.
func (c Config) DomainParams() domain.Params {
	return domain.Params{P: c.Params.P, Q: c.Params.Q, Seed: c.Params.Seed}
}
