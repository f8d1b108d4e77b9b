// Package config loads the optional subset.yaml project file and applies
// environment overrides. Command-line flags take precedence over both and are
// applied by the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the project directory when no --config is given.
const DefaultFile = "subset.yaml"

// Environment overrides.
const (
	EnvRedisAddr  = "SUBSET_REDIS_ADDR"
	EnvStore      = "SUBSET_STORE"
	EnvStateLimit = "SUBSET_STATE_LIMIT"
)

// Loaders and stores understood by the CLI.
const (
	LoaderLoam  = "loam"
	LoaderFile  = "file"
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config is the project configuration.
type Config struct {
	// Loader selects how definitions in the project directory are read.
	Loader string `yaml:"loader"`
	// Strict turns undeclared references into errors.
	Strict bool `yaml:"strict"`
	// StateLimit caps the number of composite states; 0 is unlimited.
	StateLimit int    `yaml:"state_limit"`
	LogLevel   string `yaml:"log_level"`

	Store StoreConfig `yaml:"store"`
	HTTP  HTTPConfig  `yaml:"http"`
}

// StoreConfig selects and configures the result store.
type StoreConfig struct {
	Type      string `yaml:"type"`
	Path      string `yaml:"path"`
	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`
	TTL       string `yaml:"ttl"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Loader:   LoaderLoam,
		LogLevel: "info",
		Store: StoreConfig{
			Type:      StoreFile,
			RedisAddr: "localhost:6379",
		},
		HTTP: HTTPConfig{Port: 8080},
	}
}

// Load reads the configuration. An empty path means DefaultFile inside dir,
// which may be missing; an explicit path must exist.
func Load(dir, path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, DefaultFile)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Store.RedisAddr = v
	}
	if v := os.Getenv(EnvStore); v != "" {
		c.Store.Type = v
	}
	if v := os.Getenv(EnvStateLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStateLimit, err)
		}
		c.StateLimit = n
	}
	return nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.Loader {
	case LoaderLoam, LoaderFile:
	default:
		return fmt.Errorf("unknown loader %q (want %s or %s)", c.Loader, LoaderLoam, LoaderFile)
	}
	switch c.Store.Type {
	case StoreFile, StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q (want %s, %s or %s)", c.Store.Type, StoreFile, StoreMemory, StoreRedis)
	}
	if c.StateLimit < 0 {
		return fmt.Errorf("state_limit cannot be negative")
	}
	return nil
}
