package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides. A double underscore separates nesting levels:
// EXPERTSYSTEM_REDIS__ADDR sets redis.addr.
const EnvPrefix = "EXPERTSYSTEM_"

// Finish policies.
const (
	FinishOnObserve    = "observe"
	FinishOnTransition = "transition"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config is the runtime configuration of the CLI and the HTTP server.
type Config struct {
	// System is the path of the expert system configuration.
	System       string `koanf:"system"`
	LogLevel     string `koanf:"log_level"`
	LogFormat    string `koanf:"log_format"`
	Strict       bool   `koanf:"strict"`
	FinishPolicy string `koanf:"finish_policy"`
	// Hint tells console users which values the questions expect.
	Hint string `koanf:"hint"`
	// Markdown renders node text with glamour on interactive terminals.
	Markdown bool `koanf:"markdown"`

	Server ServerConfig `koanf:"server"`
	Store  StoreConfig  `koanf:"store"`
	Redis  RedisConfig  `koanf:"redis"`
}

type ServerConfig struct {
	Addr    string `koanf:"addr"`
	Metrics bool   `koanf:"metrics"`
}

type StoreConfig struct {
	Kind string `koanf:"kind"`
	// Path is the session directory of the file and sqlite stores.
	Path string        `koanf:"path"`
	TTL  time.Duration `koanf:"ttl"`
	// LockTTL bounds how long a crashed replica holds a session lock.
	LockTTL time.Duration `koanf:"lock_ttl"`
	// EncryptionKey is a base64 AES-256 key. When set, snapshots are sealed at rest.
	EncryptionKey string   `koanf:"encryption_key"`
	FallbackKeys  []string `koanf:"fallback_keys"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Prefix   string `koanf:"prefix"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		FinishPolicy: FinishOnObserve,
		Hint:         "Answer options: 0 - no, 1 - yes.",
		Markdown:     true,
		Server: ServerConfig{
			Addr:    ":8080",
			Metrics: true,
		},
		Store: StoreConfig{
			Kind:    StoreMemory,
			Path:    ".expertsystem/sessions",
			LockTTL: 30 * time.Second,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "expertsystem:session:",
		},
	}
}

// Load overlays the YAML file at path (skipped when path is empty) and then
// EXPERTSYSTEM_* environment variables on top of Default.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	var errs []error
	switch c.FinishPolicy {
	case FinishOnObserve, FinishOnTransition:
	default:
		errs = append(errs, fmt.Errorf("invalid finish_policy %q: must be observe or transition", c.FinishPolicy))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log_format %q: must be text or json", c.LogFormat))
	}
	switch c.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis, StoreSQLite:
	default:
		errs = append(errs, fmt.Errorf("invalid store.kind %q: must be memory, file, redis or sqlite", c.Store.Kind))
	}
	if c.Store.TTL < 0 {
		errs = append(errs, errors.New("store.ttl must be non-negative"))
	}
	if c.Store.LockTTL < 0 {
		errs = append(errs, errors.New("store.lock_ttl must be non-negative"))
	}
	if c.Store.EncryptionKey == "" && len(c.Store.FallbackKeys) > 0 {
		errs = append(errs, errors.New("store.fallback_keys requires store.encryption_key"))
	}
	return errors.Join(errs...)
}
