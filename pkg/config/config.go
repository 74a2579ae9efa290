// Package config loads the eventcards configuration file.
//
// The file is TOML. A missing file yields [Default]; environment variables
// override file values, and command-line flags override both (the CLI
// applies those).
//
//	fonts_dir = "assets/fonts"
//	logo_path = "assets/logo.png"
//	illustrations_dir = "illustrations"
//	output_dir = "output"
//	scale = 2
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "168h"
//
//	[history]
//	dir = "~/.local/state/eventcards/history"
//	mongo_uri = "mongodb://localhost:27017"
//	database = "eventcards"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "eventcards"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Environment variables that override file values.
const (
	EnvFontsDir  = "EVENTCARDS_FONTS_DIR"
	EnvLogo      = "EVENTCARDS_LOGO"
	EnvRedisAddr = "EVENTCARDS_REDIS_ADDR"
	EnvMongoURI  = "EVENTCARDS_MONGO_URI"
)

// Config is the complete configuration.
type Config struct {
	FontsDir         string  `toml:"fonts_dir"`
	LogoPath         string  `toml:"logo_path"`
	IllustrationsDir string  `toml:"illustrations_dir"`
	OutputDir        string  `toml:"output_dir"`
	Scale            int     `toml:"scale"`
	Cache            Cache   `toml:"cache"`
	History          History `toml:"history"`
	Server           Server  `toml:"server"`
}

// Cache configures the artifact cache.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// History configures render history. An empty MongoURI keeps history as
// JSON files in Dir.
type History struct {
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration decoded from strings like "36h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		FontsDir:         filepath.Join("assets", "fonts"),
		LogoPath:         filepath.Join("assets", "logo.png"),
		IllustrationsDir: "illustrations",
		OutputDir:        "output",
		Scale:            2,
		Cache: Cache{
			Backend: CacheFile,
			TTL:     Duration{7 * 24 * time.Hour},
		},
		Server: Server{Addr: ":8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/eventcards/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns $XDG_CACHE_HOME/eventcards, falling back to ~/.cache.
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// HistoryDir returns $XDG_STATE_HOME/eventcards/history, falling back to
// ~/.local/state.
func HistoryDir() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName, "history"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appName, "history"), nil
}

// Load reads the file at path on top of Default and applies environment
// overrides. An empty path uses DefaultPath. A missing file is not an
// error unless the path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			cfg.applyEnv(os.Getenv)
			return cfg, cfg.Validate()
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.FontsDir, EnvFontsDir)
	set(&c.LogoPath, EnvLogo)
	set(&c.History.MongoURI, EnvMongoURI)
	if v := getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
		if c.Cache.Backend == CacheFile {
			c.Cache.Backend = CacheRedis
		}
	}
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	switch strings.ToLower(c.Cache.Backend) {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache backend %q needs redis_addr", c.Cache.Backend)
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Scale < 0 {
		return fmt.Errorf("scale must not be negative, got %d", c.Scale)
	}
	if c.Cache.TTL.Duration < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	return nil
}
