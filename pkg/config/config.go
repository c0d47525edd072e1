// Package config loads the stepwise configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/stepwise/config.toml
// (~/.config/stepwise/config.toml) unless a path is given explicitly. A
// missing file is not an error; every setting has a default.
//
//	[log]
//	level = "info"
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
//
//	[session]
//	backend = "redis"   # memory, file, redis or mongo
//	ttl = "24h"
//
//	[redis]
//	addr = "localhost:6379"
//
//	[cache]
//	backend = "file"    # file, redis or none
//	ttl = "168h"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	serr "github.com/matzehuels/stepwise/pkg/errors"
)

const appName = "stepwise"

// Backend names.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Duration is a time.Duration that decodes from strings such as "90s".
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
	return []byte(d.String()), nil
}

// Config is the full configuration.
type Config struct {
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
	Session SessionConfig `toml:"session"`
	Redis   RedisConfig   `toml:"redis"`
	Mongo   MongoConfig   `toml:"mongo"`
	Cache   CacheConfig   `toml:"cache"`
	Render  RenderConfig  `toml:"render"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

type SessionConfig struct {
	Backend string   `toml:"backend"`
	TTL     Duration `toml:"ttl"`
	// Dir is used by the file backend; empty means <cache dir>/sessions.
	Dir string `toml:"dir"`
	// MaxDepth bounds how many steps a session may record.
	MaxDepth int `toml:"max_depth"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	// Prefix namespaces every key written by stepwise.
	Prefix string `toml:"prefix"`
}

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type CacheConfig struct {
	Backend string   `toml:"backend"`
	TTL     Duration `toml:"ttl"`
	// Dir is used by the file backend; empty means the XDG cache dir.
	Dir string `toml:"dir"`
}

type RenderConfig struct {
	Format string  `toml:"format"`
	View   string  `toml:"view"`
	Scale  float64 `toml:"scale"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration{10 * time.Second},
			WriteTimeout:    Duration{30 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Session: SessionConfig{
			Backend:  BackendMemory,
			TTL:      Duration{24 * time.Hour},
			MaxDepth: 10_000,
		},
		Redis: RedisConfig{Addr: "localhost:6379", Prefix: "stepwise:"},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   appName,
			Collection: "sessions",
		},
		Cache:  CacheConfig{Backend: BackendFile, TTL: Duration{7 * 24 * time.Hour}},
		Render: RenderConfig{Format: "svg", View: "array", Scale: 2},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/stepwise/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the config file at path on top of Default. An empty path means
// the default location; a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return cfg, serr.Wrap(serr.ErrCodeInvalidConfig, err, "load %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, serr.New(serr.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks backend names and numeric ranges.
func (c Config) Validate() error {
	switch c.Session.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendMongo:
	default:
		return serr.New(serr.ErrCodeInvalidConfig, "session.backend: unknown backend %q", c.Session.Backend)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return serr.New(serr.ErrCodeInvalidConfig, "cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Session.TTL.Duration <= 0 {
		return serr.New(serr.ErrCodeInvalidConfig, "session.ttl must be positive")
	}
	if c.Session.MaxDepth <= 0 {
		return serr.New(serr.ErrCodeInvalidConfig, "session.max_depth must be positive")
	}
	return nil
}

// String renders the config as TOML.
func (c Config) String() string {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(data)
}
