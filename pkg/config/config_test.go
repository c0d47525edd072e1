package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/stepwise/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"

[server]
addr = ":9000"
read_timeout = "5s"

[session]
backend = "redis"
ttl = "2h"

[redis]
addr = "redis:6379"
db = 2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.WriteTimeout.Duration != 30*time.Second {
		t.Errorf("unset values should keep defaults, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Session.Backend != BackendRedis || cfg.Session.TTL.Duration != 2*time.Hour {
		t.Errorf("Session = %+v", cfg.Session)
	}
	if cfg.Redis.Addr != "redis:6379" || cfg.Redis.DB != 2 || cfg.Redis.Prefix != "stepwise:" {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.Backend != BackendMemory {
		t.Errorf("expected defaults, got %+v", cfg.Session)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("want INVALID_CONFIG, got %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "[server]\nport = 80\n", "server.port"},
		{"bad duration", "[session]\nttl = \"soon\"\n", "soon"},
		{"bad backend", "[session]\nbackend = \"sqlite\"\n", "sqlite"},
		{"bad cache backend", "[cache]\nbackend = \"memcached\"\n", "memcached"},
		{"zero depth", "[session]\nmax_depth = 0\n", "max_depth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Fatalf("want INVALID_CONFIG, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join("/tmp/xdg", "stepwise", "config.toml") {
		t.Errorf("Path = %s", p)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	dir, err := CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", "stepwise") {
		t.Errorf("CacheDir = %s", dir)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err = CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(dir, filepath.Join(".cache", "stepwise")) {
		t.Errorf("CacheDir = %s", dir)
	}
}

func TestString(t *testing.T) {
	out := Default().String()
	for _, want := range []string{"[server]", `addr = ":8080"`, `ttl = "24h0m0s"`} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q:\n%s", want, out)
		}
	}
}
