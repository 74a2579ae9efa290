package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/eventcards/pkg/cache"
	"github.com/matzehuels/eventcards/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "/home/tester")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join("/home/tester", ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := "/tmp/custom-cache"
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	c := &CLI{cfg: config.Default()}
	c.cfg.Cache.Dir = "/srv/eventcards-cache"

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/srv/eventcards-cache" {
		t.Errorf("cacheDir() = %q", dir)
	}
}

func TestNewCacheWarnsWithoutCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "")

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.cfg = config.Default()

	if _, ok := c.newCache(context.Background(), false).(cache.NullCache); !ok {
		t.Error("newCache() should degrade to NullCache when no cache dir resolves")
	}
	if !strings.Contains(buf.String(), "cache disabled") {
		t.Errorf("missing warning, log = %q", buf.String())
	}
}
