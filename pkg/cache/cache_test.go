package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Hour))

	data, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, hit, "NullCache should not store data")
	assert.Nil(t, data)

	assert.NoError(t, c.Delete(ctx, "key"))
	assert.NoError(t, c.(Clearer).Clear(ctx))
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	require.NoError(t, err)

	_, hit, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, hit)

	payload := []byte("\x89PNG\r\n\x1a\nbody")
	require.NoError(t, c.Set(ctx, "k", payload, time.Hour))

	got, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, payload, got)

	// Overwrite
	require.NoError(t, c.Set(ctx, "k", []byte("v2"), 0))
	got, _, _ = c.Get(ctx, "k")
	assert.Equal(t, []byte("v2"), got)

	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "k"), "deleting a missing key")
	_, hit, _ = c.Get(ctx, "k")
	assert.False(t, hit)
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	now := time.Date(2026, 1, 9, 19, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "short", []byte("a"), time.Minute))
	require.NoError(t, c.Set(ctx, "forever", []byte("b"), 0))

	now = now.Add(2 * time.Minute)

	_, hit, err := c.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, hit, "expired entry should miss")
	_, err = os.Stat(c.path("short"))
	assert.True(t, os.IsNotExist(err), "expired entry should be removed")

	_, hit, _ = c.Get(ctx, "forever")
	assert.True(t, hit, "zero ttl never expires")
}

func TestFileCacheTruncatedEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	path := c.path("k")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte{1, 2}, 0o644))

	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, c.Dir())

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), time.Hour))
	}
	require.NoError(t, c.Clear(ctx))

	for _, k := range []string{"a", "b", "c"} {
		_, hit, _ := c.Get(ctx, k)
		assert.False(t, hit, "key %q survived Clear", k)
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHash(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Hash(nil))
	assert.NotEqual(t, Hash([]byte("a")), Hash([]byte("b")))
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(path, []byte("logo"), 0o644))

	got, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, Hash([]byte("logo")), got)

	for _, p := range []string{"", filepath.Join(dir, "missing.png")} {
		got, err := HashFile(p)
		require.NoError(t, err)
		assert.Empty(t, got, "HashFile(%q)", p)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := ArtifactKeyOpts{Format: "slide_4_3", Scale: 2, Title: "La Mesa\nAbierta", Date: "Viernes"}

	key := k.ArtifactKey(base)
	assert.True(t, strings.HasPrefix(key, "artifact:"))
	assert.Equal(t, key, k.ArtifactKey(base), "keys must be deterministic")

	variants := map[string]ArtifactKeyOpts{
		"format":       {Format: "square_post", Scale: 2, Title: base.Title, Date: base.Date},
		"scale":        {Format: base.Format, Scale: 1, Title: base.Title, Date: base.Date},
		"title":        {Format: base.Format, Scale: 2, Title: "La Mesa Abierta", Date: base.Date},
		"illustration": {Format: base.Format, Scale: 2, Title: base.Title, Date: base.Date, IllustrationHash: "ab"},
		"logo":         {Format: base.Format, Scale: 2, Title: base.Title, Date: base.Date, LogoHash: "cd"},
	}
	for name, opts := range variants {
		assert.NotEqual(t, key, k.ArtifactKey(opts), "changing %s must change the key", name)
	}
}

func TestScopedKeyer(t *testing.T) {
	opts := ArtifactKeyOpts{Format: "wide_post", Scale: 1, Title: "t"}
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "v1.2.0:")

	assert.Equal(t, "v1.2.0:"+inner.ArtifactKey(opts), scoped.ArtifactKey(opts))
	assert.Equal(t, inner.ArtifactKey(opts), NewScopedKeyer(nil, "").ArtifactKey(opts))
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = old })

	boom := errors.New("boom")
	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"succeeds first try", 0, true, 1, false},
		{"recovers after retries", 2, true, 3, false},
		{"gives up after three", 5, true, 3, true},
		{"permanent error stops", 5, false, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					if tt.retryable {
						return Retryable(boom)
					}
					return boom
				}
				return nil
			})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				assert.ErrorIs(t, err, boom)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRetryWithBackoffCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return Retryable(errors.New("down")) })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryable(t *testing.T) {
	assert.Nil(t, Retryable(nil))
	err := Retryable(errors.New("x"))
	assert.True(t, IsRetryable(err))
	assert.False(t, IsRetryable(errors.New("x")))
	assert.Equal(t, "x", err.Error())
}

func TestNewRedisCacheRequiresAddr(t *testing.T) {
	_, err := NewRedisCache(context.Background(), RedisConfig{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

// TestRedisCache runs against a live server when EVENTCARDS_TEST_REDIS is set.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("EVENTCARDS_TEST_REDIS")
	if addr == "" {
		t.Skip("EVENTCARDS_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr, Prefix: "eventcards-test:"})
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.Clear(ctx))

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Clear(ctx))
	_, hit, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
}
