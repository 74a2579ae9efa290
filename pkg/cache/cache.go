// Package cache stores rendered artifacts keyed by everything that affects
// their bytes.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for the
// HTTP server when several instances share work, and [NullCache] when
// caching is disabled. Keys come from a [Keyer] so that callers never build
// key strings by hand.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// TTLArtifact is how long rendered PNGs stay cached.
const TTLArtifact = 7 * 24 * time.Hour

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey identifies a rendered PNG.
	ArtifactKey(opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists every input that changes a rendered PNG. Asset
// fields hold content hashes, not paths, so that editing a file in place
// invalidates its entries.
type ArtifactKeyOpts struct {
	Format           string `json:"format"`
	Scale            int    `json:"scale"`
	Title            string `json:"title"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	Location         string `json:"location"`
	IllustrationHash string `json:"illustration,omitempty"`
	LogoHash         string `json:"logo,omitempty"`
	FontsDir         string `json:"fonts,omitempty"`
}

// DefaultKeyer hashes the key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256 of opts>".
func (DefaultKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return hashKey("artifact", opts)
}
