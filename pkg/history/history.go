// Package history records completed render runs.
//
// A [Record] is written after every successful batch so that the CLI can list
// what was produced and where. [MemoryStore] keeps records for the process
// lifetime; [FileStore] keeps JSON files for the CLI; [MongoStore] persists
// them in MongoDB.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultLimit is the number of records List returns when limit <= 0.
const DefaultLimit = 20

// Record describes one batch of rendered graphics.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	EventType string    `json:"event_type,omitempty" bson:"event_type,omitempty"`
	Formats   []string  `json:"formats" bson:"formats"`
	Files     []string  `json:"files" bson:"files"`
	Scale     int       `json:"scale" bson:"scale"`
	CacheHits int       `json:"cache_hits" bson:"cache_hits"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewRecord returns a record with a fresh ID and the current time.
func NewRecord(title string, formats, files []string) Record {
	return Record{
		ID:        uuid.NewString(),
		Title:     title,
		Formats:   formats,
		Files:     files,
		CreatedAt: time.Now().UTC(),
	}
}

// Store persists records.
type Store interface {
	// Add stores r. A record without ID or CreatedAt gets them assigned.
	Add(ctx context.Context, r Record) error

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)

	// Close releases resources.
	Close(ctx context.Context) error
}

// normalize fills the fields Add may assign.
func normalize(r Record) Record {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return r
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
