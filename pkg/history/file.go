package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// DefaultMaxFileRecords bounds how many records a FileStore keeps.
const DefaultMaxFileRecords = 500

// FileStore keeps one JSON file per record in a directory. It gives the CLI
// a history without a database.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string

	// MaxRecords is the number of records kept; older ones are pruned on Add.
	MaxRecords int
}

// NewFileStore creates the directory if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("file history: empty directory")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &FileStore{baseDir: baseDir, MaxRecords: DefaultMaxFileRecords}, nil
}

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// Add writes r and prunes the oldest records beyond MaxRecords.
func (s *FileStore) Add(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r = normalize(r)
	if strings.ContainsAny(r.ID, `/\`) || strings.HasPrefix(r.ID, ".") {
		return fmt.Errorf("file history: invalid record id %q", r.ID)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.recordPath(r.ID), data, 0o644); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if s.MaxRecords <= 0 {
		return nil
	}
	records, err := s.readAll()
	if err != nil {
		return err
	}
	for _, old := range records[min(len(records), s.MaxRecords):] {
		_ = os.Remove(s.recordPath(old.ID))
	}
	return nil
}

// List returns up to limit records, newest first. Unreadable files are
// skipped.
func (s *FileStore) List(ctx context.Context, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := s.readAll()
	if err != nil {
		return nil, err
	}
	if limit = clampLimit(limit); len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// readAll loads every record, newest first. Callers hold the lock.
func (s *FileStore) readAll() ([]Record, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read history dir: %w", err)
	}
	var out []Record
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var r Record
		if err := json.Unmarshal(data, &r); err != nil {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Close does nothing.
func (s *FileStore) Close(context.Context) error { return nil }

// Path returns the directory holding record files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
