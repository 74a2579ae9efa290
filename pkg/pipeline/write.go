package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type outputFile struct {
	path string
	data []byte

	staged string // temp file holding data
	backup string // previous content moved aside, if any
	placed bool
}

// writeAll stages every file next to its destination, then moves them into
// place. On failure the staged files are removed and replaced files are
// restored from their backups.
func writeAll(files []outputFile) (err error) {
	defer func() {
		if err != nil {
			rollback(files)
			return
		}
		for _, f := range files {
			if f.backup != "" {
				_ = os.Remove(f.backup)
			}
		}
	}()

	for i := range files {
		if files[i].staged, err = stage(files[i].path, files[i].data); err != nil {
			return err
		}
	}
	for i := range files {
		f := &files[i]
		if f.backup, err = moveAside(f.path); err != nil {
			return err
		}
		if err := os.Rename(f.staged, f.path); err != nil {
			return fmt.Errorf("rename %s: %w", f.path, err)
		}
		f.staged = ""
		f.placed = true
	}
	return nil
}

func stage(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".eventcards-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return tmp.Name(), nil
}

// moveAside renames an existing regular file at path to a backup name and
// returns it. A missing file needs no backup.
func moveAside(path string) (string, error) {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("output %s exists and is not a regular file", path)
	}
	backup := filepath.Join(filepath.Dir(path), ".eventcards-backup-"+filepath.Base(path))
	if err := os.Rename(path, backup); err != nil {
		return "", fmt.Errorf("back up %s: %w", path, err)
	}
	return backup, nil
}

func rollback(files []outputFile) {
	for i := len(files) - 1; i >= 0; i-- {
		f := files[i]
		if f.staged != "" {
			_ = os.Remove(f.staged)
		}
		if f.placed {
			_ = os.Remove(f.path)
		}
		if f.backup != "" {
			_ = os.Rename(f.backup, f.path)
		}
	}
}
