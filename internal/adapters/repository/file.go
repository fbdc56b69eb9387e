package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/natal/internal/domain/model"
)

const (
	backendFile = "file"
	fileExt     = ".json"
)

// FileStore writes one <id>.json file per snapshot into a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrBackend, dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) string { return filepath.Join(s.dir, id+fileExt) }

// Save implements Store.Save. The payload is written to a temporary file
// and hard-linked into place, so a snapshot file is either absent or
// complete, and a second Save of the same ID fails.
func (s *FileStore) Save(ctx context.Context, snap model.Snapshot) (err error) {
	defer func(start time.Time) { observe(backendFile, "save", start, err) }(time.Now())

	if err := checkID(snap.ID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrBackend, snap.ID, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+snap.ID+"-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBackend, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write %s: %w", ErrBackend, snap.ID, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: sync %s: %w", ErrBackend, snap.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrBackend, snap.ID, err)
	}

	if err := os.Link(tmp.Name(), s.path(snap.ID)); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, snap.ID)
		}
		return fmt.Errorf("%w: link %s: %w", ErrBackend, snap.ID, err)
	}
	return nil
}

// Get implements Store.Get.
func (s *FileStore) Get(_ context.Context, id string) (snap model.Snapshot, err error) {
	defer func(start time.Time) { observe(backendFile, "get", start, err) }(time.Now())

	if err := checkID(id); err != nil {
		return model.Snapshot{}, err
	}
	raw, err := os.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return model.Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: read %s: %w", ErrBackend, id, err)
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: decode %s: %w", ErrBackend, id, err)
	}
	return snap, nil
}

// Count implements Store.Count.
func (s *FileStore) Count(_ context.Context) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("%w: list %s: %w", ErrBackend, s.dir, err)
	}
	n := 0
	for _, e := range entries {
		name := e.Name()
		if e.Type().IsRegular() && strings.HasSuffix(name, fileExt) && model.ValidID(strings.TrimSuffix(name, fileExt)) {
			n++
		}
	}
	return n, nil
}

// Close implements Store.Close.
func (s *FileStore) Close() error { return nil }
