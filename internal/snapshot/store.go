package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"kurswatch/internal/domain"
)

// Store is the persistence seam for per-search snapshots. Load returns an
// empty snapshot when none has been saved yet; Save replaces the stored
// snapshot wholesale.
type Store interface {
	Load(key string) (domain.Snapshot, error)
	Save(key string, snap domain.Snapshot) error
}

// FileStore keeps one JSON file per search key under Dir. The file shape is
// the snapshot mapping itself (id -> record), pretty-printed so diffs of the
// state files stay readable in version control.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) Load(key string) (domain.Snapshot, error) {
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: load %s: %w", key, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("snapshot: decode %s: %w", key, err)
	}
	if snap == nil {
		snap = domain.Snapshot{}
	}
	return snap, nil
}

func (s *FileStore) Save(key string, snap domain.Snapshot) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("snapshot: mkdir %s: %w", s.Dir, err)
	}

	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: encode %s: %w", key, err)
	}
	if err := os.WriteFile(s.path(key), b, 0o644); err != nil {
		return fmt.Errorf("snapshot: save %s: %w", key, err)
	}
	return nil
}

// Path exposes the on-disk location for a key, used by the SFTP mirror and
// the CSV export tool.
func (s *FileStore) Path(key string) string {
	return s.path(key)
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.Dir, key+".json")
}
