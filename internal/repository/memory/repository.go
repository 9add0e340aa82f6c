package memory

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
	"github.com/c2FmZQ/storage"
)

const snapshotFile = "snapshot.json"

// Repository holds the latest build and roster in memory. When backed by
// a storage directory, builds are also persisted so a restarted process
// can answer queries before its first rebuild.
type Repository struct {
	snapshot *models.Snapshot
	roster   *models.RosterCache
	store    *storage.Storage
	mu       sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{}
}

// NewPersistentRepository persists snapshots under dir.
func NewPersistentRepository(dir string) (*Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot dir: %w", err)
	}
	return &Repository{store: storage.New(dir, nil)}, nil
}

func (r *Repository) SaveSnapshot(s *models.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot = s
	if r.store == nil {
		return nil
	}
	if err := r.store.SaveDataFile(snapshotFile, s); err != nil {
		return fmt.Errorf("storage.SaveDataFile: %w", err)
	}
	return nil
}

// GetSnapshot returns the in-memory snapshot, loading the persisted one
// on first use. It returns nil when nothing has been built.
func (r *Repository) GetSnapshot() *models.Snapshot {
	r.mu.RLock()
	s := r.snapshot
	r.mu.RUnlock()
	if s != nil || r.store == nil {
		return s
	}

	loaded, err := r.loadSnapshot()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Could not load snapshot", "error", err)
		}
		return nil
	}
	r.mu.Lock()
	if r.snapshot == nil {
		r.snapshot = loaded
	}
	s = r.snapshot
	r.mu.Unlock()
	return s
}

func (r *Repository) loadSnapshot() (*models.Snapshot, error) {
	var s models.Snapshot
	if err := r.store.ReadDataFile(snapshotFile, &s); err != nil {
		if errors.Is(err, os.ErrNotExist) || os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("ReadDataFile: %w", err)
	}
	return &s, nil
}

func (r *Repository) SaveRoster(roster *models.RosterCache) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roster = roster
}

func (r *Repository) GetRoster() *models.RosterCache {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roster
}
