package mappings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/fsutil"
)

const defaultNotes = "Maps input names (name|team) to canonical roster names."

var ErrEmptyCanonical = errors.New("canonical name must not be empty")

type file struct {
	Mappings map[string]string `json:"mappings"`
	Notes    string            `json:"notes"`
}

// Mapping is one persisted name correction.
type Mapping struct {
	Name      string
	Team      string
	Canonical string
}

// Store is a persistent, concurrency-safe table of name corrections keyed
// by input name and team.
type Store struct {
	path     string
	mappings map[string]string
	notes    string
	mu       sync.RWMutex
}

// Key builds the lookup key for an input name and team.
func Key(name, team string) string {
	return name + "|" + team
}

func splitKey(key string) (string, string) {
	name, team, _ := strings.Cut(key, "|")
	return name, team
}

// Open loads the store at path. A missing or corrupt file yields an empty
// store; the problem is logged, never returned.
func Open(path string) *Store {
	s := &Store{path: path, mappings: make(map[string]string), notes: defaultNotes}
	s.Load()
	return s
}

// Load replaces the in-memory table with the file contents.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mappings = make(map[string]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Could not read name mappings, starting empty", "path", s.path, "error", err)
		}
		return
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		slog.Warn("Name mappings file is corrupt, starting empty", "path", s.path, "error", err)
		return
	}
	for k, v := range f.Mappings {
		if strings.TrimSpace(v) != "" {
			s.mappings[k] = v
		}
	}
	if f.Notes != "" {
		s.notes = f.Notes
	}
	slog.Debug("Loaded name mappings", "count", len(s.mappings))
}

// Lookup returns the canonical name for an input name and team.
func (s *Store) Lookup(name, team string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.mappings[Key(name, team)]
	return v, ok
}

// Set records a correction in memory; call Save to persist it.
func (s *Store) Set(name, team, canonical string) error {
	canonical = strings.TrimSpace(canonical)
	if canonical == "" {
		return ErrEmptyCanonical
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[Key(name, team)] = canonical
	return nil
}

// Remove deletes a correction, reporting whether one existed.
func (s *Store) Remove(name, team string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := Key(name, team)
	_, ok := s.mappings[key]
	delete(s.mappings, key)
	return ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.mappings)
}

// All returns every mapping sorted by input name then team.
func (s *Store) All() []Mapping {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Mapping, 0, len(s.mappings))
	for k, v := range s.mappings {
		name, team := splitKey(k)
		out = append(out, Mapping{Name: name, Team: team, Canonical: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Team < out[j].Team
	})
	return out
}

// Save writes the table atomically.
func (s *Store) Save() error {
	s.mu.RLock()
	f := file{Mappings: make(map[string]string, len(s.mappings)), Notes: s.notes}
	for k, v := range s.mappings {
		f.Mappings[k] = v
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding name mappings: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("saving name mappings: %w", err)
	}
	return nil
}

func (s *Store) Path() string {
	return s.path
}
