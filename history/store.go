// Package history keeps the question/answer log across runs.
package history

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Entry is one answered question.
type Entry struct {
	Question string    `yaml:"question"`
	Answer   string    `yaml:"answer"`
	AskedAt  time.Time `yaml:"asked_at,omitempty"`
}

// Backend is the persistence surface used by Store. *gdata.Manager satisfies it.
type Backend interface {
	ObjectPropExists(objectKey, propKey string) bool
	LoadObjectProp(objectKey, propKey string) ([]byte, error)
	SaveObjectProp(objectKey, propKey string, data []byte) error
}

const (
	historyObject   = "history"
	historyProperty = "entries"
)

// Store persists entries through a Backend. A Store without a backend keeps
// everything in memory only.
type Store struct {
	mu      sync.Mutex
	backend Backend
	entries []Entry
	limit   int
	loaded  bool
	logger  *log.Logger
}

// Open creates a gdata backed store for appName. If gdata cannot be opened
// the store falls back to memory only and the error is returned alongside it.
func Open(appName string, limit int, logger *log.Logger) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return NewStore(nil, limit, logger), fmt.Errorf("history: open gdata %q: %w", appName, err)
	}
	return NewStore(m, limit, logger), nil
}

// NewStore wraps backend. limit caps how many entries are kept; 0 means no cap.
// A nil logger discards output.
func NewStore(backend Backend, limit int, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{backend: backend, limit: limit, logger: logger}
}

// Load reads the persisted entries, oldest first.
func (s *Store) Load() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}
	return append([]Entry(nil), s.entries...), nil
}

func (s *Store) loadLocked() error {
	if s.backend == nil || !s.backend.ObjectPropExists(historyObject, historyProperty) {
		s.loaded = true
		return nil
	}

	data, err := s.backend.LoadObjectProp(historyObject, historyProperty)
	if err != nil {
		return fmt.Errorf("history: load: %w", err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("history: unmarshal: %w", err)
	}
	s.entries = s.trim(entries)
	s.loaded = true
	return nil
}

// Append adds e and saves the log. Persisted entries are read first if Load
// has not been called yet.
func (s *Store) Append(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Never overwrite what an earlier run saved.
	if !s.loaded {
		if err := s.loadLocked(); err != nil {
			return err
		}
	}
	s.entries = s.trim(append(s.entries, e))
	if s.backend == nil {
		return nil
	}

	data, err := yaml.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("history: marshal: %w", err)
	}
	if err := s.backend.SaveObjectProp(historyObject, historyProperty, data); err != nil {
		return fmt.Errorf("history: save: %w", err)
	}
	s.logger.Printf("history: saved %d entries", len(s.entries))
	return nil
}

func (s *Store) trim(entries []Entry) []Entry {
	if s.limit > 0 && len(entries) > s.limit {
		return append([]Entry(nil), entries[len(entries)-s.limit:]...)
	}
	return entries
}
