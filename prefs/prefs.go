// Package prefs implements the preference store side of the contact book:
// a flat key-value namespace holding one ENS fallback per contact,
// independent from the relational source.
//
// The production store is FileStore, one JSON file rewritten whole on
// every set. Tests inject Mem.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const ensPrefix = "ENS_"

// EnsKey is the persisted key layout for ENS overrides. Existing data
// already sits under these keys, so the layout never changes.
func EnsKey(id string) string {
	return ensPrefix + id
}

type storedPrefs struct {
	Data map[string]string `json:"Data"`
}

// FileStore keeps preferences in one JSON file, loaded lazily on first
// access and rewritten whole on every set, serialized by an internal
// mutex. Unreadable or corrupt files read as empty: lookups favor absence
// over failure, only writes surface errors.
type FileStore struct {
	path string

	mu   sync.Mutex
	data map[string]string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() map[string]string {
	if s.data != nil {
		return s.data
	}
	s.data = map[string]string{}
	content, err := os.ReadFile(s.path)
	if err != nil {
		// WARNING: swallow error here
		return s.data
	}
	stored := storedPrefs{}
	if err = json.Unmarshal(content, &stored); err != nil {
		// WARNING: swallow error here
		return s.data
	}
	if stored.Data != nil {
		s.data = stored.Data
	}
	return s.data
}

func (s *FileStore) persist() error {
	jsonData, err := json.MarshalIndent(storedPrefs{Data: s.data}, "", "  ")
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, jsonData, 0644)
}

func (s *FileStore) EnsOverride(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, found := s.load()[EnsKey(id)]
	if !found {
		return "", false
	}
	return value, true
}

func (s *FileStore) SetEnsOverride(id, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.load()[EnsKey(id)] = value
	return s.persist()
}
