// Package settings persists small application preferences as a JSON file:
// the last selected profile, window placement, and an opaque extras map for
// collaborators. It is deliberately not the database; nothing here is
// domain data.
package settings

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	ferrors "git.home.luguber.info/inful/solia/internal/foundation/errors"
)

type document struct {
	LastProfileID *int64            `json:"last_profile_id,omitempty"`
	Window        json.RawMessage   `json:"window,omitempty"`
	Extras        map[string]string `json:"extras,omitempty"`
}

// Store is a JSON-file-backed settings store. All methods are safe for
// concurrent use; every mutation is written through to disk.
type Store struct {
	path string
	mu   sync.Mutex
	doc  document
}

// Load reads the settings file at path, creating an empty store if the file
// does not exist yet.
func Load(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "read settings file").
			WithContext("path", path).Build()
	}
	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "parse settings file").
			WithContext("path", path).Build()
	}
	return s, nil
}

// LastProfileID returns the persisted profile selection, or nil.
func (s *Store) LastProfileID() *int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.LastProfileID == nil {
		return nil
	}
	id := *s.doc.LastProfileID
	return &id
}

// SaveLastProfileID persists the profile selection. Nil clears it.
func (s *Store) SaveLastProfileID(id *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != nil {
		v := *id
		s.doc.LastProfileID = &v
	} else {
		s.doc.LastProfileID = nil
	}
	return s.saveLocked()
}

// Window returns the opaque window placement blob, or nil.
func (s *Store) Window() json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(json.RawMessage(nil), s.doc.Window...)
}

// SaveWindow persists an opaque window placement blob.
func (s *Store) SaveWindow(raw json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Window = append(json.RawMessage(nil), raw...)
	return s.saveLocked()
}

// Get reads one extras value.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.doc.Extras[key]
	return v, ok
}

// Set writes one extras value through to disk.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.Extras == nil {
		s.doc.Extras = make(map[string]string)
	}
	s.doc.Extras[key] = value
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryStorage, "create settings directory").Build()
	}
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryStorage, "encode settings").Build()
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryStorage, "write settings file").
			WithContext("path", s.path).Build()
	}
	return nil
}
