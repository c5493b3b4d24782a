// Package settings manages the runtime settings document: a small JSON file
// holding the knobs the UI can change without a restart (provider choice,
// confidence threshold, language). Distinct from the static viper config.
package settings

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Settings is the persisted settings document.
type Settings struct {
	AIProvider string `json:"aiProvider"`
	Confidence int    `json:"confidence"`
	Language   string `json:"language"`
}

// Partial is a set of optional updates. Nil fields are left unchanged.
type Partial struct {
	AIProvider *string `json:"aiProvider,omitempty"`
	Confidence *int    `json:"confidence,omitempty"`
	Language   *string `json:"language,omitempty"`
}

// Defaults returns the settings written when no document exists yet.
func Defaults() Settings {
	return Settings{
		AIProvider: "anthropic",
		Confidence: 50,
		Language:   "pt",
	}
}

// FileStore reads and writes the settings document at a fixed path.
// Updates merge into the current document and persist the full object.
// Writes are serialized; concurrent readers see either the old or the new
// document, never a torn one.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store for the document at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the current settings, creating the document with defaults when
// it does not exist or cannot be parsed.
func (s *FileStore) Load() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *FileStore) loadLocked() Settings {
	raw, err := os.ReadFile(s.path)
	if err == nil {
		var st Settings
		if jsonErr := json.Unmarshal(raw, &st); jsonErr == nil {
			return st
		}
		zap.L().Warn("settings: unreadable document, rewriting defaults",
			zap.String("path", s.path),
		)
	}

	st := Defaults()
	if saveErr := s.saveLocked(st); saveErr != nil {
		zap.L().Warn("settings: save defaults", zap.Error(saveErr))
	}
	return st
}

// Update merges the non-nil fields of changes into the current settings and
// persists the full document. Returns the resulting settings.
func (s *FileStore) Update(changes Partial) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.loadLocked()
	if changes.AIProvider != nil {
		st.AIProvider = *changes.AIProvider
	}
	if changes.Confidence != nil {
		st.Confidence = *changes.Confidence
	}
	if changes.Language != nil {
		st.Language = *changes.Language
	}

	if err := s.saveLocked(st); err != nil {
		return Settings{}, err
	}
	return st, nil
}

func (s *FileStore) saveLocked(st Settings) error {
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return eris.Wrap(err, "settings: marshal")
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return eris.Wrap(err, "settings: write file")
	}
	return nil
}
