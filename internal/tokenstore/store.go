package tokenstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// the credential pair issued by the auth endpoints; both fields are opaque
// bearer strings and the pair is only valid as a whole
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// durable holder for the credential pair, backed by a JSON file so the
// session outlives a single process run
type Store struct {
	path string
	mu   sync.Mutex
}

// returns a store bound to the given file path
func New(path string) *Store {
	return &Store{path: path}
}

// returns the persisted pair, or false if none exists; a missing, corrupt,
// or partial file reads as absent, never as an error
func (s *Store) Get() (Pair, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return Pair{}, false
	}

	var pair Pair
	if err := json.Unmarshal(data, &pair); err != nil {
		return Pair{}, false
	}

	// no partial pairs: both credentials or nothing
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return Pair{}, false
	}

	return pair, true
}

// overwrites the persisted pair; the write is atomic so a crash mid-write
// never leaves a partial pair behind
func (s *Store) Set(pair Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return fmt.Errorf("failed to create temp token file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()           //nolint:errcheck,gosec // best-effort cleanup
		os.Remove(tmp.Name()) //nolint:errcheck,gosec // best-effort cleanup
		return fmt.Errorf("failed to write credentials: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck,gosec // best-effort cleanup
		return fmt.Errorf("failed to close temp token file: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck,gosec // best-effort cleanup
		return fmt.Errorf("failed to restrict token file permissions: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck,gosec // best-effort cleanup
		return fmt.Errorf("failed to persist credentials: %w", err)
	}

	return nil
}

// removes any persisted pair; clearing an empty store is not an error
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	return nil
}
