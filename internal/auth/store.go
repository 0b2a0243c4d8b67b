package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"spotify-mcp/pkg/logging"
)

// Store persists the token record. The synchronization policy is
// deliberately narrow: last writer wins, readers tolerate staleness, and
// corrupt or missing state degrades to "absent" so the caller can fall back
// to interactive authorization. Keeping the policy behind an interface means
// a stricter implementation (lock file, local socket) could replace the file
// store without touching the Manager.
type Store interface {
	// Load returns the persisted token, or (nil, nil) when no usable
	// persisted state exists. Load never fails on a missing, empty, or
	// malformed file.
	Load() (*Token, error)

	// Save persists the token, creating any missing containing directory.
	Save(*Token) error
}

// FileStore persists the token as a JSON file under the operating user's
// home directory. The file is the shared inbox for every cooperating
// process on the machine.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the token file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the persisted token. Missing files, empty files, and files
// with invalid syntax all return (nil, nil): corruption must never crash
// the process, only trigger re-authentication.
func (s *FileStore) Load() (*Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		logging.Warn("TokenStore", "Cannot read token file %s: %v", s.path, err)
		return nil, nil
	}

	if len(data) == 0 {
		return nil, nil
	}

	var tok Token
	if err := json.Unmarshal(data, &tok); err != nil {
		logging.Warn("TokenStore", "Ignoring malformed token file %s: %v", s.path, err)
		return nil, nil
	}

	return &tok, nil
}

// Save writes the token with permissions private to the operating user.
func (s *FileStore) Save(tok *Token) error {
	if tok == nil {
		tok = &Token{}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}
