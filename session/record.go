// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pfetrack/pfetrack/portal"
)

// Record is the durable session document: the bearer token plus the
// user it belongs to, written as a single JSON object.
type Record struct {
	Token string      `json:"token"`
	User  portal.User `json:"user"`
}

// RecordStore reads and writes the session record at a fixed path.
// It is the only component that touches the file; everything else
// goes through the Manager.
type RecordStore struct {
	path string
}

// NewRecordStore creates a store at the given path. An empty path
// resolves the default location: PFETRACK_SESSION_FILE if set,
// otherwise session.json under the user config directory.
func NewRecordStore(path string) (*RecordStore, error) {
	if path == "" {
		resolved, err := defaultRecordPath()
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	return &RecordStore{path: path}, nil
}

// Path returns the file path the store operates on.
func (s *RecordStore) Path() string {
	return s.path
}

func defaultRecordPath() (string, error) {
	if fromEnv := os.Getenv("PFETRACK_SESSION_FILE"); fromEnv != "" {
		return fromEnv, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("session: cannot determine config directory: %w", err)
	}
	return filepath.Join(configDir, "pfetrack", "session.json"), nil
}

// Load reads the record. A missing file is not an error: it returns
// (nil, nil), meaning no session is stored. A file that exists but
// cannot be parsed, or that lacks a token, is an error so the caller
// can discard it.
func (s *RecordStore) Load() (*Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: reading record: %w", err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("session: parsing record: %w", err)
	}
	if record.Token == "" {
		return nil, fmt.Errorf("session: record at %s has no token", s.path)
	}
	return &record, nil
}

// Save writes the record atomically with owner-only permissions. The
// parent directory is created if needed.
func (s *RecordStore) Save(record *Record) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encoding record: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session: creating %s: %w", dir, err)
	}

	// Write-then-rename so a crash mid-write cannot leave a truncated
	// record behind.
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("session: creating temporary file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if err := tmp.Chmod(0o600); err != nil {
		cleanup()
		return fmt.Errorf("session: restricting record permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("session: writing record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("session: closing record: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("session: installing record: %w", err)
	}
	return nil
}

// Delete removes the record. Deleting a record that does not exist is
// not an error.
func (s *RecordStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: deleting record: %w", err)
	}
	return nil
}
