// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

package tracking

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// DefaultPath is the tracking file used when none is configured,
// relative to the working directory.
const DefaultPath = "uploaded_files.json"

// ErrCorrupt is matched (via errors.Is) by the error Load returns when
// the tracking file exists but is not a JSON array of strings.
var ErrCorrupt = errors.New("tracking file is corrupt")

// CorruptError describes an unreadable tracking file. The run must stop:
// overwriting the file would forget every recorded upload.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("tracking: %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrCorrupt) true for any *CorruptError.
func (e *CorruptError) Is(target error) bool { return target == ErrCorrupt }

// Store reads and writes one tracking file. It holds no state between
// calls; every Load reads the file afresh.
type Store struct {
	path string
}

// NewStore returns a store for the file at path. Empty means DefaultPath.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path returns the tracking file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the recorded paths. A missing file is an empty set. An
// empty file or a JSON null is also treated as empty. Anything else that
// is not an array of strings returns a *CorruptError.
func (s *Store) Load() (*Set, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return NewSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("tracking: reading %s: %w", s.path, err)
	}

	var paths []string
	stripped := jsonc.ToJSON(data)
	if !isBlank(stripped) {
		if err := json.Unmarshal(stripped, &paths); err != nil {
			return nil, &CorruptError{Path: s.path, Err: err}
		}
	}
	return NewSet(paths...), nil
}

// Save replaces the tracking file with the paths in set, in insertion
// order. The file is written to a temporary sibling, fsynced and renamed
// into place, so readers never see a partial list. Parent directories
// are created as needed.
func (s *Store) Save(set *Set) error {
	paths := set.Paths()
	data, err := json.MarshalIndent(paths, "", "  ")
	if err != nil {
		return fmt.Errorf("tracking: encoding paths: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(s.path)
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("tracking: creating %s: %w", directory, err)
	}

	temporaryPath := s.path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("tracking: creating temporary file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("tracking: writing temporary file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("tracking: syncing temporary file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("tracking: closing temporary file: %w", err)
	}

	if err := os.Rename(temporaryPath, s.path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("tracking: renaming %s into place: %w", s.path, err)
	}

	// Sync the directory so the rename survives a power loss.
	if parent, err := os.Open(directory); err == nil {
		parent.Sync()
		parent.Close()
	}
	return nil
}

func isBlank(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}
