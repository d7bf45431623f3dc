// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

package tracking

import (
	"path/filepath"
)

// Key returns the identity of a path in the tracking set: the cleaned
// absolute path. If the working directory cannot be determined the
// cleaned input is used as is.
func Key(path string) string {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return absolute
}

// Set is an insertion-ordered set of normalized file paths. The zero
// value is not usable; create one with NewSet.
type Set struct {
	members map[string]struct{}
	order   []string
}

// NewSet returns a set holding the given paths, normalized with Key.
// Repeated paths are kept once.
func NewSet(paths ...string) *Set {
	set := &Set{members: make(map[string]struct{}, len(paths))}
	for _, path := range paths {
		set.Add(path)
	}
	return set
}

// Add inserts path and reports whether it was not already present.
func (s *Set) Add(path string) bool {
	key := Key(path)
	if _, exists := s.members[key]; exists {
		return false
	}
	s.members[key] = struct{}{}
	s.order = append(s.order, key)
	return true
}

// Contains reports whether path is in the set.
func (s *Set) Contains(path string) bool {
	_, exists := s.members[Key(path)]
	return exists
}

// Len returns the number of paths in the set.
func (s *Set) Len() int {
	return len(s.order)
}

// Paths returns the normalized paths in insertion order. The returned
// slice is a copy.
func (s *Set) Paths() []string {
	paths := make([]string, len(s.order))
	copy(paths, s.order)
	return paths
}

// Difference returns the candidates that are not in the set, in
// candidate order, with repeats (after normalization) dropped. The
// returned strings are the candidates as given, not their keys.
func (s *Set) Difference(candidates []string) []string {
	seen := make(map[string]struct{}, len(candidates))
	var missing []string
	for _, candidate := range candidates {
		key := Key(candidate)
		if _, uploaded := s.members[key]; uploaded {
			continue
		}
		if _, repeated := seen[key]; repeated {
			continue
		}
		seen[key] = struct{}{}
		missing = append(missing, candidate)
	}
	return missing
}
