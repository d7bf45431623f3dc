// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

// Package category defines the three kinds of SDR data the uploader
// ships and where each is found on disk.
//
// Each [Definition] names a subdirectory of the data directory, the
// glob patterns matched inside it, and the label used in channel
// notices. The set is fixed at compile time; only the destination
// channel IDs come from configuration.
package category

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Category identifies a kind of data file.
type Category string

const (
	Spectrum Category = "spectrum"
	IQ       Category = "iq"
	SNR      Category = "snr"
)

// SelectAll is the selector that picks every category.
const SelectAll = "all"

// Definition is the static description of a category.
type Definition struct {
	Category Category
	// Label appears in the notice sent before each file.
	Label string
	// Directory is relative to the data directory.
	Directory string
	// Patterns are filepath.Match patterns applied inside Directory, in
	// order. Results are concatenated.
	Patterns []string
}

var definitions = []Definition{
	{
		Category:  Spectrum,
		Label:     "spectrum",
		Directory: "spectrum_logs",
		Patterns:  []string{"*.csv"},
	},
	{
		Category:  IQ,
		Label:     "IQ",
		Directory: "iq_samples",
		// Sample captures and their companion metadata files.
		Patterns: []string{"*.dat", "*.txt"},
	},
	{
		Category:  SNR,
		Label:     "SNR",
		Directory: "snr_logs",
		Patterns:  []string{"*.csv"},
	},
}

// All returns every definition in processing order: spectrum, iq, snr.
func All() []Definition {
	result := make([]Definition, len(definitions))
	copy(result, definitions)
	return result
}

// Lookup returns the definition for a category.
func Lookup(category Category) (Definition, bool) {
	for _, definition := range definitions {
		if definition.Category == category {
			return definition, true
		}
	}
	return Definition{}, false
}

// ParseSelector turns the command-line selector into the categories to
// process, in processing order. Empty and "all" select everything.
func ParseSelector(selector string) ([]Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(selector))
	if normalized == "" || normalized == SelectAll {
		categories := make([]Category, 0, len(definitions))
		for _, definition := range definitions {
			categories = append(categories, definition.Category)
		}
		return categories, nil
	}

	if _, ok := Lookup(Category(normalized)); ok {
		return []Category{Category(normalized)}, nil
	}
	return nil, fmt.Errorf("unknown category %q (want %s)", selector, Selectors())
}

// Selectors returns the accepted selector values joined with "|".
func Selectors() string {
	names := make([]string, 0, len(definitions)+1)
	for _, definition := range definitions {
		names = append(names, string(definition.Category))
	}
	names = append(names, SelectAll)
	return strings.Join(names, "|")
}

// Enumerate lists the files of this category under dataDir. A missing
// directory yields no files. Paths are returned as dataDir-joined paths
// in glob order, pattern by pattern.
func (d Definition) Enumerate(dataDir string) ([]string, error) {
	var paths []string
	for _, pattern := range d.Patterns {
		matches, err := filepath.Glob(filepath.Join(dataDir, d.Directory, pattern))
		if err != nil {
			return nil, fmt.Errorf("category %s: pattern %q: %w", d.Category, pattern, err)
		}
		for _, match := range matches {
			if isRegularFile(match) {
				paths = append(paths, match)
			}
		}
	}
	return paths, nil
}

// isRegularFile drops directories that happen to match a pattern and
// entries that vanished between glob and stat. Symlinks to regular
// files are kept.
func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
