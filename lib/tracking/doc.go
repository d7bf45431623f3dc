// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

// Package tracking persists the set of data files that have already
// been uploaded, so later runs skip them.
//
// The on-disk format is a flat JSON array of path strings, the same
// shape as the uploaded_files.json written by earlier uploader
// versions. Reads tolerate JSONC comments and trailing commas. Writes
// replace the whole file atomically (temporary file, fsync, rename), so
// an interrupted save leaves the previous list in place.
//
// In memory the list is a [Set] keyed by normalized absolute path
// ([Key]). Two spellings of the same path ("data/a.csv" and
// "./data/../data/a.csv") are one entry; a symlink and its target are
// still two entries because links are not resolved.
package tracking
