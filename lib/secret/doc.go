// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds the Discord bot token outside the Go heap.
//
// [Buffer] allocates memory via mmap(MAP_ANONYMOUS), locks it into
// physical RAM with mlock so it never reaches swap, and marks it
// MADV_DONTDUMP so it never appears in a core dump. Close zeroes,
// unlocks and unmaps the region. After Close any access panics.
//
// Tokens arrive either from the environment ([NewFromString]) or from a
// file or stdin ([ReadFromPath]). The messaging session keeps the
// buffer for its lifetime and converts it to a string only when an
// Authorization header is built.
//
// Depends on golang.org/x/sys/unix.
package secret
