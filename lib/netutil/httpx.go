// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP I/O helpers for the Discord client.
//
// ReadResponse bounds JSON API response reads at MaxResponseSize so a
// misbehaving server cannot exhaust memory. Discord replies are a few
// kilobytes; the limit never interferes with normal operation.
//
// StreamMultipart builds a multipart/form-data request body that is
// produced on demand through an io.Pipe, so attachments are streamed
// from disk instead of being buffered whole.
package netutil

import (
	"io"
)

// MaxResponseSize is the bound on JSON API response body reads: 16 MB.
const MaxResponseSize int64 = 16 << 20

// ReadResponse reads a JSON API response body up to MaxResponseSize
// bytes. Use instead of io.ReadAll when reading HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// ErrorBody reads an error response body for use in diagnostic
// messages. Read errors are ignored; a partial body is still useful.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	return string(data)
}
