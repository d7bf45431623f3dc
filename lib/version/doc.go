// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for sdr-upload.
//
// [GitCommit], [BuildTime] and [Version] are injected at build time via
// -ldflags -X and default to "unknown" / "0.1.0-dev" otherwise.
//
// [Info] formats the --version line. [UserAgent] formats the
// User-Agent header Discord requires from bot clients.
package version
