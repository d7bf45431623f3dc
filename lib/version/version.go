// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"io"
	"runtime"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// ProjectURL identifies the project in the Discord User-Agent header.
const ProjectURL = "https://github.com/sdrshell/uploader"

// Info returns a formatted version string suitable for --version output.
func Info() string {
	return fmt.Sprintf("%s (%s, %s, %s)", Version, GitCommit, BuildTime, runtime.Version())
}

// UserAgent returns the value Discord expects in the User-Agent header
// of bot requests: "DiscordBot ($url, $versionNumber)".
func UserAgent() string {
	return fmt.Sprintf("DiscordBot (%s, %s)", ProjectURL, Version)
}

// Print writes "<program> <info>" followed by a newline.
func Print(writer io.Writer, program string) {
	fmt.Fprintf(writer, "%s %s\n", program, Info())
}
