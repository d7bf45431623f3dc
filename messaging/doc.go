// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging wraps the subset of the Discord REST API that
// sdr-upload needs: validating a bot token, resolving channels, and
// posting text messages and file attachments.
//
// [Client] holds the API base URL, HTTP transport and request pacer.
// [Client.Connect] validates a bot token against /users/@me and returns
// a [DirectSession] that owns the token. The token lives in a
// [secret.Buffer] for the lifetime of the session; callers must call
// Close to release it.
//
// [Session] is the interface the upload code depends on, so tests can
// substitute an in-memory fake for a live Discord connection.
//
// Requests are paced by a token-bucket limiter (golang.org/x/time/rate)
// shared by every session of a Client. Rate-limit responses (HTTP 429)
// are not retried: they surface as [*DiscordError] with RetryAfter set
// and the caller decides what to do.
//
// Each message carries a nonce derived from the channel, the file path
// and the message part ([Nonce]) with enforce_nonce set, so Discord
// drops a duplicate of a request it already accepted within its nonce
// window.
//
// All API errors are returned as [*DiscordError] with the JSON error
// code and HTTP status. [IsDiscordError] tests for a specific code.
package messaging
