// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"errors"
	"fmt"
	"time"
)

// ErrChannelNotFound is returned by Session.Channel when the channel ID
// does not resolve to a channel the bot can see.
var ErrChannelNotFound = errors.New("messaging: channel not found")

// DiscordError represents a structured error response from the Discord
// API. Callers can use errors.As to extract it:
//
//	var discordErr *DiscordError
//	if errors.As(err, &discordErr) && discordErr.StatusCode == http.StatusTooManyRequests {
//	    ...
//	}
type DiscordError struct {
	// Code is the Discord JSON error code (e.g., 10003 for Unknown
	// Channel). Zero for errors without one, such as 401 and 429.
	Code int `json:"code"`
	// Message is the human-readable error description from the server.
	Message string `json:"message"`
	// RetryAfter is the number of seconds to wait, set on 429 responses.
	RetryAfter float64 `json:"retry_after,omitempty"`
	// Global is true when a 429 applies to every route.
	Global bool `json:"global,omitempty"`
	// StatusCode is the HTTP status code of the response.
	StatusCode int `json:"-"`
}

func (e *DiscordError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("discord: %s (code %d, HTTP %d, retry after %s)",
			e.Message, e.Code, e.StatusCode, e.RetryAfterDuration())
	}
	return fmt.Sprintf("discord: %s (code %d, HTTP %d)", e.Message, e.Code, e.StatusCode)
}

// RetryAfterDuration converts RetryAfter to a time.Duration.
func (e *DiscordError) RetryAfterDuration() time.Duration {
	return time.Duration(e.RetryAfter * float64(time.Second))
}

// Discord JSON error codes this package reacts to.
const (
	ErrCodeUnknownChannel        = 10003
	ErrCodeUnknownMessage        = 10008
	ErrCodeRequestEntityTooLarge = 40005
	ErrCodeMissingAccess         = 50001
	ErrCodeCannotSendEmpty       = 50006
	ErrCodeMissingPermissions    = 50013
	ErrCodeInvalidFormBody       = 50035
)

// IsDiscordError checks whether err is a *DiscordError with the given code.
func IsDiscordError(err error, code int) bool {
	var discordErr *DiscordError
	if errors.As(err, &discordErr) {
		return discordErr.Code == code
	}
	return false
}

// StatusCode returns the HTTP status of a *DiscordError in err's chain,
// or zero if there is none.
func StatusCode(err error) int {
	var discordErr *DiscordError
	if errors.As(err, &discordErr) {
		return discordErr.StatusCode
	}
	return 0
}
