// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
)

// Session is the set of Discord operations the uploader performs. The
// live implementation is *DirectSession; tests use in-memory fakes.
type Session interface {
	// User returns the bot account the session is authenticated as.
	User() User

	// Channel resolves a channel ID. Returns an error wrapping
	// ErrChannelNotFound when the ID is unknown or not visible to the
	// bot.
	Channel(ctx context.Context, channelID Snowflake) (*Channel, error)

	// SendMessage posts a text message to a channel.
	SendMessage(ctx context.Context, channelID Snowflake, request MessageRequest) (*Message, error)

	// SendFile posts a message carrying a single file attachment.
	SendFile(ctx context.Context, channelID Snowflake, file FileUpload) (*Message, error)

	// Close releases any resources held by the session. Idempotent.
	Close() error
}

// Compile-time check: *DirectSession implements Session.
var _ Session = (*DirectSession)(nil)
