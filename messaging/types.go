// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Snowflake is a Discord identifier: a 64-bit unsigned integer that the
// API carries as a decimal string to survive JavaScript number parsing.
type Snowflake uint64

// ParseSnowflake parses a decimal snowflake. Zero is rejected: Discord
// never issues it, and an unset configuration value parses to it.
func ParseSnowflake(value string) (Snowflake, error) {
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snowflake %q: %w", value, err)
	}
	if parsed == 0 {
		return 0, fmt.Errorf("invalid snowflake %q: must be non-zero", value)
	}
	return Snowflake(parsed), nil
}

// String returns the decimal form used in URLs and JSON.
func (s Snowflake) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

// IsZero reports whether the snowflake is unset.
func (s Snowflake) IsZero() bool {
	return s == 0
}

// MarshalJSON encodes the snowflake as a JSON string.
func (s Snowflake) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts both the string form Discord sends and a bare
// JSON number.
func (s *Snowflake) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}
	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
	}
	if text == "" {
		*s = 0
		return nil
	}
	parsed, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid snowflake %q: %w", text, err)
	}
	*s = Snowflake(parsed)
	return nil
}

// User is the subset of a Discord user object the uploader reads.
type User struct {
	ID            Snowflake `json:"id"`
	Username      string    `json:"username"`
	Discriminator string    `json:"discriminator,omitempty"`
	Bot           bool      `json:"bot,omitempty"`
}

// Tag returns "username#discriminator", or the bare username for
// accounts on the discriminator-less naming system.
func (u User) Tag() string {
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

// ChannelType is the Discord channel type enumeration.
type ChannelType int

// Channel types that can receive messages from a bot.
const (
	ChannelTypeGuildText         ChannelType = 0
	ChannelTypeDM                ChannelType = 1
	ChannelTypeGuildAnnouncement ChannelType = 5
	ChannelTypePublicThread      ChannelType = 11
	ChannelTypePrivateThread     ChannelType = 12
)

// Channel is the subset of a Discord channel object the uploader reads.
type Channel struct {
	ID      Snowflake   `json:"id"`
	Type    ChannelType `json:"type"`
	Name    string      `json:"name,omitempty"`
	GuildID Snowflake   `json:"guild_id,omitempty"`
}

// MessageRequest is the body of POST /channels/{id}/messages. For file
// uploads it is sent as the payload_json part.
type MessageRequest struct {
	Content string `json:"content,omitempty"`
	// Nonce is echoed back by Discord; with EnforceNonce a second
	// message carrying the same nonce within a few minutes is not
	// created again.
	Nonce        string `json:"nonce,omitempty"`
	EnforceNonce bool   `json:"enforce_nonce,omitempty"`
	// Attachments describes the files[n] parts of a multipart request.
	Attachments []AttachmentRequest `json:"attachments,omitempty"`
}

// AttachmentRequest links a files[n] part to its metadata.
type AttachmentRequest struct {
	ID       int    `json:"id"`
	Filename string `json:"filename"`
}

// Message is the subset of a Discord message object the uploader reads.
type Message struct {
	ID          Snowflake    `json:"id"`
	ChannelID   Snowflake    `json:"channel_id"`
	Content     string       `json:"content"`
	Nonce       string       `json:"nonce,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment describes a file attached to a created message.
type Attachment struct {
	ID       Snowflake `json:"id"`
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	URL      string    `json:"url"`
}

// FileUpload is a single attachment for Session.SendFile.
type FileUpload struct {
	// Filename is the name shown in Discord.
	Filename string
	// ContentType of the file part. Empty means application/octet-stream.
	ContentType string
	// Body supplies the file content. It is read once, to EOF.
	Body io.Reader
	// Nonce for the message carrying the attachment.
	Nonce string
}
