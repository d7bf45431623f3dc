// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sdrshell/uploader/lib/netutil"
	"github.com/sdrshell/uploader/lib/secret"
)

// DirectSession is an authenticated Discord bot session. It wraps a
// Client with the bot token, stored in a secret.Buffer. The caller must
// call Close when the session is no longer needed.
type DirectSession struct {
	client *Client
	token  *secret.Buffer
	user   User
}

// User returns the bot account returned by /users/@me at connect time.
func (s *DirectSession) User() User {
	return s.user
}

// Close releases the token memory and drops idle connections.
// Idempotent.
func (s *DirectSession) Close() error {
	s.client.CloseIdleConnections()
	if s.token != nil {
		return s.token.Close()
	}
	return nil
}

// Channel fetches a channel by ID.
func (s *DirectSession) Channel(ctx context.Context, channelID Snowflake) (*Channel, error) {
	if channelID.IsZero() {
		return nil, fmt.Errorf("messaging: channel ID is required")
	}

	body, err := s.client.doJSON(ctx, http.MethodGet, "/channels/"+channelID.String(), s.token, nil)
	if err != nil {
		// Discord answers 404/10003 for IDs that do not exist and
		// 403/50001 for channels the bot cannot see. Both mean the
		// configured ID is unusable.
		if IsDiscordError(err, ErrCodeUnknownChannel) || IsDiscordError(err, ErrCodeMissingAccess) ||
			StatusCode(err) == http.StatusNotFound {
			return nil, fmt.Errorf("messaging: channel %s: %w: %w", channelID, ErrChannelNotFound, err)
		}
		return nil, fmt.Errorf("messaging: get channel %s failed: %w", channelID, err)
	}

	var channel Channel
	if err := json.Unmarshal(body, &channel); err != nil {
		return nil, fmt.Errorf("messaging: failed to parse channel response: %w", err)
	}
	return &channel, nil
}

// SendMessage posts a text message to a channel.
func (s *DirectSession) SendMessage(ctx context.Context, channelID Snowflake, request MessageRequest) (*Message, error) {
	if strings.TrimSpace(request.Content) == "" {
		return nil, fmt.Errorf("messaging: message content is required")
	}
	request.EnforceNonce = request.Nonce != ""

	body, err := s.client.doJSON(ctx, http.MethodPost, messagesPath(channelID), s.token, request)
	if err != nil {
		return nil, fmt.Errorf("messaging: send message to %s failed: %w", channelID, err)
	}
	return parseMessage(body)
}

// SendFile posts a message with one attachment. The file is streamed
// from file.Body as the files[0] part; the message metadata travels in
// the payload_json part.
func (s *DirectSession) SendFile(ctx context.Context, channelID Snowflake, file FileUpload) (*Message, error) {
	if file.Filename == "" {
		return nil, fmt.Errorf("messaging: attachment filename is required")
	}
	if file.Body == nil {
		return nil, fmt.Errorf("messaging: attachment body is required")
	}

	payload, err := json.Marshal(MessageRequest{
		Nonce:        file.Nonce,
		EnforceNonce: file.Nonce != "",
		Attachments:  []AttachmentRequest{{ID: 0, Filename: file.Filename}},
	})
	if err != nil {
		return nil, fmt.Errorf("messaging: failed to encode attachment payload: %w", err)
	}

	body, err := s.client.doMultipart(ctx, http.MethodPost, messagesPath(channelID), s.token,
		netutil.Part{
			FieldName:   "payload_json",
			ContentType: "application/json",
			Body:        strings.NewReader(string(payload)),
		},
		netutil.Part{
			FieldName:   "files[0]",
			FileName:    file.Filename,
			ContentType: file.ContentType,
			Body:        file.Body,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("messaging: upload %q to %s failed: %w", file.Filename, channelID, err)
	}
	return parseMessage(body)
}

func messagesPath(channelID Snowflake) string {
	return "/channels/" + channelID.String() + "/messages"
}

func parseMessage(body []byte) (*Message, error) {
	var message Message
	if err := json.Unmarshal(body, &message); err != nil {
		return nil, fmt.Errorf("messaging: failed to parse message response: %w", err)
	}
	return &message, nil
}
