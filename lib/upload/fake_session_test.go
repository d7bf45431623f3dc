// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

package upload

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sdrshell/uploader/messaging"
)

// sentMessage records one SendMessage or SendFile call.
type sentMessage struct {
	ChannelID messaging.Snowflake
	Content   string
	Filename  string
	Data      string
	Nonce     string
}

// fakeSession is an in-memory messaging.Session. Channels not in the
// channels map do not resolve. Files named in failFiles fail at the
// attachment step.
type fakeSession struct {
	mu        sync.Mutex
	channels  map[messaging.Snowflake]string
	failFiles map[string]error
	notices   []sentMessage
	files     []sentMessage
	closed    bool
}

func newFakeSession(channels ...messaging.Snowflake) *fakeSession {
	session := &fakeSession{
		channels:  make(map[messaging.Snowflake]string),
		failFiles: make(map[string]error),
	}
	for _, id := range channels {
		session.channels[id] = "channel-" + id.String()
	}
	return session
}

func (f *fakeSession) User() messaging.User {
	return messaging.User{ID: 1, Username: "sdr-bot", Bot: true}
}

func (f *fakeSession) Channel(_ context.Context, channelID messaging.Snowflake) (*messaging.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.channels[channelID]
	if !ok {
		return nil, fmt.Errorf("channel %s: %w", channelID, messaging.ErrChannelNotFound)
	}
	return &messaging.Channel{ID: channelID, Name: name}, nil
}

func (f *fakeSession) SendMessage(_ context.Context, channelID messaging.Snowflake, request messaging.MessageRequest) (*messaging.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.channels[channelID]; !ok {
		return nil, messaging.ErrChannelNotFound
	}
	f.notices = append(f.notices, sentMessage{
		ChannelID: channelID,
		Content:   request.Content,
		Nonce:     request.Nonce,
	})
	return &messaging.Message{ChannelID: channelID, Content: request.Content, Nonce: request.Nonce}, nil
}

func (f *fakeSession) SendFile(_ context.Context, channelID messaging.Snowflake, file messaging.FileUpload) (*messaging.Message, error) {
	data, err := io.ReadAll(file.Body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failFiles[file.Filename]; err != nil {
		return nil, err
	}
	f.files = append(f.files, sentMessage{
		ChannelID: channelID,
		Filename:  file.Filename,
		Data:      string(data),
		Nonce:     file.Nonce,
	})
	return &messaging.Message{ChannelID: channelID, Nonce: file.Nonce}, nil
}

func (f *fakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// sentFilenames returns the attachment names in send order.
func (f *fakeSession) sentFilenames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, len(f.files))
	for i, file := range f.files {
		names[i] = file.Filename
	}
	return names
}

var _ messaging.Session = (*fakeSession)(nil)
