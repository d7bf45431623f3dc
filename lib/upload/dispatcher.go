// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/sdrshell/uploader/lib/tracking"
	"github.com/sdrshell/uploader/messaging"
)

// DispatcherConfig holds the dependencies of a Dispatcher.
type DispatcherConfig struct {
	// Session sends notices and attachments. Required.
	Session messaging.Session
	// Store records uploaded paths. Required.
	Store *tracking.Store
	// MaxAttachmentSize is the largest file, in bytes, that is sent.
	// Larger files fail without a request. Zero or less means no limit.
	MaxAttachmentSize int64
	// DryRun logs what would be sent without sending or saving.
	DryRun bool
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Dispatcher uploads the new files of one category to one channel.
type Dispatcher struct {
	session messaging.Session
	store   *tracking.Store
	maxSize int64
	dryRun  bool
	logger  *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(config DispatcherConfig) (*Dispatcher, error) {
	if config.Session == nil {
		return nil, errors.New("upload: session is required")
	}
	if config.Store == nil {
		return nil, errors.New("upload: tracking store is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		session: config.Session,
		store:   config.Store,
		maxSize: config.MaxAttachmentSize,
		dryRun:  config.DryRun,
		logger:  logger,
	}, nil
}

// Dispatch sends every candidate not already in the tracking store to
// channelID and returns the number of files sent without error.
//
// Per-file failures are logged and skipped. The store is saved once
// after the loop, including when ctx is cancelled partway through; in
// that case the count so far is returned with the context error. A
// store that cannot be loaded or saved is returned as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, channelID messaging.Snowflake, candidates []string, label string) (int, error) {
	uploaded, err := d.store.Load()
	if err != nil {
		return 0, fmt.Errorf("upload: %w", err)
	}

	pending := uploaded.Difference(candidates)
	logger := d.logger.With("label", label, "channel_id", channelID.String())
	if len(pending) == 0 {
		logger.Info("no new files", "candidates", len(candidates))
		return 0, nil
	}

	if d.dryRun {
		for _, path := range pending {
			logger.Info("would upload", "file", path)
		}
		return 0, nil
	}

	sent := 0
	var interrupted error
	for _, path := range pending {
		if err := ctx.Err(); err != nil {
			interrupted = err
			break
		}
		if err := d.send(ctx, channelID, path, label); err != nil {
			logger.Error("upload failed", "file", filepath.Base(path), "path", path, "error", err)
			continue
		}
		uploaded.Add(path)
		sent++
		logger.Info("uploaded", "file", filepath.Base(path))
	}

	if err := d.store.Save(uploaded); err != nil {
		return sent, fmt.Errorf("upload: %w", err)
	}
	if interrupted != nil {
		return sent, fmt.Errorf("upload: interrupted after %d of %d files: %w", sent, len(pending), interrupted)
	}
	return sent, nil
}

// send posts the notice and then the attachment for one file.
func (d *Dispatcher) send(ctx context.Context, channelID messaging.Snowflake, path, label string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}
	if d.maxSize > 0 && info.Size() > d.maxSize {
		return fmt.Errorf("file is %s, over the %s attachment limit",
			humanize.IBytes(uint64(info.Size())), humanize.IBytes(uint64(d.maxSize)))
	}

	name := filepath.Base(path)
	key := tracking.Key(path)

	if _, err := d.session.SendMessage(ctx, channelID, messaging.MessageRequest{
		Content: Notice(label, name),
		Nonce:   messaging.Nonce(channelID, key, "notice"),
	}); err != nil {
		return fmt.Errorf("sending notice: %w", err)
	}

	if _, err := d.session.SendFile(ctx, channelID, messaging.FileUpload{
		Filename:    name,
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
		Body:        file,
		Nonce:       messaging.Nonce(channelID, key, "file"),
	}); err != nil {
		return fmt.Errorf("sending attachment: %w", err)
	}
	return nil
}

// Notice is the text message posted ahead of each attachment.
func Notice(label, filename string) string {
	return "New " + label + " file: " + filename
}
