// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sdrshell/uploader/lib/category"
	"github.com/sdrshell/uploader/messaging"
)

// Target pairs a category with the channel its files go to.
type Target struct {
	Definition category.Definition
	ChannelID  messaging.Snowflake
}

// ControllerConfig holds the dependencies of a Controller.
type ControllerConfig struct {
	// Session resolves channels. Required.
	Session messaging.Session
	// Dispatcher sends each category's batch. Required.
	Dispatcher *Dispatcher
	// DataDir is the root the category directories are resolved under.
	DataDir string
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Controller runs one upload pass over a list of targets.
type Controller struct {
	session    messaging.Session
	dispatcher *Dispatcher
	dataDir    string
	logger     *slog.Logger
}

// NewController creates a Controller.
func NewController(config ControllerConfig) (*Controller, error) {
	if config.Session == nil {
		return nil, errors.New("upload: session is required")
	}
	if config.Dispatcher == nil {
		return nil, errors.New("upload: dispatcher is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		session:    config.Session,
		dispatcher: config.Dispatcher,
		dataDir:    config.DataDir,
		logger:     logger,
	}, nil
}

// CategoryCount is the outcome of one category's batch.
type CategoryCount struct {
	Category category.Category
	Uploaded int
}

// Summary is the outcome of a pass, in target order.
type Summary struct {
	Categories []CategoryCount
	Total      int
}

// Run resolves every target's channel, then enumerates and dispatches
// the targets in order. A channel that does not resolve aborts the pass
// before anything is sent. An enumeration or dispatch error stops the
// pass; the returned Summary holds the counts up to that point.
//
// Run does not close the session.
func (c *Controller) Run(ctx context.Context, targets []Target) (Summary, error) {
	var summary Summary

	for _, target := range targets {
		channel, err := c.session.Channel(ctx, target.ChannelID)
		if err != nil {
			return summary, fmt.Errorf("upload: resolving %s channel: %w", target.Definition.Category, err)
		}
		c.logger.Debug("channel resolved",
			"category", string(target.Definition.Category),
			"channel_id", channel.ID.String(),
			"channel", channel.Name,
		)
	}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("upload: %w", err)
		}

		name := target.Definition.Category
		paths, err := target.Definition.Enumerate(c.dataDir)
		if err != nil {
			return summary, fmt.Errorf("upload: listing %s files: %w", name, err)
		}
		c.logger.Debug("files found", "category", string(name), "count", len(paths))

		count, err := c.dispatcher.Dispatch(ctx, target.ChannelID, paths, target.Definition.Label)
		summary.Categories = append(summary.Categories, CategoryCount{Category: name, Uploaded: count})
		summary.Total += count
		if err != nil {
			return summary, fmt.Errorf("upload: %s: %w", name, err)
		}
	}

	attributes := []any{"total", summary.Total}
	for _, entry := range summary.Categories {
		attributes = append(attributes, string(entry.Category), entry.Uploaded)
	}
	c.logger.Info("upload complete", attributes...)
	return summary, nil
}
