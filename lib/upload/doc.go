// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

// Package upload moves new SDR data files to Discord.
//
// A [Dispatcher] handles one category's batch: it filters the
// candidate paths against the tracking store, posts a text notice and
// then the file for each new path, and saves the store once at the end.
// A file that fails to send is logged and left out of the store, so the
// next run retries it.
//
// A [Controller] drives one pass over the selected categories. It
// resolves every destination channel before anything is sent, then
// enumerates and dispatches the categories in order and reports the
// per-category counts as a [Summary].
package upload
