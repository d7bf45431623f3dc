// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads sdr-upload's configuration.
//
// Values are layered, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. an optional YAML file named by --config or SDR_UPLOAD_CONFIG
//  3. environment variables, where variables already set in the
//     process win over those read from a .env file
//  4. command-line overrides passed in [LoadOptions]
//
// The bot token is only ever taken from the environment (DISCORD_TOKEN
// or DISCORD_TOKEN_FILE), never from the YAML file, so the file can be
// committed alongside the data layout it describes.
//
// [Load] validates the result and returns a [*Error] listing every
// problem at once, so an operator fixes a broken .env in one pass.
package config
