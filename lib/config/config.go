// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sdrshell/uploader/lib/category"
	"github.com/sdrshell/uploader/lib/secret"
	"github.com/sdrshell/uploader/lib/tracking"
	"github.com/sdrshell/uploader/messaging"
)

// Environment variable names.
const (
	EnvConfigFile   = "SDR_UPLOAD_CONFIG"
	EnvDataDir      = "SDR_UPLOAD_DATA_DIR"
	EnvTrackingFile = "SDR_UPLOAD_TRACKING_FILE"
	EnvToken        = "DISCORD_TOKEN"
	EnvTokenFile    = "DISCORD_TOKEN_FILE"
	EnvSpectrumID   = "SPECTRUM_CHANNEL_ID"
	EnvIQID         = "IQ_CHANNEL_ID"
	EnvSNRID        = "SNR_CHANNEL_ID"
)

// DefaultEnvFile is read when no --env-file is given. Its absence is not
// an error.
const DefaultEnvFile = ".env"

// DefaultMaxAttachmentSize is Discord's upload cap for bots in servers
// without boosts.
const DefaultMaxAttachmentSize int64 = 10 << 20

// Config is the complete uploader configuration.
type Config struct {
	// DataDir holds spectrum_logs/, iq_samples/ and snr_logs/.
	DataDir string `yaml:"data_dir"`

	// TrackingFile is the JSON list of already uploaded paths.
	TrackingFile string `yaml:"tracking_file"`

	// APIURL is the Discord REST API root.
	APIURL string `yaml:"api_url"`

	// RequestTimeout bounds each HTTP request, including attachment
	// upload time.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// RateLimit is the sustained request rate (requests per second).
	// Zero disables pacing.
	RateLimit float64 `yaml:"rate_limit"`

	// RateBurst is the number of back-to-back requests allowed.
	RateBurst int `yaml:"rate_burst"`

	// MaxAttachmentSize is the largest file, in bytes, that is sent.
	// Larger files are skipped and retried on later runs.
	MaxAttachmentSize int64 `yaml:"max_attachment_size"`

	// Channels holds the raw channel IDs per category.
	Channels ChannelsConfig `yaml:"channels"`

	token     string
	tokenFile string
	channels  map[category.Category]messaging.Snowflake
}

// ChannelsConfig holds the destination channel IDs as decimal strings.
type ChannelsConfig struct {
	Spectrum string `yaml:"spectrum"`
	IQ       string `yaml:"iq"`
	SNR      string `yaml:"snr"`
}

// LoadOptions controls where Load reads from.
type LoadOptions struct {
	// ConfigFile is the YAML file. Empty falls back to SDR_UPLOAD_CONFIG,
	// and if that is unset no file is read.
	ConfigFile string

	// EnvFile is the dotenv file. Empty means DefaultEnvFile, which may
	// be absent. A named file must exist.
	EnvFile string

	// DataDir and TrackingFile override every other layer when set.
	DataDir      string
	TrackingFile string

	// Getenv looks up process environment variables. Nil means
	// os.LookupEnv.
	Getenv func(string) (string, bool)
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		DataDir:           "./data",
		TrackingFile:      tracking.DefaultPath,
		APIURL:            messaging.DefaultBaseURL,
		RequestTimeout:    60 * time.Second,
		RateLimit:         1,
		RateBurst:         2,
		MaxAttachmentSize: DefaultMaxAttachmentSize,
	}
}

// Load builds and validates the configuration.
func Load(options LoadOptions) (*Config, error) {
	lookup, err := environment(options)
	if err != nil {
		return nil, err
	}

	cfg := Default()

	configFile := options.ConfigFile
	if configFile == "" {
		configFile, _ = lookup(EnvConfigFile)
	}
	if configFile != "" {
		if err := cfg.loadFile(configFile); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvironment(lookup)

	if options.DataDir != "" {
		cfg.DataDir = options.DataDir
	}
	if options.TrackingFile != "" {
		cfg.TrackingFile = options.TrackingFile
	}

	cfg.expandVariables(lookup)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// environment merges the process environment over the dotenv file.
func environment(options LoadOptions) (func(string) (string, bool), error) {
	processLookup := options.Getenv
	if processLookup == nil {
		processLookup = os.LookupEnv
	}

	envFile := options.EnvFile
	required := envFile != ""
	if envFile == "" {
		envFile = DefaultEnvFile
	}

	fileValues, err := godotenv.Read(envFile)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			fileValues = nil
		} else {
			return nil, fmt.Errorf("config: reading env file %s: %w", envFile, err)
		}
	}

	return func(key string) (string, bool) {
		if value, ok := processLookup(key); ok {
			return value, true
		}
		value, ok := fileValues[key]
		return value, ok
	}, nil
}

// loadFile merges a YAML file into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvironment overlays environment variables. Empty values are
// treated as unset.
func (c *Config) applyEnvironment(lookup func(string) (string, bool)) {
	set := func(target *string, key string) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}

	set(&c.DataDir, EnvDataDir)
	set(&c.TrackingFile, EnvTrackingFile)
	set(&c.Channels.Spectrum, EnvSpectrumID)
	set(&c.Channels.IQ, EnvIQID)
	set(&c.Channels.SNR, EnvSNRID)
	set(&c.token, EnvToken)
	set(&c.tokenFile, EnvTokenFile)
}

// expandVariables expands ${VAR} references in the path settings.
func (c *Config) expandVariables(lookup func(string) (string, bool)) {
	mapping := func(name string) string {
		value, _ := lookup(name)
		return value
	}
	c.DataDir = os.Expand(c.DataDir, mapping)
	c.TrackingFile = os.Expand(c.TrackingFile, mapping)
}

// Validate checks every setting and resolves the channel IDs. All
// problems are reported together in a *Error.
func (c *Config) Validate() error {
	var problems []string

	if c.token == "" && c.tokenFile == "" {
		problems = append(problems, fmt.Sprintf("%s (or %s) is required", EnvToken, EnvTokenFile))
	}
	if c.DataDir == "" {
		problems = append(problems, "data_dir is required")
	}
	if c.TrackingFile == "" {
		problems = append(problems, "tracking_file is required")
	}
	if c.APIURL == "" {
		problems = append(problems, "api_url is required")
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, "request_timeout must be positive")
	}
	if c.RateLimit < 0 {
		problems = append(problems, "rate_limit must not be negative")
	}
	if c.MaxAttachmentSize <= 0 {
		problems = append(problems, "max_attachment_size must be positive")
	}

	channels := make(map[category.Category]messaging.Snowflake, 3)
	for _, entry := range []struct {
		category category.Category
		raw      string
		env      string
	}{
		{category.Spectrum, c.Channels.Spectrum, EnvSpectrumID},
		{category.IQ, c.Channels.IQ, EnvIQID},
		{category.SNR, c.Channels.SNR, EnvSNRID},
	} {
		if entry.raw == "" {
			problems = append(problems, fmt.Sprintf("%s is required", entry.env))
			continue
		}
		channelID, err := messaging.ParseSnowflake(entry.raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", entry.env, err))
			continue
		}
		channels[entry.category] = channelID
	}

	if len(problems) > 0 {
		return &Error{Problems: problems}
	}
	c.channels = channels
	return nil
}

// ChannelID returns the validated destination channel for a category.
func (c *Config) ChannelID(cat category.Category) (messaging.Snowflake, bool) {
	channelID, ok := c.channels[cat]
	return channelID, ok
}

// OpenToken returns the bot token in protected memory, read from
// DISCORD_TOKEN_FILE when set, otherwise from DISCORD_TOKEN. The caller
// owns the returned buffer.
func (c *Config) OpenToken() (*secret.Buffer, error) {
	if c.tokenFile != "" {
		buffer, err := secret.ReadFromPath(c.tokenFile)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s %s: %w", EnvTokenFile, c.tokenFile, err)
		}
		return buffer, nil
	}
	if c.token == "" {
		return nil, &Error{Problems: []string{EnvToken + " is required"}}
	}
	buffer, err := secret.NewFromString(c.token)
	if err != nil {
		return nil, fmt.Errorf("config: protecting %s: %w", EnvToken, err)
	}
	return buffer, nil
}

// Error reports one or more invalid settings.
type Error struct {
	Problems []string
}

func (e *Error) Error() string {
	if len(e.Problems) == 1 {
		return "config: " + e.Problems[0]
	}
	return fmt.Sprintf("config: %d problems: %s", len(e.Problems), strings.Join(e.Problems, "; "))
}
