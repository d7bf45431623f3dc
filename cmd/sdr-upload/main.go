// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

// sdr-upload posts new SDR data files to Discord channels.
//
// Each run enumerates the spectrum, IQ and SNR data directories, skips
// files recorded in the tracking file by earlier runs, and sends every
// new file to the channel configured for its category: a short text
// notice first, then the file as an attachment. Successfully sent
// files are added to the tracking file; failed ones are retried by the
// next run.
//
// Configuration comes from defaults, an optional YAML file, a .env
// file, the process environment and flags, in increasing precedence.
// The bot token is read from DISCORD_TOKEN or DISCORD_TOKEN_FILE.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/time/rate"

	"github.com/sdrshell/uploader/lib/category"
	"github.com/sdrshell/uploader/lib/config"
	"github.com/sdrshell/uploader/lib/tracking"
	"github.com/sdrshell/uploader/lib/upload"
	"github.com/sdrshell/uploader/lib/version"
	"github.com/sdrshell/uploader/messaging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

// options holds the parsed command line.
type options struct {
	load     config.LoadOptions
	selector string
	dryRun   bool
	verbose  bool
}

// usageError is a malformed command line. It exits with status 2.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }
func (e *usageError) ExitCode() int { return 2 }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// errHelpShown ends run without error after --help or --version.
var errHelpShown = errors.New("help shown")

func parseArgs(args []string, stdout io.Writer) (*options, error) {
	var parsed options
	var showVersion bool

	flagSet := pflag.NewFlagSet("sdr-upload", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&parsed.load.ConfigFile, "config", "", "YAML configuration file (default $"+config.EnvConfigFile+")")
	flagSet.StringVar(&parsed.load.EnvFile, "env-file", "", "dotenv file to read (default "+config.DefaultEnvFile+" if present)")
	flagSet.StringVar(&parsed.load.DataDir, "data-dir", "", "directory holding spectrum_logs/, iq_samples/ and snr_logs/")
	flagSet.StringVar(&parsed.load.TrackingFile, "tracking-file", "", "JSON list of already uploaded files")
	flagSet.BoolVar(&parsed.dryRun, "dry-run", false, "list the files that would be uploaded without sending anything")
	flagSet.BoolVarP(&parsed.verbose, "verbose", "v", false, "enable debug logging")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stdout, flagSet)
			return nil, errHelpShown
		}
		return nil, usagef("%w", err)
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stdout, flagSet)
		return nil, errHelpShown
	}
	if showVersion {
		version.Print(stdout, "sdr-upload")
		return nil, errHelpShown
	}

	positional := flagSet.Args()
	switch len(positional) {
	case 0:
		parsed.selector = category.SelectAll
	case 1:
		parsed.selector = positional[0]
	default:
		return nil, usagef("expected at most one category, got %d arguments", len(positional))
	}
	return &parsed, nil
}

func printHelp(writer io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(writer, `Upload new SDR data files to Discord.

Usage:
  sdr-upload [flags] [%s]

The category selects which data directory to process; the default is
all of them. Files already listed in the tracking file are skipped.

Environment:
  %s, %s
  %s, %s, %s
  %s, %s, %s

Flags:
`, category.Selectors(),
		config.EnvToken, config.EnvTokenFile,
		config.EnvSpectrumID, config.EnvIQID, config.EnvSNRID,
		config.EnvConfigFile, config.EnvDataDir, config.EnvTrackingFile)
	flagSet.SetOutput(writer)
	flagSet.PrintDefaults()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	parsed, err := parseArgs(args, stdout)
	if err != nil {
		if errors.Is(err, errHelpShown) {
			return nil
		}
		return err
	}

	categories, err := category.ParseSelector(parsed.selector)
	if err != nil {
		return usagef("%w", err)
	}

	cfg, err := config.Load(parsed.load)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, parsed.verbose)
	return runPass(ctx, cfg, categories, parsed.dryRun, logger)
}

// targets pairs the selected categories with their configured channels.
func targets(cfg *config.Config, categories []category.Category) ([]upload.Target, error) {
	result := make([]upload.Target, 0, len(categories))
	for _, cat := range categories {
		definition, ok := category.Lookup(cat)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", cat)
		}
		channelID, ok := cfg.ChannelID(cat)
		if !ok {
			return nil, fmt.Errorf("no channel configured for %s", cat)
		}
		result = append(result, upload.Target{Definition: definition, ChannelID: channelID})
	}
	return result, nil
}

// runPass connects to Discord, runs one pass and closes the session.
func runPass(ctx context.Context, cfg *config.Config, categories []category.Category, dryRun bool, logger *slog.Logger) error {
	plan, err := targets(cfg, categories)
	if err != nil {
		return err
	}

	client, err := messaging.NewClient(messaging.ClientConfig{
		BaseURL:    cfg.APIURL,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout},
		RateLimit:  rate.Limit(cfg.RateLimit),
		RateBurst:  cfg.RateBurst,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	token, err := cfg.OpenToken()
	if err != nil {
		return err
	}
	session, err := client.Connect(ctx, token)
	if err != nil {
		return err
	}
	defer session.Close()

	dispatcher, err := upload.NewDispatcher(upload.DispatcherConfig{
		Session:           session,
		Store:             tracking.NewStore(cfg.TrackingFile),
		MaxAttachmentSize: cfg.MaxAttachmentSize,
		DryRun:            dryRun,
		Logger:            logger,
	})
	if err != nil {
		return err
	}
	controller, err := upload.NewController(upload.ControllerConfig{
		Session:    session,
		Dispatcher: dispatcher,
		DataDir:    cfg.DataDir,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	_, err = controller.Run(ctx, plan)
	return err
}
