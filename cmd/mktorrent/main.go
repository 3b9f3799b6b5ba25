// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// mktorrent creates BitTorrent v2 (BEP 52) torrent files.
//
// It walks a file or directory, hashes every file into its per-file
// merkle tree, and writes the bencoded torrent to standard output or
// to --output. Multi-piece files are hashed piece-parallel; --sequential
// streams them instead. The torrent is written only after every file
// has been hashed and the result encoded, so a failed run leaves no
// partial output behind.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/mktorrent/lib/clock"
	"github.com/bureau-foundation/mktorrent/lib/config"
	"github.com/bureau-foundation/mktorrent/lib/metainfo"
	"github.com/bureau-foundation/mktorrent/lib/process"
	"github.com/bureau-foundation/mktorrent/lib/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, clock.Real()); err != nil {
		process.Exit(err, exitCode(err))
	}
}

// flags holds the raw command-line values before they are merged with
// the config file.
type flags struct {
	announce            string
	pieceLengthExponent int
	name                string
	output              string
	workers             int
	minBatchBytes       int64
	sequential          bool
	progress            string
	report              string
	verify              bool
	configPath          string
	logLevel            string
}

func run(args []string, stdout, stderr io.Writer, wallClock clock.Clock) error {
	var values flags

	flagSet := pflag.NewFlagSet("mktorrent", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&values.announce, "announce", "", "tracker announce URL")
	flagSet.IntVar(&values.pieceLengthExponent, "piece-length", 0, "log2 of the piece length in bytes (14 = 16 KiB through 40)")
	flagSet.StringVar(&values.name, "name", "", "torrent name (default: base name of ROOT)")
	flagSet.StringVarP(&values.output, "output", "o", "", "write the torrent to this file instead of stdout")
	flagSet.IntVar(&values.workers, "workers", 0, "pieces hashed concurrently (default: number of CPUs)")
	flagSet.Int64Var(&values.minBatchBytes, "min-batch-bytes", 0, "smallest amount of data handed to a worker (default: 128 MiB)")
	flagSet.BoolVar(&values.sequential, "sequential", false, "stream each file through a single hasher")
	flagSet.StringVar(&values.progress, "progress", "", "progress bar: auto, always, never (default: auto)")
	flagSet.StringVar(&values.report, "report", "", "write a CBOR build report to this file")
	flagSet.BoolVar(&values.verify, "verify", false, "decode and validate the torrent before writing it")
	flagSet.StringVar(&values.configPath, "config", "", "YAML config file (default: $"+config.EnvironmentVariable+")")
	flagSet.StringVar(&values.logLevel, "log-level", "", "debug, info, warn, error (default: warn)")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing so it works with otherwise
	// incomplete command lines.
	if len(args) > 0 && args[0] == "--version" {
		fmt.Fprintln(stdout, version.Full())
		return nil
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return Validation("%w", err).WithHint("Run 'mktorrent --help' for usage.")
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}

	positional := flagSet.Args()
	if len(positional) != 1 {
		return Validation("expected exactly one ROOT argument, got %d", len(positional)).
			WithHint("Run 'mktorrent --help' for usage.")
	}
	root := positional[0]
	if values.name != "" && !utf8.ValidString(values.name) {
		return Validation("--name %q is not valid UTF-8", values.name)
	}

	cfg, err := loadConfig(values.configPath)
	if err != nil {
		return Validation("%w", err)
	}
	mergeFlags(cfg, flagSet, values)
	if err := cfg.Validate(); err != nil {
		return Validation("%w", err)
	}

	logger := newLogger(stderr, cfg.LogLevel)

	if cfg.Announce == "" {
		return Validation("an announce URL is required").
			WithHint("Pass --announce or set announce in the config file.")
	}
	if cfg.PieceLengthExponent == 0 {
		return Validation("a piece length is required").
			WithHint("Pass --piece-length 18 for 256 KiB pieces, or set piece_length_exponent in the config file.")
	}
	pieceLength, err := metainfo.PieceLengthFromExponent(cfg.PieceLengthExponent)
	if err != nil {
		return classify(err)
	}

	options := buildConfig{
		Root:          root,
		Name:          values.name,
		Announce:      cfg.Announce,
		PieceLength:   pieceLength,
		Workers:       cfg.Workers,
		MinBatchBytes: cfg.MinBatchBytes,
		Sequential:    values.sequential,
		Logger:        logger,
		Clock:         wallClock,
	}
	if showProgress(cfg.Progress, stderr) {
		options.ProgressOutput = stderr
	}

	result, err := build(options)
	if err != nil {
		return classify(err)
	}

	encoded, err := result.Torrent.Marshal()
	if err != nil {
		return classify(fmt.Errorf("encoding torrent: %w", err))
	}

	if values.verify {
		if err := metainfo.Verify(encoded); err != nil {
			return Internal("generated torrent failed verification: %w", err)
		}
		logger.Info("torrent verified", "bytes", len(encoded))
	}

	if values.output != "" {
		if err := writeFileAtomic(values.output, encoded); err != nil {
			return Internal("writing torrent: %w", err)
		}
	} else if _, err := stdout.Write(encoded); err != nil {
		return Internal("writing torrent: %w", err)
	}

	if cfg.Report != "" {
		if err := writeReport(cfg.Report, newBuildReport(result, encoded)); err != nil {
			return Internal("%w", err)
		}
	}
	return nil
}

// loadConfig reads the file named by --config, falling back to
// MKTORRENT_CONFIG, falling back to defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// mergeFlags overrides config values with every flag given explicitly.
func mergeFlags(cfg *config.Config, flagSet *pflag.FlagSet, values flags) {
	if flagSet.Changed("announce") {
		cfg.Announce = values.announce
	}
	if flagSet.Changed("piece-length") {
		cfg.PieceLengthExponent = values.pieceLengthExponent
	}
	if flagSet.Changed("workers") {
		cfg.Workers = values.workers
	}
	if flagSet.Changed("min-batch-bytes") {
		cfg.MinBatchBytes = values.minBatchBytes
	}
	if flagSet.Changed("progress") {
		cfg.Progress = config.ProgressMode(values.progress)
	}
	if flagSet.Changed("report") {
		cfg.Report = values.report
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = values.logLevel
	}
}

// newLogger returns a text logger on output at the named level. The
// level has already been validated.
func newLogger(output io.Writer, level string) *slog.Logger {
	var parsed slog.Level
	if err := parsed.UnmarshalText([]byte(level)); err != nil {
		parsed = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: parsed}))
}

// showProgress decides whether to draw the progress bar on output.
func showProgress(mode config.ProgressMode, output io.Writer) bool {
	switch mode {
	case config.ProgressAlways:
		return true
	case config.ProgressNever:
		return false
	}
	file, ok := output.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func printHelp(output io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(output, `mktorrent: create a BitTorrent v2 torrent file.

Usage:
  mktorrent --announce URL --piece-length EXPONENT [flags] ROOT

ROOT is a file or a directory. The torrent is written to stdout unless
--output is given. The piece length is 2^EXPONENT bytes: 14 is 16 KiB,
18 is 256 KiB, 20 is 1 MiB.

Flags may also be set in a YAML config file named by --config or the
%s environment variable; flags take precedence.

Exit status is 0 on success, 2 for invalid input, 3 for conflicting
file paths and 1 for any other failure.

Examples:
  # Single file, 256 KiB pieces
  mktorrent --announce http://tracker.example.com/announce --piece-length 18 movie.mkv > movie.torrent

  # Directory, written to a file with a build report
  mktorrent --announce udp://tracker.example.org:6969 --piece-length 20 \
      -o album.torrent --report album.cbor --verify album/

Flags:
`, config.EnvironmentVariable)
	flagSet.SetOutput(output)
	flagSet.PrintDefaults()
}
