// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/bureau-foundation/mktorrent/lib/checksum"
	"github.com/bureau-foundation/mktorrent/lib/clock"
	"github.com/bureau-foundation/mktorrent/lib/digest"
	"github.com/bureau-foundation/mktorrent/lib/fileset"
	"github.com/bureau-foundation/mktorrent/lib/metainfo"
	"github.com/bureau-foundation/mktorrent/lib/progress"
)

// buildConfig is everything needed to turn a file or directory into a
// torrent.
type buildConfig struct {
	Root          string
	Name          string
	Announce      string
	PieceLength   metainfo.PieceLength
	Workers       int
	MinBatchBytes int64
	Sequential    bool

	// ProgressOutput, if non-nil, receives a progress bar.
	ProgressOutput io.Writer

	Logger *slog.Logger
	Clock  clock.Clock
}

// builtFile records one hashed file for logs and the build report.
type builtFile struct {
	Path       string
	Length     int64
	PiecesRoot digest.Digest
	Pieces     int64
}

// buildResult is a complete torrent plus what went into it.
type buildResult struct {
	Torrent    *metainfo.Torrent
	Files      []builtFile
	TotalBytes int64
	Elapsed    time.Duration
}

// build walks the root, hashes every file and assembles the torrent.
// Nothing is returned on failure: the first error ends the build.
func build(config buildConfig) (*buildResult, error) {
	start := config.Clock.Now()

	entries, err := fileset.Walk(config.Root)
	if err != nil {
		return nil, err
	}

	name := config.Name
	if name == "" {
		name, err = fileset.TorrentName(config.Root)
		if err != nil {
			return nil, err
		}
	}

	info, err := os.Stat(config.Root)
	if err != nil {
		return nil, err
	}
	singleFile := !info.IsDir()

	var totalBytes int64
	for _, entry := range entries {
		totalBytes += entry.Length
	}
	config.Logger.Info("building torrent",
		"root", config.Root,
		"name", name,
		"files", len(entries),
		"total", humanize.IBytes(uint64(totalBytes)),
		"piece_length", config.PieceLength.String(),
	)

	var bar *progress.Bar
	if config.ProgressOutput != nil {
		bar = progress.New(progress.Config{
			Output: config.ProgressOutput,
			Total:  totalBytes,
			Label:  name,
			Clock:  config.Clock,
		})
	}

	torrent := metainfo.NewTorrent(config.Announce, name, config.PieceLength)
	result := &buildResult{Torrent: torrent, TotalBytes: totalBytes}

	for _, entry := range entries {
		diskPath := config.Root
		if !singleFile {
			diskPath = filepath.Join(config.Root, filepath.FromSlash(entry.Path))
		}

		file, pieces, err := hashFile(config, diskPath, entry.Length, bar)
		if err != nil {
			return nil, fmt.Errorf("hashing %s: %w", diskPath, err)
		}
		if err := torrent.AddFile(entry.Path, file, pieces); err != nil {
			return nil, err
		}

		pieceCount := (file.Length + config.PieceLength.Bytes() - 1) / config.PieceLength.Bytes()
		result.Files = append(result.Files, builtFile{
			Path:       entry.Path,
			Length:     file.Length,
			PiecesRoot: file.PiecesRoot,
			Pieces:     pieceCount,
		})
		config.Logger.Debug("hashed file",
			"path", entry.Path,
			"length", file.Length,
			"pieces", pieceCount,
			"pieces_root", file.PiecesRoot,
		)
	}
	bar.Finish()

	result.Elapsed = config.Clock.Now().Sub(start)
	config.Logger.Info("torrent built",
		"name", name,
		"elapsed", result.Elapsed,
	)
	return result, nil
}

// hashFile hashes one file on disk. The parallel engine reads pieces
// at their offsets; the sequential engine streams the file.
func hashFile(config buildConfig, path string, length int64, bar *progress.Bar) (metainfo.File, []digest.Digest, error) {
	source, err := os.Open(path)
	if err != nil {
		return metainfo.File{}, nil, err
	}
	defer source.Close()

	if config.Sequential {
		file, pieces, err := checksum.File(config.PieceLength, progress.NewReader(source, bar))
		if err != nil {
			return metainfo.File{}, nil, err
		}
		if file.Length != length {
			return metainfo.File{}, nil, fmt.Errorf("read %d bytes, expected %d: %w", file.Length, length, io.ErrUnexpectedEOF)
		}
		return file, pieces, nil
	}

	return checksum.FileParallel(config.PieceLength, source, length, checksum.Options{
		Workers:       config.Workers,
		MinBatchBytes: config.MinBatchBytes,
		Progress:      bar.Add,
		Logger:        config.Logger,
	})
}
