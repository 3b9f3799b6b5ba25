// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/mktorrent/lib/codec"
	"github.com/bureau-foundation/mktorrent/lib/digest"
	"github.com/bureau-foundation/mktorrent/lib/version"
)

// reportVersion is bumped when a field changes meaning.
const reportVersion = 1

// buildReport is the CBOR record written by --report.
type buildReport struct {
	Version             int            `cbor:"version"`
	CreatedBy           string         `cbor:"created_by"`
	Name                string         `cbor:"name"`
	PieceLength         int64          `cbor:"piece_length"`
	Files               []reportedFile `cbor:"files"`
	TotalBytes          int64          `cbor:"total_bytes"`
	ElapsedMilliseconds int64          `cbor:"elapsed_ms"`
	TorrentSHA256       digest.Digest  `cbor:"torrent_sha256"`
}

type reportedFile struct {
	Path       string        `cbor:"path"`
	Length     int64         `cbor:"length"`
	PiecesRoot digest.Digest `cbor:"pieces_root"`
	Pieces     int64         `cbor:"pieces"`
}

func newBuildReport(result *buildResult, encoded []byte) buildReport {
	files := make([]reportedFile, len(result.Files))
	for i, file := range result.Files {
		files[i] = reportedFile(file)
	}
	return buildReport{
		Version:             reportVersion,
		CreatedBy:           version.CreatedBy(),
		Name:                result.Torrent.Info.Name,
		PieceLength:         result.Torrent.Info.PieceLength.Bytes(),
		Files:               files,
		TotalBytes:          result.TotalBytes,
		ElapsedMilliseconds: result.Elapsed.Milliseconds(),
		TorrentSHA256:       digest.Sum(encoded),
	}
}

// writeReport encodes report and writes it to path.
func writeReport(path string, report buildReport) error {
	data, err := codec.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding build report: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("writing build report: %w", err)
	}
	return nil
}

// writeFileAtomic writes data to a temporary file next to path and
// renames it into place, so readers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		tmpFile.Close()
		return fmt.Errorf("setting mode of %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming to %s: %w", path, err)
	}

	success = true
	return nil
}
