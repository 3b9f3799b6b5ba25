// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package checksum

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/bureau-foundation/mktorrent/lib/digest"
	"github.com/bureau-foundation/mktorrent/lib/merkle"
	"github.com/bureau-foundation/mktorrent/lib/metainfo"
)

// DefaultMinBatchBytes is the default amount of file data handed to a
// worker at a time.
const DefaultMinBatchBytes = 128 << 20

// Options tunes FileParallel. The zero value uses the defaults.
type Options struct {
	// Workers bounds the number of pieces hashed concurrently. If zero
	// or negative, defaults to runtime.GOMAXPROCS(0).
	Workers int

	// MinBatchBytes is the minimum amount of data a worker hashes per
	// dispatch, rounded down to whole pieces with at least one piece
	// per batch. Batching only affects throughput, never the result.
	// If zero or negative, defaults to DefaultMinBatchBytes.
	MinBatchBytes int64

	// Progress, if set, is called with the number of bytes hashed as
	// each piece completes. It is called from multiple goroutines.
	Progress func(bytes int64)

	// Logger receives debug messages about work distribution. If nil,
	// a no-op logger is used.
	Logger *slog.Logger
}

// FileParallel hashes a file of known length from a random-access
// source, distributing pieces across a worker pool. The result is
// identical to File over the same bytes.
//
// Files with at most one piece are hashed sequentially: they have no
// parallelism to exploit and carry the single-piece edge cases.
//
// Every piece must read back exactly its expected length, since piece
// ranges are computed from the declared length up front. A piece that
// reads short or long fails with an error wrapping io.ErrUnexpectedEOF.
// The first error from any worker stops the remaining work and is
// returned; no partial result is produced.
func FileParallel(pieceLength metainfo.PieceLength, source io.ReaderAt, length int64, options Options) (metainfo.File, []digest.Digest, error) {
	if length < 0 {
		return metainfo.File{}, nil, fmt.Errorf("negative file length %d", length)
	}

	pieceBytes := pieceLength.Bytes()
	pieceCount := length / pieceBytes
	if length%pieceBytes != 0 {
		pieceCount++
	}

	if pieceCount <= 1 {
		var reader io.Reader = io.NewSectionReader(source, 0, length)
		if options.Progress != nil {
			reader = &progressReader{reader: reader, report: options.Progress}
		}
		file, pieces, err := File(pieceLength, reader)
		if err != nil {
			return metainfo.File{}, nil, err
		}
		if file.Length != length {
			return metainfo.File{}, nil, fmt.Errorf("read %d bytes, want %d: %w", file.Length, length, io.ErrUnexpectedEOF)
		}
		return file, pieces, nil
	}

	workers := options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	minBatchBytes := options.MinBatchBytes
	if minBatchBytes <= 0 {
		minBatchBytes = DefaultMinBatchBytes
	}
	batchPieces := max(minBatchBytes/pieceBytes, 1)

	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Debug("hashing pieces in parallel",
		"length", length,
		"pieces", pieceCount,
		"batch_pieces", batchPieces,
		"workers", workers,
	)

	layout := pieceLayout{
		pieceLength: pieceLength,
		length:      length,
		pieceCount:  pieceCount,
	}
	pieces := make([]digest.Digest, pieceCount)

	group, ctx := errgroup.WithContext(context.Background())
	group.SetLimit(workers)
	for start := int64(0); start < pieceCount; start += batchPieces {
		if ctx.Err() != nil {
			break
		}
		end := min(start+batchPieces, pieceCount)
		group.Go(func() error {
			return layout.hashRange(ctx, source, start, end, pieces, options.Progress)
		})
	}
	if err := group.Wait(); err != nil {
		return metainfo.File{}, nil, err
	}

	file := metainfo.File{
		Length:     length,
		PiecesRoot: merkle.Root(pieceLength.Layers(), pieces),
	}
	return file, pieces, nil
}

// pieceLayout maps piece indexes to byte ranges of a file.
type pieceLayout struct {
	pieceLength metainfo.PieceLength
	length      int64
	pieceCount  int64
}

// expectedLength returns the byte length of piece index: a full piece,
// except the final piece which holds the remainder.
func (l pieceLayout) expectedLength(index int64) int64 {
	pieceBytes := l.pieceLength.Bytes()
	if index == l.pieceCount-1 && l.length%pieceBytes != 0 {
		return l.length % pieceBytes
	}
	return pieceBytes
}

// hashRange hashes pieces [start, end) into pieces[start:end]. Each
// slot is written by exactly one worker.
func (l pieceLayout) hashRange(ctx context.Context, source io.ReaderAt, start, end int64, pieces []digest.Digest, progress func(int64)) error {
	pieceBytes := l.pieceLength.Bytes()
	hasher := NewPieceHasher(l.pieceLength)
	buffer := make([]byte, min(readBufferSize, pieceBytes))

	for index := start; index < end; index++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		section := io.NewSectionReader(source, index*pieceBytes, pieceBytes)
		n, err := io.CopyBuffer(hasher, section, buffer)
		if err != nil {
			return fmt.Errorf("reading piece %d: %w", index, err)
		}
		if expected := l.expectedLength(index); n != expected {
			return fmt.Errorf("piece %d: read %d bytes, want %d: %w", index, n, expected, io.ErrUnexpectedEOF)
		}

		pieces[index] = hasher.Finish()
		if progress != nil {
			progress(n)
		}
	}
	return nil
}

// progressReader reports the size of every successful read.
type progressReader struct {
	reader io.Reader
	report func(int64)
}

func (r *progressReader) Read(buffer []byte) (int, error) {
	n, err := r.reader.Read(buffer)
	if n > 0 {
		r.report(int64(n))
	}
	return n, err
}
