// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package checksum

import (
	"fmt"
	"io"

	"github.com/bureau-foundation/mktorrent/lib/digest"
	"github.com/bureau-foundation/mktorrent/lib/merkle"
	"github.com/bureau-foundation/mktorrent/lib/metainfo"
)

// readBufferSize is the copy buffer used when streaming a piece into a
// PieceHasher.
const readBufferSize = 1 << 20

// File hashes r from start to end, one piece at a time, and returns the
// file metainfo together with its piece digests. The digest list is
// nil unless the file has more than one piece.
func File(pieceLength metainfo.PieceLength, r io.Reader) (metainfo.File, []digest.Digest, error) {
	pieceBytes := pieceLength.Bytes()
	hasher := NewPieceHasher(pieceLength)
	buffer := make([]byte, readBufferSize)

	n, err := readPiece(hasher, r, pieceBytes, buffer)
	if err != nil {
		return metainfo.File{}, nil, err
	}
	switch {
	case n == 0:
		return metainfo.File{}, nil, nil
	case n < pieceBytes:
		return metainfo.File{Length: n, PiecesRoot: hasher.FinishFirstPiece()}, nil, nil
	}

	length := n
	pieces := []digest.Digest{hasher.Finish()}
	for {
		n, err := readPiece(hasher, r, pieceBytes, buffer)
		if err != nil {
			return metainfo.File{}, nil, err
		}
		if n == 0 {
			break
		}
		length += n
		pieces = append(pieces, hasher.Finish())
		if n < pieceBytes {
			// A short piece is the end of the file. Reading on could
			// return more data, but it would not be piece-aligned.
			break
		}
	}

	file := metainfo.File{
		Length:     length,
		PiecesRoot: merkle.Root(pieceLength.Layers(), pieces),
	}
	if len(pieces) == 1 {
		return file, nil, nil
	}
	return file, pieces, nil
}

// readPiece copies up to limit bytes of r into hasher. End of input is
// not an error; the short count signals it.
func readPiece(hasher *PieceHasher, r io.Reader, limit int64, buffer []byte) (int64, error) {
	n, err := io.CopyBuffer(hasher, io.LimitReader(r, limit), buffer)
	if err != nil {
		return n, fmt.Errorf("reading piece: %w", err)
	}
	return n, nil
}

// FileHasher computes file metainfo from data pushed through Write. Any
// split of the input into writes gives the same result as File over the
// concatenated bytes. Finish returns the result and resets the hasher.
type FileHasher struct {
	pieceLength metainfo.PieceLength
	piece       *PieceHasher
	length      int64
	pieces      []digest.Digest
}

// NewFileHasher returns a FileHasher for the given piece length.
func NewFileHasher(pieceLength metainfo.PieceLength) *FileHasher {
	return &FileHasher{
		pieceLength: pieceLength,
		piece:       NewPieceHasher(pieceLength),
	}
}

// Write hashes data. It never returns an error.
func (h *FileHasher) Write(data []byte) (int, error) {
	written := len(data)
	pieceBytes := h.pieceLength.Bytes()
	for len(data) > 0 {
		n := int(min(int64(len(data)), pieceBytes-h.piece.Written()))
		h.piece.Write(data[:n])
		data = data[n:]
		if h.piece.Written() == pieceBytes {
			h.pieces = append(h.pieces, h.piece.Finish())
		}
	}
	h.length += int64(written)
	return written, nil
}

// Length returns the number of bytes written since the last reset.
func (h *FileHasher) Length() int64 {
	return h.length
}

// Finish returns the file metainfo and, for files with more than one
// piece, the piece digests. The hasher is reset.
func (h *FileHasher) Finish() (metainfo.File, []digest.Digest) {
	defer h.Reset()

	if h.piece.Written() > 0 {
		if len(h.pieces) == 0 {
			return metainfo.File{Length: h.length, PiecesRoot: h.piece.FinishFirstPiece()}, nil
		}
		h.pieces = append(h.pieces, h.piece.Finish())
	}

	switch len(h.pieces) {
	case 0:
		return metainfo.File{}, nil
	case 1:
		return metainfo.File{Length: h.length, PiecesRoot: h.pieces[0]}, nil
	}

	file := metainfo.File{
		Length:     h.length,
		PiecesRoot: merkle.Root(h.pieceLength.Layers(), h.pieces),
	}
	return file, h.pieces
}

// Reset discards all input.
func (h *FileHasher) Reset() {
	h.piece.Reset()
	h.length = 0
	// The returned slice belongs to the caller now.
	h.pieces = nil
}
