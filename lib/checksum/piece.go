// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package checksum

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/mktorrent/lib/digest"
	"github.com/bureau-foundation/mktorrent/lib/merkle"
	"github.com/bureau-foundation/mktorrent/lib/metainfo"
)

// BlockSize is the BEP 52 leaf size: every piece is a merkle tree over
// blocks of this many bytes.
const BlockSize = 16 << 10

// ErrPieceOverflow is returned by PieceHasher.Write when the data would
// exceed one piece.
var ErrPieceOverflow = errors.New("piece overflow")

// PieceHasher computes the digest of a single piece. Write the piece's
// bytes, then call Finish (complete-shape piece) or FinishFirstPiece
// (the sole piece of a file shorter than one piece). Both reset the
// hasher for the next piece.
type PieceHasher struct {
	pieceLength metainfo.PieceLength
	block       *digest.Hasher
	blockFill   int
	written     int64
	tree        merkle.Accumulator
}

// NewPieceHasher returns a hasher for pieces of the given length.
func NewPieceHasher(pieceLength metainfo.PieceLength) *PieceHasher {
	return &PieceHasher{
		pieceLength: pieceLength,
		block:       digest.NewHasher(),
	}
}

// Write adds piece bytes. Block boundaries fall every BlockSize bytes
// counted from the start of the piece, regardless of how the data is
// split across calls. Writing past the piece length consumes nothing
// and returns ErrPieceOverflow.
func (h *PieceHasher) Write(data []byte) (int, error) {
	if remaining := h.pieceLength.Bytes() - h.written; int64(len(data)) > remaining {
		return 0, fmt.Errorf("%w: %d bytes written, %d more exceeds %d",
			ErrPieceOverflow, h.written, len(data), h.pieceLength.Bytes())
	}

	written := len(data)
	for len(data) > 0 {
		n := min(BlockSize-h.blockFill, len(data))
		h.block.Write(data[:n])
		h.blockFill += n
		data = data[n:]
		if h.blockFill == BlockSize {
			h.finishBlock()
		}
	}
	h.written += int64(written)
	return written, nil
}

// Written returns the number of bytes written since the last reset.
func (h *PieceHasher) Written() int64 {
	return h.written
}

// finishBlock feeds the digest of a partially or fully written block
// into the piece tree. No-op at a block boundary.
func (h *PieceHasher) finishBlock() {
	if h.blockFill == 0 {
		return
	}
	h.blockFill = 0
	h.tree.Add(h.block.Finish())
}

// Finish returns the digest of a piece padded to the full piece shape:
// 2^layers leaves, missing blocks taken as zero. This is the digest of
// every piece of a file at least one piece long, including a short
// final piece.
func (h *PieceHasher) Finish() digest.Digest {
	h.finishBlock()
	root, ok := h.tree.FinishLayer(digest.Zero, h.pieceLength.Layers())
	if !ok {
		// Write refuses more than one piece, so the blocks always fit.
		panic(fmt.Sprintf("checksum: %d bytes do not fit a %d-byte piece", h.written, h.pieceLength.Bytes()))
	}
	h.Reset()
	return root
}

// FinishFirstPiece returns the digest of a file's only, incomplete
// piece. The block tree is padded only to the next power of two, and
// the result is the file's pieces root directly.
func (h *PieceHasher) FinishFirstPiece() digest.Digest {
	h.finishBlock()
	root := h.tree.FinishTree(digest.Zero)
	h.Reset()
	return root
}

// Reset discards any bytes written since the last finish.
func (h *PieceHasher) Reset() {
	h.block.Reset()
	h.blockFill = 0
	h.written = 0
	h.tree.Reset()
}
