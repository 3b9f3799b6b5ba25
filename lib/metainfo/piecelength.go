// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package metainfo

import (
	"errors"
	"fmt"
	"math/bits"
)

// BlockSizeExponent is log2 of the 16 KiB block size. A piece length
// exponent below it is invalid.
const BlockSizeExponent = 14

// Valid piece length exponents, inclusive. The lower bound is the block
// size; the upper bound keeps a piece addressable and the per-piece
// merkle tree shallow.
const (
	MinPieceLengthExponent = BlockSizeExponent
	MaxPieceLengthExponent = 40
)

// ErrInvalidPieceLength is returned for piece lengths that are not a
// power of two within [MinPieceLengthExponent, MaxPieceLengthExponent].
var ErrInvalidPieceLength = errors.New("invalid piece length")

// PieceLength is the piece size of a v2 torrent, stored as the number
// of merkle layers between a 16 KiB block and a full piece. A piece is
// 16384 << Layers() bytes. The zero value is a 16 KiB piece.
type PieceLength struct {
	layers uint8
}

// PieceLengthFromExponent returns the piece length of 2^exponent bytes.
func PieceLengthFromExponent(exponent int) (PieceLength, error) {
	if exponent < MinPieceLengthExponent || exponent > MaxPieceLengthExponent {
		return PieceLength{}, fmt.Errorf("%w: exponent %d outside [%d, %d]",
			ErrInvalidPieceLength, exponent, MinPieceLengthExponent, MaxPieceLengthExponent)
	}
	return PieceLength{layers: uint8(exponent - BlockSizeExponent)}, nil
}

// PieceLengthFromBytes returns the piece length of n bytes. n must be a
// power of two in the valid exponent range.
func PieceLengthFromBytes(n int64) (PieceLength, error) {
	if n <= 0 || n&(n-1) != 0 {
		return PieceLength{}, fmt.Errorf("%w: %d is not a power of two", ErrInvalidPieceLength, n)
	}
	return PieceLengthFromExponent(bits.TrailingZeros64(uint64(n)))
}

// Layers returns the number of merkle layers between a block and a
// full piece.
func (p PieceLength) Layers() uint8 {
	return p.layers
}

// Exponent returns log2 of the piece size in bytes.
func (p PieceLength) Exponent() int {
	return int(p.layers) + BlockSizeExponent
}

// Bytes returns the piece size in bytes.
func (p PieceLength) Bytes() int64 {
	return 1 << p.Exponent()
}

// BlocksPerPiece returns the number of 16 KiB blocks in a full piece.
func (p PieceLength) BlocksPerPiece() int64 {
	return 1 << p.layers
}

// String returns the piece size in bytes.
func (p PieceLength) String() string {
	return fmt.Sprintf("%d", p.Bytes())
}
