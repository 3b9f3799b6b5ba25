// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package checksum

import (
	"errors"
	"testing"

	anacrolixmerkle "github.com/anacrolix/torrent/merkle"

	"github.com/bureau-foundation/mktorrent/lib/digest"
	"github.com/bureau-foundation/mktorrent/lib/merkle"
	"github.com/bureau-foundation/mktorrent/lib/metainfo"
	"github.com/bureau-foundation/mktorrent/lib/testutil"
)

func pieceLength(t *testing.T, bytes int64) metainfo.PieceLength {
	t.Helper()
	length, err := metainfo.PieceLengthFromBytes(bytes)
	if err != nil {
		t.Fatalf("PieceLengthFromBytes(%d): %v", bytes, err)
	}
	return length
}

// referencePieceDigest hashes a piece's blocks and builds its tree
// with a fresh accumulator.
func referencePieceDigest(data []byte, layers uint8) digest.Digest {
	var tree merkle.Accumulator
	for start := 0; start < len(data); start += BlockSize {
		end := min(start+BlockSize, len(data))
		tree.Add(digest.Sum(data[start:end]))
	}
	root, ok := tree.FinishLayer(digest.Zero, layers)
	if !ok {
		panic("reference piece does not fit its layer")
	}
	return root
}

func TestPieceHasherSingleBlock(t *testing.T) {
	hasher := NewPieceHasher(pieceLength(t, 16<<10))
	hasher.Write([]byte("test"))
	if got, want := hasher.Finish(), digest.Sum([]byte("test")); got != want {
		t.Errorf("single-block piece = %x, want SHA256(test) %x", got, want)
	}
}

func TestPieceHasherWriteGranularity(t *testing.T) {
	length := pieceLength(t, 64<<10)
	data := testutil.PatternBytes(64<<10-100, 3)
	want := referencePieceDigest(data, length.Layers())

	for _, chunk := range []int{1, 7, 1000, BlockSize - 1, BlockSize, BlockSize + 1, len(data)} {
		hasher := NewPieceHasher(length)
		for start := 0; start < len(data); start += chunk {
			end := min(start+chunk, len(data))
			if _, err := hasher.Write(data[start:end]); err != nil {
				t.Fatalf("Write: %v", err)
			}
		}
		if hasher.Written() != int64(len(data)) {
			t.Errorf("Written() = %d, want %d", hasher.Written(), len(data))
		}
		if got := hasher.Finish(); got != want {
			t.Errorf("chunk size %d: piece digest = %x, want %x", chunk, got, want)
		}
	}
}

func TestPieceHasherFullPieceMatchesIndependentImplementation(t *testing.T) {
	for _, bytes := range []int64{16 << 10, 32 << 10, 256 << 10} {
		data := testutil.PatternBytes(int(bytes), 9)

		hasher := NewPieceHasher(pieceLength(t, bytes))
		hasher.Write(data)
		got := hasher.Finish()

		independent := anacrolixmerkle.NewHash()
		independent.Write(data)
		var want digest.Digest
		copy(want[:], independent.Sum(nil))

		if got != want {
			t.Errorf("%d-byte piece = %x, anacrolix = %x", bytes, got, want)
		}
	}
}

func TestFinishFirstPieceDiffersFromFinish(t *testing.T) {
	length := pieceLength(t, 64<<10)
	data := testutil.PatternBytes(BlockSize+10, 4)

	hasher := NewPieceHasher(length)
	hasher.Write(data)
	first := hasher.FinishFirstPiece()

	hasher.Write(data)
	full := hasher.Finish()

	if first == full {
		t.Fatal("FinishFirstPiece and Finish agree on a sub-piece input")
	}

	left := digest.Sum(data[:BlockSize])
	right := digest.Sum(data[BlockSize:])
	if want := merkle.Root(0, []digest.Digest{left, right}); first != want {
		t.Errorf("FinishFirstPiece = %x, want tree of two blocks %x", first, want)
	}
	if want := referencePieceDigest(data, length.Layers()); full != want {
		t.Errorf("Finish = %x, want four-leaf tree %x", full, want)
	}
}

func TestFinishFirstPieceEmpty(t *testing.T) {
	hasher := NewPieceHasher(pieceLength(t, 32<<10))
	if got := hasher.FinishFirstPiece(); got != digest.Zero {
		t.Errorf("FinishFirstPiece with no data = %x, want zero", got)
	}
}

func TestPieceHasherOverflow(t *testing.T) {
	hasher := NewPieceHasher(pieceLength(t, 16<<10))
	if _, err := hasher.Write(make([]byte, 16<<10-1)); err != nil {
		t.Fatalf("Write within piece: %v", err)
	}
	n, err := hasher.Write(make([]byte, 2))
	if !errors.Is(err, ErrPieceOverflow) {
		t.Fatalf("Write past piece error = %v, want ErrPieceOverflow", err)
	}
	if n != 0 {
		t.Errorf("Write past piece consumed %d bytes, want 0", n)
	}
	if hasher.Written() != 16<<10-1 {
		t.Errorf("Written() after rejected write = %d", hasher.Written())
	}
	if _, err := hasher.Write(make([]byte, 1)); err != nil {
		t.Errorf("Write filling the piece exactly: %v", err)
	}
}

func TestPieceHasherResetIsIdempotent(t *testing.T) {
	length := pieceLength(t, 32<<10)
	data := testutil.PatternBytes(20000, 5)

	fresh := NewPieceHasher(length)
	fresh.Write(data)
	want := fresh.Finish()

	reused := NewPieceHasher(length)
	reused.Write(testutil.PatternBytes(30000, 6))
	reused.Finish()
	reused.Write([]byte("abandoned partial block"))
	reused.Reset()
	reused.Write(data)
	if got := reused.Finish(); got != want {
		t.Errorf("reused hasher = %x, fresh hasher = %x", got, want)
	}
}
