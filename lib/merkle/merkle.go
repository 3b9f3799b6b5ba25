// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package merkle

import (
	"crypto/sha256"

	"github.com/bureau-foundation/mktorrent/lib/digest"
)

// entry is the root of a completed subtree that has not yet been
// combined with a sibling.
type entry struct {
	layer  uint8
	digest digest.Digest
}

// Accumulator incrementally combines leaf digests into a merkle root.
// The zero value is an empty accumulator ready for use.
//
// Accumulator is not safe for concurrent use.
type Accumulator struct {
	stack []entry

	// combined is scratch space for left||right so combining a pair
	// does not allocate.
	combined [2 * digest.Size]byte
}

// Add appends a leaf at layer 0 and eagerly combines equal-layer
// siblings. Siblings are combined in push order (older on the left),
// never sorted.
func (a *Accumulator) Add(leaf digest.Digest) {
	a.stack = append(a.stack, entry{digest: leaf})
	for len(a.stack) >= 2 {
		top := len(a.stack) - 1
		left, right := a.stack[top-1], a.stack[top]
		if left.layer != right.layer {
			break
		}
		a.stack = a.stack[:top-1]
		a.stack = append(a.stack, entry{
			layer:  left.layer + 1,
			digest: a.combine(left.digest, right.digest),
		})
	}
}

// combine returns SHA256(left || right).
func (a *Accumulator) combine(left, right digest.Digest) digest.Digest {
	copy(a.combined[:digest.Size], left[:])
	copy(a.combined[digest.Size:], right[:])
	return sha256.Sum256(a.combined[:])
}

// CurrentLayer returns the layer of the tree's root when the leaves
// added so far form exactly one complete subtree. The second result is
// false when the stack is empty or holds more than one entry.
func (a *Accumulator) CurrentLayer() (uint8, bool) {
	if len(a.stack) != 1 {
		return 0, false
	}
	return a.stack[0].layer, true
}

// Empty reports whether no leaves have been added since the last
// reset.
func (a *Accumulator) Empty() bool {
	return len(a.stack) == 0
}

// FinishTree adds pad leaves until a single root remains, returns that
// root, and resets the accumulator.
//
// With no leaves added, FinishTree pushes a single pad and returns it.
// That value is not meaningful as the root of an empty input; callers
// hashing possibly-empty data must special-case it.
func (a *Accumulator) FinishTree(pad digest.Digest) digest.Digest {
	for len(a.stack) != 1 {
		a.Add(pad)
	}
	root := a.stack[0].digest
	a.Reset()
	return root
}

// FinishLayer adds pad leaves until the tree is a single complete
// subtree at the given layer, returns its root, and resets the
// accumulator.
//
// The oldest stack entry is the largest completed subtree. If its layer
// already exceeds layer, or equals it while other entries remain, the
// leaves cannot fit in a tree of that height: FinishLayer resets and
// returns false without padding.
func (a *Accumulator) FinishLayer(pad digest.Digest, layer uint8) (digest.Digest, bool) {
	if len(a.stack) > 0 {
		oldest := a.stack[0]
		if oldest.layer > layer || (oldest.layer == layer && len(a.stack) > 1) {
			a.Reset()
			return digest.Zero, false
		}
	}

	for {
		current, complete := a.CurrentLayer()
		if complete && current >= layer {
			break
		}
		a.Add(pad)
	}

	root := a.stack[0].digest
	a.Reset()
	return root, true
}

// Reset discards all leaves. The stack's backing array is kept for
// reuse.
func (a *Accumulator) Reset() {
	a.stack = a.stack[:0]
}

// ZeroRoot returns the root of a complete tree with 2^layer zero
// leaves. ZeroRoot(0) is the zero digest.
func ZeroRoot(layer uint8) digest.Digest {
	var accumulator Accumulator
	root := digest.Zero
	for range layer {
		root = accumulator.combine(root, root)
	}
	return root
}

// Root computes the merkle root over leaves that each summarize a
// complete subtree of the given layer. The tree is padded with
// ZeroRoot(layer), the root of a subtree whose leaves are all zero.
//
// For a file's piece layer, pass the piece length's layer count: a
// missing piece past the end of the file is a piece of zero blocks.
// With no leaves, Root returns ZeroRoot(layer).
func Root(layer uint8, leaves []digest.Digest) digest.Digest {
	var accumulator Accumulator
	for _, leaf := range leaves {
		accumulator.Add(leaf)
	}
	return accumulator.FinishTree(ZeroRoot(layer))
}
