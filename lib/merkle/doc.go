// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package merkle builds BEP 52 binary merkle trees incrementally.
//
// An [Accumulator] consumes an append-only sequence of leaf digests and
// keeps only the roots of completed subtrees on a stack of
// (layer, digest) entries. Adding a leaf works like incrementing a
// binary counter: the new entry is pushed at layer 0, and while the two
// topmost entries share a layer they are replaced by
// SHA256(older || newer) one layer up. At most one entry exists per
// layer, so a tree over n leaves needs O(log n) memory, and the order
// in which pairs are combined depends only on leaf positions, never on
// how the leaves were batched by the caller. The parallel piece hasher
// relies on that property to match the sequential hasher bit for bit.
//
// A tree is closed in one of two ways:
//
//   - [Accumulator.FinishTree] pads with a given digest until a single
//     root remains, whatever layer that ends up at. Used for file roots
//     and for files shorter than one piece.
//   - [Accumulator.FinishLayer] pads until the root sits at a declared
//     layer, and refuses if the leaves already added cannot fit in a
//     tree of that height. Used for complete pieces, whose shape is
//     fixed by the piece length.
//
// [Root] and [ZeroRoot] are conveniences over the accumulator for the
// file-level tree, where leaves are piece digests and a missing piece
// is represented by the root of an all-zero piece.
package merkle
