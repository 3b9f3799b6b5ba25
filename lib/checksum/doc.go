// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package checksum computes BitTorrent v2 per-file merkle trees.
//
// A file is cut into 16 KiB blocks, each hashed with SHA-256. Blocks are
// grouped into pieces of a fixed power-of-two length; each piece's
// blocks form a merkle tree whose root is the piece digest. The piece
// digests in turn form a second tree whose root is the file's pieces
// root. Trees are padded to a power of two: a missing block is the zero
// digest and a missing piece is the root of an all-zero piece.
//
// Three edge cases shape the results:
//
//   - An empty file has length 0, the zero digest as its root, and no
//     pieces.
//   - A file shorter than one piece has no fixed piece shape. Its root
//     is the tree over its blocks padded only up to the next power of
//     two ([PieceHasher.FinishFirstPiece]), and it has no piece layer.
//   - A file of exactly one piece has a root equal to its sole piece
//     digest, so it too has no piece layer.
//
// Only files with more than one piece return a piece digest list; the
// caller records it in the torrent's "piece layers" dictionary.
//
// Three entry points produce identical results for identical bytes:
//
//   - [File] reads an [io.Reader] one piece at a time.
//   - [FileHasher] is an [io.Writer] for data pushed by the caller.
//   - [FileParallel] reads an [io.ReaderAt] of known length, hashing
//     batches of pieces on a bounded worker pool. Each worker reads its
//     pieces through its own [io.SectionReader] and stores digests into
//     a slot addressed by piece index; the file root is computed on the
//     calling goroutine after every worker has finished, so the result
//     never depends on scheduling.
package checksum
