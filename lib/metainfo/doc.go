// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package metainfo models a BitTorrent v2 (BEP 52) metainfo file and
// serializes it to canonical bencode.
//
// The model is built once per run and discarded after encoding:
//
//	torrent := metainfo.NewTorrent(announce, name, pieceLength)
//	err := torrent.AddFile("dir/file.bin", file, pieces)
//	err = torrent.Encode(os.Stdout)
//
// A [Torrent] holds an [Info] whose file tree is a [Directory] of
// [PathElement] values, each either a nested *Directory or a [File].
// Files record their length and pieces root; the ordered list of piece
// digests for each file with more than one piece is kept separately in
// Torrent.PieceLayers, keyed by pieces root. A file with a single piece
// has a pieces root equal to that piece's digest, and an empty file has
// the zero digest, so neither needs a layer entry.
//
// # Encoding
//
// [Torrent.Encode] writes the BEP 52 dictionary layout with keys sorted
// bytewise at every level. It refuses a file tree nested deeper than
// [MaxPathDepth] dictionaries with [ErrNestingTooDeep] before writing
// any output, so a malformed tree never produces a truncated file.
//
// [Verify] decodes encoded bytes with an independent implementation
// (github.com/anacrolix/torrent/metainfo) and checks every piece layer
// against its pieces root.
package metainfo
