// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest provides the SHA-256 value type shared by every layer
// of the BitTorrent v2 hashing pipeline.
//
// A [Digest] is a fixed 32-byte array, comparable with == and usable as
// a map key. The all-zero value [Zero] doubles as "no hash yet" and as
// the padding leaf when a merkle tree is completed, so its meaning is
// load-bearing for interoperability: BEP 52 defines missing leaves as
// zero, and every conforming implementation pads the same way.
//
// The API surface:
//
//   - [Sum] -- one-shot SHA-256 of a byte slice
//   - [Hasher] -- a resettable running SHA-256 context, used to digest
//     16 KiB blocks as they stream through the piece hasher
//   - [Compare] -- bytewise total order, used to sort digests for
//     deterministic serialization
//   - [Format] and [Parse] -- the canonical hex form used in logs and
//     build reports; [Digest] also implements encoding.TextMarshaler
//     with the same form
//
// This package has no dependencies on other packages in this module.
package digest
