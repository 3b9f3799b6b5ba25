// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding configuration for build
// reports.
//
// Torrents themselves are bencoded by lib/metainfo; CBOR is used only
// for the machine-readable report mktorrent writes next to them. The
// encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted map
// keys, smallest integer encoding, no indefinite-length items. The same
// build therefore produces byte-identical reports, which lets a report
// be checked into a repository or compared with cmp.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For streaming to a file:
//
//	encoder := codec.NewEncoder(file)
//
// # Struct Tag Rules
//
// Report types use `cbor` struct tags with snake_case keys. Types that
// implement encoding.TextMarshaler, such as digest.Digest, encode as
// CBOR text strings through MarshalText, so digests appear as hex
// rather than as 32-element arrays.
package codec
