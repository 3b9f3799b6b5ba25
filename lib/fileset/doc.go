// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fileset lists the files that make up a torrent.
//
// [Walk] turns a root path into a list of regular files with their
// slash-separated paths relative to the root and their lengths. A root
// that is itself a regular file yields one entry named by its base
// name. Symbolic links below the root and special files are skipped;
// the root itself may be a link.
//
// Paths are validated here, before any hashing starts: every path must
// be valid UTF-8 and at most [metainfo.MaxPathDepth] segments deep.
package fileset
