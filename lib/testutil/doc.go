// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [WriteTree] materializes a map of slash-separated relative paths to
// file contents under a directory, creating parents as needed, so tests
// can describe an input tree as a literal.
//
// [WriteFile] writes a single file into a fresh t.TempDir() and returns
// its path.
//
// [PatternBytes] generates deterministic, non-repeating-looking content
// of any length. Hashing tests need inputs whose blocks differ from one
// another (all-zero input hides block reordering bugs) yet are
// reproducible across runs.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no dependencies on other packages in this module.
package testutil
