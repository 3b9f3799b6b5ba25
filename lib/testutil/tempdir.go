// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree creates every file in files under root. Keys are
// slash-separated paths relative to root; parent directories are
// created as needed.
//
//	testutil.WriteTree(t, root, map[string][]byte{
//	    "a.txt":     []byte("hello"),
//	    "sub/b.bin": testutil.PatternBytes(70000, 1),
//	})
func WriteTree(t testing.TB, root string, files map[string][]byte) {
	t.Helper()
	for relative, content := range files {
		path := filepath.Join(root, filepath.FromSlash(relative))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating parent of %s: %v", relative, err)
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatalf("writing %s: %v", relative, err)
		}
	}
}

// WriteFile writes content to a file named name in a new temporary
// directory and returns the file's path. The directory is removed when
// the test completes.
func WriteFile(t testing.TB, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}
