// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileset

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"testing"

	"github.com/bureau-foundation/mktorrent/lib/metainfo"
	"github.com/bureau-foundation/mktorrent/lib/testutil"
)

func TestWalkDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "content")
	testutil.WriteTree(t, root, map[string][]byte{
		"b.txt":         []byte("bee"),
		"a/z.bin":       make([]byte, 100),
		"a/b/c.txt":     nil,
		"a/b/d/e/f.txt": []byte("deep"),
	})

	entries, err := Walk(root)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	want := []Entry{
		{Path: "a/b/c.txt", Length: 0},
		{Path: "a/b/d/e/f.txt", Length: 4},
		{Path: "a/z.bin", Length: 100},
		{Path: "b.txt", Length: 3},
	}
	if !slices.Equal(entries, want) {
		t.Errorf("Walk() = %+v, want %+v", entries, want)
	}
}

func TestWalkSingleFile(t *testing.T) {
	path := testutil.WriteFile(t, "movie.mkv", []byte("frames"))
	entries, err := Walk(path)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if want := []Entry{{Path: "movie.mkv", Length: 6}}; !slices.Equal(entries, want) {
		t.Errorf("Walk() = %+v, want %+v", entries, want)
	}
}

func TestWalkEmptyDirectory(t *testing.T) {
	entries, err := Walk(t.TempDir())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Walk() of empty directory = %+v", entries)
	}
}

func TestWalkSkipsSymlinksAndSpecialFiles(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string][]byte{"real.txt": []byte("x")})
	if err := os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Fatalf("Symlink: %v", err)
	}
	if err := syscall.Mkfifo(filepath.Join(root, "pipe"), 0o644); err != nil {
		t.Fatalf("Mkfifo: %v", err)
	}

	entries, err := Walk(root)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if want := []Entry{{Path: "real.txt", Length: 1}}; !slices.Equal(entries, want) {
		t.Errorf("Walk() = %+v, want %+v", entries, want)
	}
}

func TestWalkFollowsRootSymlink(t *testing.T) {
	parent := t.TempDir()
	target := filepath.Join(parent, "target")
	testutil.WriteTree(t, target, map[string][]byte{"inner/file": []byte("abc")})
	link := filepath.Join(parent, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("Symlink: %v", err)
	}

	entries, err := Walk(link)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if want := []Entry{{Path: "inner/file", Length: 3}}; !slices.Equal(entries, want) {
		t.Errorf("Walk() = %+v, want %+v", entries, want)
	}
}

func TestWalkDepthLimit(t *testing.T) {
	segments := func(n int) string {
		parts := make([]string, n)
		for i := range parts {
			parts[i] = "d"
		}
		parts[n-1] = "file"
		return strings.Join(parts, "/")
	}

	atLimit := t.TempDir()
	testutil.WriteTree(t, atLimit, map[string][]byte{segments(metainfo.MaxPathDepth): nil})
	if _, err := Walk(atLimit); err != nil {
		t.Errorf("Walk at %d segments: %v", metainfo.MaxPathDepth, err)
	}

	overLimit := t.TempDir()
	testutil.WriteTree(t, overLimit, map[string][]byte{segments(metainfo.MaxPathDepth + 1): nil})
	if _, err := Walk(overLimit); !errors.Is(err, ErrTooDeep) {
		t.Errorf("Walk at %d segments error = %v, want ErrTooDeep", metainfo.MaxPathDepth+1, err)
	}
}

func TestWalkRejectsNonUTF8Names(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "bad\xff.txt"), nil, 0o644); err != nil {
		t.Skipf("filesystem does not accept non-UTF-8 names: %v", err)
	}
	if _, err := Walk(root); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Walk error = %v, want ErrInvalidPath", err)
	}
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := Walk(filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Walk error = %v, want os.ErrNotExist", err)
	}
}

func TestTorrentName(t *testing.T) {
	for _, test := range []struct {
		root string
		want string
	}{
		{"/srv/data/album", "album"},
		{"/srv/data/album/", "album"},
		{"/srv/data/track.flac", "track.flac"},
	} {
		got, err := TorrentName(test.root)
		if err != nil {
			t.Errorf("TorrentName(%q): %v", test.root, err)
			continue
		}
		if got != test.want {
			t.Errorf("TorrentName(%q) = %q, want %q", test.root, got, test.want)
		}
	}

	if _, err := TorrentName("/"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("TorrentName(/) error = %v, want ErrInvalidPath", err)
	}
	if _, err := TorrentName("/tmp/\xfe"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("TorrentName of non-UTF-8 name error = %v, want ErrInvalidPath", err)
	}
}
