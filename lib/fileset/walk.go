// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bureau-foundation/mktorrent/lib/metainfo"
)

var (
	// ErrInvalidPath is returned for a file or root name that is not
	// valid UTF-8 or cannot name a torrent.
	ErrInvalidPath = errors.New("invalid path")

	// ErrTooDeep is returned for a file nested more than
	// metainfo.MaxPathDepth segments below the root.
	ErrTooDeep = errors.New("path too deep")
)

// Entry is one regular file of a file set.
type Entry struct {
	// Path is relative to the walk root, slash-separated. For a root
	// that is a file, Path is the file's base name.
	Path string

	// Length is the file size in bytes at walk time.
	Length int64
}

// Walk lists the regular files under root, in lexical order within
// each directory.
func Walk(root string) ([]Entry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if info.Mode().IsRegular() {
		name, err := TorrentName(root)
		if err != nil {
			return nil, err
		}
		return []Entry{{Path: name, Length: info.Size()}}, nil
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is neither a regular file nor a directory", root)
	}

	// WalkDir does not descend into a root given as a symbolic link.
	start, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	err = filepath.WalkDir(start, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		relative, err := filepath.Rel(start, path)
		if err != nil {
			return err
		}
		relative = filepath.ToSlash(relative)
		if !utf8.ValidString(relative) {
			return fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidPath, relative)
		}
		if depth := strings.Count(relative, "/") + 1; depth > metainfo.MaxPathDepth {
			return fmt.Errorf("%w: %s has %d segments, limit is %d", ErrTooDeep, relative, depth, metainfo.MaxPathDepth)
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}
		entries = append(entries, Entry{Path: relative, Length: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return entries, nil
}

// TorrentName returns the name a torrent built from root carries: the
// last element of its absolute path.
func TorrentName(root string) (string, error) {
	absolute, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	name := filepath.Base(absolute)
	if name == string(filepath.Separator) || name == "." {
		return "", fmt.Errorf("%w: %s has no base name", ErrInvalidPath, root)
	}
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidPath, name)
	}
	return name, nil
}
