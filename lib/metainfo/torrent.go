// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package metainfo

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/bureau-foundation/mktorrent/lib/digest"
)

// MetaVersion is the "meta version" recorded in every v2 info
// dictionary.
const MetaVersion = 2

// MaxPathDepth bounds the number of nested directory dictionaries in a
// file tree, counting the file tree itself. A file at path "a/b/c" sits
// three dictionaries deep. The bound protects consumers of the torrent
// from pathological nesting.
const MaxPathDepth = 20

var (
	// ErrPathConflict is returned by AddFile when the path is already
	// a file, or when one of its segments is used as both a file and a
	// directory.
	ErrPathConflict = errors.New("conflicting path")

	// ErrInvalidPath is returned by AddFile for paths that are empty,
	// not valid UTF-8, or contain empty, "." or ".." segments.
	ErrInvalidPath = errors.New("invalid path")
)

// File is a leaf of the file tree. PiecesRoot is the zero digest if and
// only if Length is zero.
type File struct {
	Length     int64
	PiecesRoot digest.Digest
}

// Directory maps path segment names to nested directories or files.
type Directory struct {
	Entries map[string]PathElement
}

// PathElement is either a File or a *Directory.
type PathElement interface {
	pathElement()
}

func (File) pathElement()       {}
func (*Directory) pathElement() {}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{Entries: make(map[string]PathElement)}
}

// Names returns the directory's entry names in bytewise order, the
// order they are encoded in.
func (d *Directory) Names() []string {
	names := make([]string, 0, len(d.Entries))
	for name := range d.Entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Depth returns the number of nested directory dictionaries below and
// including d.
func (d *Directory) Depth() int {
	deepest := 0
	for _, element := range d.Entries {
		if child, ok := element.(*Directory); ok {
			deepest = max(deepest, child.Depth())
		}
	}
	return deepest + 1
}

// Info is the info dictionary of a v2 torrent.
type Info struct {
	Name        string
	PieceLength PieceLength
	FileTree    *Directory
}

// Torrent is a complete v2 metainfo file.
type Torrent struct {
	Announce string
	Info     Info

	// PieceLayers maps a file's pieces root to its ordered piece
	// digests. Only files with more than one piece appear.
	PieceLayers map[digest.Digest][]digest.Digest
}

// NewTorrent returns a torrent with an empty file tree.
func NewTorrent(announce, name string, pieceLength PieceLength) *Torrent {
	return &Torrent{
		Announce: announce,
		Info: Info{
			Name:        name,
			PieceLength: pieceLength,
			FileTree:    NewDirectory(),
		},
		PieceLayers: make(map[digest.Digest][]digest.Digest),
	}
}

// SplitPath validates a slash-separated relative path and returns its
// segments.
func SplitPath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if !utf8.ValidString(path) {
		return nil, fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidPath, path)
	}
	segments := strings.Split(path, "/")
	for _, segment := range segments {
		switch segment {
		case "", ".", "..":
			return nil, fmt.Errorf("%w: %q has an empty, \".\" or \"..\" segment", ErrInvalidPath, path)
		}
	}
	return segments, nil
}

// AddFile inserts file at the slash-separated path, creating
// intermediate directories. pieces is the file's ordered piece digest
// list; it is registered in PieceLayers only when it holds more than
// one digest.
//
// AddFile fails with ErrPathConflict if the path already exists or a
// segment of it names an existing file. The tree is not modified on
// failure.
func (t *Torrent) AddFile(path string, file File, pieces []digest.Digest) error {
	segments, err := SplitPath(path)
	if err != nil {
		return err
	}

	// Check the whole path before creating any directory so a conflict
	// leaves the tree untouched.
	directory := t.Info.FileTree
	for index, segment := range segments[:len(segments)-1] {
		element, exists := directory.Entries[segment]
		if !exists {
			break
		}
		child, isDirectory := element.(*Directory)
		if !isDirectory {
			return fmt.Errorf("%w: %q is a file, cannot hold %q",
				ErrPathConflict, strings.Join(segments[:index+1], "/"), path)
		}
		directory = child
	}

	directory = t.Info.FileTree
	for _, segment := range segments[:len(segments)-1] {
		element, exists := directory.Entries[segment]
		if !exists {
			child := NewDirectory()
			directory.Entries[segment] = child
			directory = child
			continue
		}
		directory = element.(*Directory)
	}

	name := segments[len(segments)-1]
	if existing, exists := directory.Entries[name]; exists {
		if _, isDirectory := existing.(*Directory); isDirectory {
			return fmt.Errorf("%w: %q is a directory", ErrPathConflict, path)
		}
		return fmt.Errorf("%w: %q added twice", ErrPathConflict, path)
	}
	directory.Entries[name] = file

	if len(pieces) > 1 {
		t.PieceLayers[file.PiecesRoot] = slices.Clone(pieces)
	}
	return nil
}

// Files calls visit for every file in the tree in encoding order, with
// the file's slash-separated path.
func (t *Torrent) Files(visit func(path string, file File)) {
	walkDirectory(t.Info.FileTree, nil, visit)
}

func walkDirectory(directory *Directory, prefix []string, visit func(string, File)) {
	for _, name := range directory.Names() {
		path := append(prefix, name)
		switch element := directory.Entries[name].(type) {
		case *Directory:
			walkDirectory(element, path, visit)
		case File:
			visit(strings.Join(path, "/"), element)
		}
	}
}
