// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package metainfo

import (
	"errors"
	"fmt"
	"io"

	"github.com/anacrolix/torrent/bencode"
)

// ErrNestingTooDeep is returned by Encode when the file tree holds more
// than MaxPathDepth nested directory dictionaries.
var ErrNestingTooDeep = errors.New("file tree nesting too deep")

// Dictionary keys. Bencode requires keys in bytewise order; the encoder
// sorts map keys, so these only need to be spelled correctly.
const (
	keyAnnounce    = "announce"
	keyInfo        = "info"
	keyPieceLayers = "piece layers"
	keyFileTree    = "file tree"
	keyMetaVersion = "meta version"
	keyName        = "name"
	keyPieceLength = "piece length"
	keyFile        = ""
	keyLength      = "length"
	keyPiecesRoot  = "pieces root"
)

// Encode writes the canonical bencode form of t to w. Nothing is
// written if the tree fails validation.
func (t *Torrent) Encode(w io.Writer) error {
	data, err := t.Marshal()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing torrent: %w", err)
	}
	return nil
}

// Marshal returns the canonical bencode form of t.
func (t *Torrent) Marshal() ([]byte, error) {
	value, err := t.dictionary()
	if err != nil {
		return nil, err
	}
	data, err := bencode.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding torrent: %w", err)
	}
	return data, nil
}

// dictionary converts the torrent into nested maps with string keys.
// Digests become raw 32-byte strings.
func (t *Torrent) dictionary() (map[string]any, error) {
	fileTree := t.Info.FileTree
	if fileTree == nil {
		fileTree = NewDirectory()
	}
	if depth := fileTree.Depth(); depth > MaxPathDepth {
		return nil, fmt.Errorf("%w: %d directory levels, maximum %d", ErrNestingTooDeep, depth, MaxPathDepth)
	}

	pieceLayers := make(map[string]string, len(t.PieceLayers))
	for root, pieces := range t.PieceLayers {
		if len(pieces) == 0 {
			continue
		}
		layer := make([]byte, 0, len(pieces)*len(root))
		for _, piece := range pieces {
			layer = append(layer, piece[:]...)
		}
		pieceLayers[string(root[:])] = string(layer)
	}

	return map[string]any{
		keyAnnounce: t.Announce,
		keyInfo: map[string]any{
			keyFileTree:    directoryDictionary(fileTree),
			keyMetaVersion: MetaVersion,
			keyName:        t.Info.Name,
			keyPieceLength: t.Info.PieceLength.Bytes(),
		},
		keyPieceLayers: pieceLayers,
	}, nil
}

func directoryDictionary(directory *Directory) map[string]any {
	entries := make(map[string]any, len(directory.Entries))
	for name, element := range directory.Entries {
		switch element := element.(type) {
		case *Directory:
			entries[name] = directoryDictionary(element)
		case File:
			entries[name] = fileDictionary(element)
		}
	}
	return entries
}

// fileDictionary encodes a file as {"": {"length": n, "pieces root": r}}.
// The pieces root is omitted for empty files.
func fileDictionary(file File) map[string]any {
	properties := map[string]any{
		keyLength: file.Length,
	}
	if file.Length != 0 {
		properties[keyPiecesRoot] = string(file.PiecesRoot[:])
	}
	return map[string]any{keyFile: properties}
}
