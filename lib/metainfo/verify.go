// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package metainfo

import (
	"bytes"
	"fmt"

	anacrolix "github.com/anacrolix/torrent/metainfo"
)

// Verify decodes an encoded v2 torrent and checks it for internal
// consistency: the meta version is 2, the piece length is valid, and
// every piece layer hashes back to the pieces root of its file.
//
// Decoding and the layer check use github.com/anacrolix/torrent, an
// implementation independent of this package, so a successful Verify
// is evidence that other clients will accept the file.
func Verify(data []byte) error {
	decoded, err := anacrolix.Load(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decoding torrent: %w", err)
	}
	info, err := decoded.UnmarshalInfo()
	if err != nil {
		return fmt.Errorf("decoding info dictionary: %w", err)
	}
	if info.MetaVersion != MetaVersion {
		return fmt.Errorf("meta version is %d, want %d", info.MetaVersion, MetaVersion)
	}
	if _, err := PieceLengthFromBytes(info.PieceLength); err != nil {
		return err
	}
	if err := anacrolix.ValidatePieceLayers(decoded.PieceLayers, &info.FileTree, info.PieceLength); err != nil {
		return fmt.Errorf("validating piece layers: %w", err)
	}
	return nil
}
