// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package metainfo

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/anacrolix/torrent/bencode"

	"github.com/bureau-foundation/mktorrent/lib/digest"
)

func encodeValue(t *testing.T, value any) string {
	t.Helper()
	data, err := bencode.Marshal(value)
	if err != nil {
		t.Fatalf("bencode.Marshal: %v", err)
	}
	return string(data)
}

func thirtyTwo(c string) string {
	return strings.Repeat(c, 32)
}

func TestEncodeFile(t *testing.T) {
	file := File{Length: 1024, PiecesRoot: letter('a')}
	want := "d0:d6:lengthi1024e11:pieces root32:" + thirtyTwo("a") + "ee"
	if got := encodeValue(t, fileDictionary(file)); got != want {
		t.Errorf("encoded file = %q, want %q", got, want)
	}
}

func TestEncodeZeroLengthFileOmitsPiecesRoot(t *testing.T) {
	file := File{Length: 0, PiecesRoot: letter('a')}
	want := "d0:d6:lengthi0eee"
	if got := encodeValue(t, fileDictionary(file)); got != want {
		t.Errorf("encoded empty file = %q, want %q", got, want)
	}
}

func TestEncodeDirectorySorted(t *testing.T) {
	directory := &Directory{Entries: map[string]PathElement{
		"file1": File{Length: 1024, PiecesRoot: letter('a')},
		"file2": File{Length: 0, PiecesRoot: letter('b')},
		"dir1": &Directory{Entries: map[string]PathElement{
			"file3": File{Length: 0, PiecesRoot: letter('b')},
		}},
	}}

	want := "d4:dir1d5:file3d0:d6:lengthi0eeee" +
		"5:file1d0:d6:lengthi1024e11:pieces root32:" + thirtyTwo("a") + "ee" +
		"5:file2d0:d6:lengthi0eeee"
	if got := encodeValue(t, directoryDictionary(directory)); got != want {
		t.Errorf("encoded directory = %q, want %q", got, want)
	}
}

func TestEncodeTorrent(t *testing.T) {
	torrent := &Torrent{
		Announce: "http://announce.example.com:8080",
		Info: Info{
			Name:        "my display name",
			PieceLength: PieceLength{layers: 5},
			FileTree: &Directory{Entries: map[string]PathElement{
				"file1": File{Length: 1024, PiecesRoot: letter('a')},
			}},
		},
		PieceLayers: map[digest.Digest][]digest.Digest{
			letter('a'): {letter('b'), letter('c')},
		},
	}

	want := "d8:announce32:http://announce.example.com:8080" +
		"4:infod9:file treed5:file1d0:d6:lengthi1024e11:pieces root32:" + thirtyTwo("a") + "eee" +
		"12:meta versioni2e4:name15:my display name12:piece lengthi524288ee" +
		"12:piece layersd32:" + thirtyTwo("a") + "64:" + thirtyTwo("b") + thirtyTwo("c") + "ee"

	var buffer bytes.Buffer
	if err := torrent.Encode(&buffer); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := buffer.String(); got != want {
		t.Errorf("encoded torrent =\n%q\nwant\n%q", got, want)
	}
}

func TestEncodeOmitsEmptyPieceLayers(t *testing.T) {
	torrent := newTestTorrent()
	torrent.PieceLayers[letter('a')] = nil

	data, err := torrent.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.HasSuffix(string(data), "12:piece layersdee") {
		t.Errorf("encoded torrent %q should end with an empty piece layers dictionary", data)
	}
}

func TestEncodePieceLayersSorted(t *testing.T) {
	torrent := newTestTorrent()
	torrent.PieceLayers[letter('z')] = []digest.Digest{letter('1'), letter('2')}
	torrent.PieceLayers[letter('m')] = []digest.Digest{letter('3'), letter('4')}

	data, err := torrent.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	encoded := string(data)
	m := strings.Index(encoded, "32:"+thirtyTwo("m"))
	z := strings.Index(encoded, "32:"+thirtyTwo("z"))
	if m < 0 || z < 0 || m > z {
		t.Errorf("piece layer keys not in sorted order: m at %d, z at %d", m, z)
	}
}

// nestedTree builds a file tree of depth directories where each level
// holds a single "a_dir" entry and the innermost holds a file.
func nestedTree(depth int) *Directory {
	var element PathElement = File{Length: 0, PiecesRoot: letter('a')}
	for range depth {
		element = &Directory{Entries: map[string]PathElement{"a_dir": element}}
	}
	return element.(*Directory)
}

func TestEncodeMaxDepth(t *testing.T) {
	torrent := newTestTorrent()

	torrent.Info.FileTree = nestedTree(MaxPathDepth)
	if _, err := torrent.Marshal(); err != nil {
		t.Fatalf("Marshal at maximum depth: %v", err)
	}

	torrent.Info.FileTree = nestedTree(MaxPathDepth + 1)
	var buffer bytes.Buffer
	err := torrent.Encode(&buffer)
	if !errors.Is(err, ErrNestingTooDeep) {
		t.Fatalf("Encode past maximum depth error = %v, want ErrNestingTooDeep", err)
	}
	if buffer.Len() != 0 {
		t.Errorf("Encode wrote %d bytes before failing", buffer.Len())
	}
}

func TestEncodeMaxDepthViaAddFile(t *testing.T) {
	segments := make([]string, MaxPathDepth)
	for i := range segments {
		segments[i] = "d"
	}

	torrent := newTestTorrent()
	if err := torrent.AddFile(strings.Join(segments, "/"), File{}, nil); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if _, err := torrent.Marshal(); err != nil {
		t.Errorf("Marshal with %d path segments: %v", MaxPathDepth, err)
	}

	torrent = newTestTorrent()
	deeper := strings.Join(append(segments, "d"), "/")
	if err := torrent.AddFile(deeper, File{}, nil); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if _, err := torrent.Marshal(); !errors.Is(err, ErrNestingTooDeep) {
		t.Errorf("Marshal with %d path segments error = %v, want ErrNestingTooDeep", MaxPathDepth+1, err)
	}
}

func TestEncodeNilFileTree(t *testing.T) {
	torrent := &Torrent{Announce: "a", Info: Info{Name: "n"}}
	data, err := torrent.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := "d8:announce1:a4:infod9:file treede12:meta versioni2e4:name1:n12:piece lengthi16384ee12:piece layersdee"
	if string(data) != want {
		t.Errorf("Marshal = %q, want %q", data, want)
	}
}
