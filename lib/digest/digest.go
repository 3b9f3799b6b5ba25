// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
)

// Size is the length of a Digest in bytes.
const Size = sha256.Size

// Digest is a SHA-256 value.
type Digest [Size]byte

// Zero is the all-zero digest.
var Zero Digest

// Sum returns the SHA-256 digest of data.
func Sum(data []byte) Digest {
	return sha256.Sum256(data)
}

// Bytes returns a slice view of the digest. The slice aliases d.
func (d *Digest) Bytes() []byte {
	return d[:]
}

// IsZero reports whether d is the all-zero digest.
func (d Digest) IsZero() bool {
	return d == Zero
}

// String returns the hex encoding of d.
func (d Digest) String() string {
	return Format(d)
}

// Compare orders digests bytewise. It returns -1, 0 or +1.
func Compare(a, b Digest) int {
	return bytes.Compare(a[:], b[:])
}

// Format returns the hex-encoded string representation of a digest.
// This is the canonical format used in log output and build reports.
func Format(d Digest) string {
	return hex.EncodeToString(d[:])
}

// Parse parses a hex-encoded digest string. Returns an error if the
// string is not a valid 64-character hex encoding of 32 bytes.
func Parse(hexString string) (Digest, error) {
	var d Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return d, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != Size {
		return d, fmt.Errorf("digest is %d bytes, want %d", len(decoded), Size)
	}
	copy(d[:], decoded)
	return d, nil
}

// FromBytes copies a 32-byte slice into a Digest.
func FromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != Size {
		return d, fmt.Errorf("digest is %d bytes, want %d", len(b), Size)
	}
	copy(d[:], b)
	return d, nil
}

// MarshalText encodes d as lowercase hex, so digests appear as text
// in build reports.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(Format(d)), nil
}

// UnmarshalText parses a hex digest produced by MarshalText.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Hasher is a running SHA-256 context that can be finished and reused.
// It does not buffer beyond the context's own 64-byte block, so feeding
// it one byte at a time or a megabyte at a time costs the same memory.
//
// The zero value is not usable; create one with [NewHasher].
type Hasher struct {
	context hash.Hash
}

// NewHasher returns a Hasher with an empty context.
func NewHasher() *Hasher {
	return &Hasher{context: sha256.New()}
}

// Write adds data to the running digest. It never returns an error.
func (h *Hasher) Write(data []byte) (int, error) {
	return h.context.Write(data)
}

// Finish returns the digest of everything written since the last
// Finish or Reset, then resets the context.
func (h *Hasher) Finish() Digest {
	var d Digest
	h.context.Sum(d[:0])
	h.context.Reset()
	return d
}

// Reset discards any bytes written since the last Finish.
func (h *Hasher) Reset() {
	h.context.Reset()
}
