// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

// PatternBytes returns length bytes of deterministic content derived
// from seed. Different seeds give different content; the same seed
// always gives the same bytes.
func PatternBytes(length int, seed byte) []byte {
	data := make([]byte, length)
	// xorshift32; never zero for a nonzero start state.
	state := uint32(seed)*2654435761 + 1
	for i := range data {
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		data[i] = byte(state)
	}
	return data
}
