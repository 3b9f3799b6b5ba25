// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package progress

import "io"

// NewReader returns a reader that adds every byte read from r to bar.
func NewReader(r io.Reader, bar *Bar) io.Reader {
	return &reader{reader: r, bar: bar}
}

type reader struct {
	reader io.Reader
	bar    *Bar
}

func (r *reader) Read(buffer []byte) (int, error) {
	n, err := r.reader.Read(buffer)
	if n > 0 {
		r.bar.Add(int64(n))
	}
	return n, err
}
