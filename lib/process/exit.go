// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"io"
	"os"
)

// Exit writes "error: err" to stderr and exits with code. A code of 0
// is replaced by 1: an error never exits successfully.
func Exit(err error, code int) {
	Report(os.Stderr, err)
	if code == 0 {
		code = 1
	}
	os.Exit(code)
}

// Report writes "error: err" to w. Multi-line errors, such as a message
// followed by a hint, are written as-is.
func Report(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
}
