// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package progress draws a single-line byte progress bar on a terminal.
//
// A [Bar] counts bytes from any number of goroutines. Each [Bar.Add]
// may redraw the line, but redraws are throttled to one per
// [RefreshInterval] as measured by the bar's [clock.Clock], so hashing
// workers reporting every piece do not flood the terminal. [NewReader]
// wraps an io.Reader so sequential consumers count as they read.
//
// A nil *Bar is valid and ignores every call, which lets callers hold
// an optional bar without nil checks.
package progress
