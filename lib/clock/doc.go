// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the wall clock so time-dependent code can be
// tested deterministically.
//
// Production code takes a [Clock] and is given [Real]. Tests pass a
// [FakeClock] from [Fake], which stands still until the test calls
// [FakeClock.Advance] or [FakeClock.Set].
//
// The progress display throttles redraws against the clock and the
// build reports elapsed time from it; neither needs timers, so the
// interface is only Now.
package clock
