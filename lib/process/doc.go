// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides the binary entrypoint exit path: reporting
// the error returned by run() to stderr and exiting with its status.
// This is one of the few places raw output to stderr is expected, since
// it happens after the structured logger is gone or before it exists.
package process
