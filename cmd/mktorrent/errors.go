// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/bureau-foundation/mktorrent/lib/fileset"
	"github.com/bureau-foundation/mktorrent/lib/metainfo"
)

// ErrorCategory classifies failures so the process exit code tells a
// script whether to fix its input or report a bug.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input:
	// bad flags, an out-of-range piece length, a root that does not
	// exist, or file names that cannot go into a torrent.
	CategoryValidation ErrorCategory = "validation"

	// CategoryConflict indicates two files map to the same torrent
	// path, or a path is used both as a file and as a directory.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryInternal indicates an unexpected error: I/O failures,
	// files changing while they were hashed, or a torrent that fails
	// its own verification.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error. It wraps an inner error,
// preserving the full chain for errors.Is and errors.As.
type ToolError struct {
	// Category classifies the error for the exit code.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error

	// Hint, if set, is printed after the error on its own paragraph.
	Hint string
}

// Error returns the underlying error message followed by the hint.
func (e *ToolError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

// Unwrap returns the underlying error.
func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets a remediation hint and returns the receiver.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// ExitCode maps the category to the process exit status.
func (e *ToolError) ExitCode() int {
	switch e.Category {
	case CategoryValidation:
		return 2
	case CategoryConflict:
		return 3
	default:
		return 1
	}
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error: two files claim the same path.
func Conflict(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure or I/O error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// classify wraps err in a ToolError chosen by the sentinel errors it
// carries. An error that is already a ToolError is returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return err
	}

	switch {
	case errors.Is(err, metainfo.ErrInvalidPieceLength),
		errors.Is(err, metainfo.ErrInvalidPath),
		errors.Is(err, fileset.ErrInvalidPath):
		return &ToolError{Category: CategoryValidation, Err: err}
	case errors.Is(err, metainfo.ErrNestingTooDeep),
		errors.Is(err, fileset.ErrTooDeep):
		return (&ToolError{Category: CategoryValidation, Err: err}).
			WithHint(fmt.Sprintf("Torrent paths are limited to %d levels. Build from a deeper directory or flatten the tree.", metainfo.MaxPathDepth))
	case errors.Is(err, metainfo.ErrPathConflict):
		return &ToolError{Category: CategoryConflict, Err: err}
	case errors.Is(err, fs.ErrNotExist):
		return &ToolError{Category: CategoryValidation, Err: err}
	case errors.Is(err, io.ErrUnexpectedEOF):
		return (&ToolError{Category: CategoryInternal, Err: err}).
			WithHint("A file changed size while it was being hashed. Rerun once the files are no longer being written.")
	default:
		return &ToolError{Category: CategoryInternal, Err: err}
	}
}

// exitCode returns the exit status for an error returned by run.
func exitCode(err error) int {
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}
