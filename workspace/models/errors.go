package models

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable failure reason reported to callers.
type ErrorKind string

const (
	KindMissingArgument     ErrorKind = "missing_argument"
	KindReadFailed          ErrorKind = "read_failed"
	KindWriteFailed         ErrorKind = "write_failed"
	KindFileReadFailed      ErrorKind = "file_read_failed"
	KindSnapshotWriteFailed ErrorKind = "snapshot_write_failed"
	KindRestoreWriteFailed  ErrorKind = "restore_write_failed"
	KindSnapshotReadFailed  ErrorKind = "snapshot_read_failed"
	KindInvalidLineRange    ErrorKind = "invalid_line_range"
	KindMalformedBatch      ErrorKind = "malformed_batch"
	KindInvalidEscape       ErrorKind = "invalid_escape"
	KindSnapshotNotFound    ErrorKind = "snapshot_not_found"
	KindEditsReadFailed     ErrorKind = "edits_read_failed"
	KindEditsTooLarge       ErrorKind = "edits_too_large"
	KindInvalidPath         ErrorKind = "invalid_path"
	KindInternal            ErrorKind = "internal_error"
)

// WorkspaceError is the error type returned by every workspace operation.
// Path names the offending file when one is known. SnapshotID is set when an
// edit batch failed after its snapshot was written, so the caller can roll back.
type WorkspaceError struct {
	Kind       ErrorKind
	Path       string
	SnapshotID string
	Err        error
}

func (e *WorkspaceError) Error() string {
	msg := string(e.Kind)
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *WorkspaceError) Unwrap() error {
	return e.Err
}

// Is matches another *WorkspaceError by kind only, so callers can write
// errors.Is(err, models.ErrSnapshotNotFound).
func (e *WorkspaceError) Is(target error) bool {
	var other *WorkspaceError
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind && other.Path == "" && other.SnapshotID == "" && other.Err == nil
}

// NewError builds a WorkspaceError.
func NewError(kind ErrorKind, path string, err error) *WorkspaceError {
	return &WorkspaceError{Kind: kind, Path: path, Err: err}
}

// Errorf builds a WorkspaceError with a formatted cause.
func Errorf(kind ErrorKind, path string, format string, args ...any) *WorkspaceError {
	return &WorkspaceError{Kind: kind, Path: path, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) ErrorKind {
	var we *WorkspaceError
	if errors.As(err, &we) {
		return we.Kind
	}
	return KindInternal
}

// Sentinels for errors.Is comparisons.
var (
	ErrMissingArgument     = &WorkspaceError{Kind: KindMissingArgument}
	ErrReadFailed          = &WorkspaceError{Kind: KindReadFailed}
	ErrWriteFailed         = &WorkspaceError{Kind: KindWriteFailed}
	ErrFileReadFailed      = &WorkspaceError{Kind: KindFileReadFailed}
	ErrSnapshotWriteFailed = &WorkspaceError{Kind: KindSnapshotWriteFailed}
	ErrRestoreWriteFailed  = &WorkspaceError{Kind: KindRestoreWriteFailed}
	ErrSnapshotReadFailed  = &WorkspaceError{Kind: KindSnapshotReadFailed}
	ErrInvalidLineRange    = &WorkspaceError{Kind: KindInvalidLineRange}
	ErrMalformedBatch      = &WorkspaceError{Kind: KindMalformedBatch}
	ErrInvalidEscape       = &WorkspaceError{Kind: KindInvalidEscape}
	ErrSnapshotNotFound    = &WorkspaceError{Kind: KindSnapshotNotFound}
	ErrEditsReadFailed     = &WorkspaceError{Kind: KindEditsReadFailed}
	ErrInvalidPath         = &WorkspaceError{Kind: KindInvalidPath}
)
