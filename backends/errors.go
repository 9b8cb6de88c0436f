package backends

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// Failure kinds. Every error returned by an adapter matches exactly one of them
// with errors.Is, and still matches the underlying host error.
var (
	ErrOpenFailure            = errors.New("open failure")
	ErrStatFailure            = errors.New("stat failure")
	ErrSizeUnavailable        = errors.New("size unavailable")
	ErrTimestampUpdateFailure = errors.New("timestamp update failure")
)

// ErrInvalidMode is the cause of an open failure for an unparseable mode string
var ErrInvalidMode = errors.New("invalid open mode")

// PathError records a failed adapter operation on a path
type PathError struct {
	Kind error
	Op   string
	Path string
	Err  error
}

// NewPathError builds a PathError of the given kind
func NewPathError(kind error, op, path string, err error) *PathError {
	return &PathError{Kind: kind, Op: op, Path: path, Err: err}
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %q: %v: %v", e.Op, e.Path, e.Kind, e.Err)
}

// Unwrap exposes both the failure kind and the host error
func (e *PathError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// IsAbsent reports whether a stat error means the path is simply not there
// (or not reachable) rather than an unexpected host failure.
func IsAbsent(err error) bool {
	switch {
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, syscall.ENOTDIR),
		errors.Is(err, syscall.ELOOP),
		errors.Is(err, syscall.ENAMETOOLONG):
		return true
	}
	return false
}

// KindOf returns a short label for the failure kind of err, used for metrics
func KindOf(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrOpenFailure):
		return "open_failure"
	case errors.Is(err, ErrSizeUnavailable):
		return "size_unavailable"
	case errors.Is(err, ErrTimestampUpdateFailure):
		return "timestamp_update_failure"
	case errors.Is(err, ErrStatFailure):
		return "stat_failure"
	default:
		return "unknown"
	}
}
