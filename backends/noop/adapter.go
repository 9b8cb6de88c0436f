package noop

import (
	"errors"

	"github.com/ebogdum/discmeta/backends"
	"github.com/ebogdum/discmeta/iso9660"
)

// ErrDisabled is the cause of every failure reported by the noop adapter
var ErrDisabled = errors.New("backend not enabled")

// NoopAdapter is a metadata backend that refuses every operation.
// It is used when host access is switched off in configuration.
type NoopAdapter struct{}

// NewNoopAdapter creates a new noop metadata adapter
func NewNoopAdapter() backends.FileMetadata {
	return &NoopAdapter{}
}

// Open always fails with an open failure
func (n *NoopAdapter) Open(path, mode string) (backends.File, error) {
	return nil, backends.NewPathError(backends.ErrOpenFailure, "open", path, ErrDisabled)
}

// Stat always fails; a disabled host cannot tell absent from present
func (n *NoopAdapter) Stat(path string) (*backends.FileStatus, error) {
	return nil, backends.NewPathError(backends.ErrStatFailure, "stat", path, ErrDisabled)
}

// GetSize always fails with a size failure
func (n *NoopAdapter) GetSize(path string) (int64, error) {
	return 0, backends.NewPathError(backends.ErrSizeUnavailable, "getsize", path, ErrDisabled)
}

// UpdateTimestamps always fails with a timestamp update failure
func (n *NoopAdapter) UpdateTimestamps(path string, date iso9660.DateStamp) error {
	return backends.NewPathError(backends.ErrTimestampUpdateFailure, "update timestamps", path, ErrDisabled)
}
