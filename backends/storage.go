// Package backends provides the host metadata adapters used by the disc image builder.
// It includes implementations for the local host filesystem and go-billy filesystems.
package backends

import (
	"io/fs"
	"time"

	"github.com/ebogdum/discmeta/iso9660"
)

// File is an open handle returned by FileMetadata.Open.
// The caller owns it and must close it.
type File interface {
	Name() string
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Seek(offset int64, whence int) (int64, error)
	Close() error
}

// FileMetadata defines the uniform file metadata surface across hosts
type FileMetadata interface {
	// Open opens path with a C-style mode string ("r", "w+", "ab", ...)
	Open(path, mode string) (File, error)

	// Stat returns a status snapshot, or nil with a nil error when the path is absent
	Stat(path string) (*FileStatus, error)

	// GetSize returns the size in bytes of an existing file
	GetSize(path string) (int64, error)

	// UpdateTimestamps applies an ISO 9660 date stamp to the file's times
	UpdateTimestamps(path string, date iso9660.DateStamp) error
}

// FileStatus is a snapshot of host reported metadata for a path.
// Fields the host does not report are left at their zero value.
type FileStatus struct {
	Name       string
	Size       int64
	Mode       fs.FileMode
	ModTime    time.Time
	AccessTime time.Time
	ChangeTime time.Time
	BirthTime  time.Time
	Device     uint64
	Inode      uint64
	Links      uint64
	UID        int
	GID        int
}

// IsDir reports whether the status describes a directory
func (s *FileStatus) IsDir() bool {
	return s.Mode.IsDir()
}

// IsRegular reports whether the status describes a regular file
func (s *FileStatus) IsRegular() bool {
	return s.Mode.IsRegular()
}

// TimestampPolicy selects which host times UpdateTimestamps writes.
// Creation is only honored on hosts with a creation time write primitive (windows).
type TimestampPolicy struct {
	Access       bool
	Modification bool
	Creation     bool
}

// DefaultTimestampPolicy writes access and modification times
func DefaultTimestampPolicy() TimestampPolicy {
	return TimestampPolicy{Access: true, Modification: true}
}

// None reports whether the policy selects no time at all
func (p TimestampPolicy) None() bool {
	return !p.Access && !p.Modification && !p.Creation
}

// StatusFromFileInfo converts an fs.FileInfo, filling host specific fields
// when Sys() carries a native stat structure.
func StatusFromFileInfo(info fs.FileInfo) *FileStatus {
	st := &FileStatus{
		Name:    info.Name(),
		Size:    info.Size(),
		Mode:    info.Mode(),
		ModTime: info.ModTime(),
	}

	extractHostMetadata(st, info)

	return st
}
