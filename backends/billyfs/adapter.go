// Package billyfs implements backends.FileMetadata over a go-billy filesystem,
// which gives the image builder a chrooted host view or an in-memory staging area.
package billyfs

import (
	"errors"
	"io/fs"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/ebogdum/discmeta/backends"
	"github.com/ebogdum/discmeta/iso9660"
)

const defaultFilePerm fs.FileMode = 0o644

// Adapter implements backends.FileMetadata using go-billy
type Adapter struct {
	fs     billy.Filesystem
	perm   fs.FileMode
	policy backends.TimestampPolicy
}

var _ backends.FileMetadata = (*Adapter)(nil)

// New creates an adapter over fsys with the given timestamp policy
func New(fsys billy.Filesystem, policy backends.TimestampPolicy) *Adapter {
	return &Adapter{
		fs:     fsys,
		perm:   defaultFilePerm,
		policy: policy,
	}
}

// NewOS creates an adapter over the host filesystem chrooted at root
func NewOS(root string, policy backends.TimestampPolicy) *Adapter {
	return New(osfs.New(root), policy)
}

// NewInMemory creates an adapter over an empty in-memory filesystem
func NewInMemory(policy backends.TimestampPolicy) *Adapter {
	return New(memfs.New(), policy)
}

// WithFilePerm sets the permission used for files created by Open
func (b *Adapter) WithFilePerm(perm fs.FileMode) *Adapter {
	if perm != 0 {
		b.perm = perm
	}
	return b
}

// Raw returns the underlying go-billy filesystem.
//
//nolint:ireturn // exposes the adapter target.
func (b *Adapter) Raw() billy.Filesystem {
	return b.fs
}

// Open implements FileMetadata.Open.
//
//nolint:ireturn // API returns the backends.File interface so both adapters share it.
func (b *Adapter) Open(path, mode string) (backends.File, error) {
	flag, err := backends.ParseMode(mode)
	if err != nil {
		return nil, backends.NewPathError(backends.ErrOpenFailure, "open", path, err)
	}

	f, err := b.fs.OpenFile(path, flag, b.perm)
	if err != nil {
		return nil, backends.NewPathError(backends.ErrOpenFailure, "open", path, err)
	}
	return f, nil
}

// Stat implements FileMetadata.Stat.
func (b *Adapter) Stat(path string) (*backends.FileStatus, error) {
	info, err := b.fs.Stat(path)
	switch {
	case err == nil:
		return backends.StatusFromFileInfo(info), nil
	case backends.IsAbsent(err):
		return nil, nil
	default:
		return nil, backends.NewPathError(backends.ErrStatFailure, "stat", path, err)
	}
}

// GetSize implements FileMetadata.GetSize.
func (b *Adapter) GetSize(path string) (int64, error) {
	info, err := b.fs.Stat(path)
	if err != nil {
		return 0, backends.NewPathError(backends.ErrSizeUnavailable, "getsize", path, err)
	}
	return info.Size(), nil
}

// UpdateTimestamps implements FileMetadata.UpdateTimestamps through billy.Change.
// Chtimes always writes both times, so unselected ones are carried over from the current status.
// An access time the filesystem does not report stays zero, which Chtimes leaves unchanged.
func (b *Adapter) UpdateTimestamps(path string, date iso9660.DateStamp) error {
	if err := date.Validate(); err != nil {
		return backends.NewPathError(backends.ErrTimestampUpdateFailure, "update timestamps", path, err)
	}

	info, err := b.fs.Stat(path)
	if err != nil {
		return backends.NewPathError(backends.ErrTimestampUpdateFailure, "update timestamps", path, err)
	}

	change, ok := b.fs.(billy.Change)
	if !ok {
		return backends.NewPathError(backends.ErrTimestampUpdateFailure, "update timestamps", path, errors.ErrUnsupported)
	}

	current := backends.StatusFromFileInfo(info)
	atime, mtime := current.AccessTime, current.ModTime
	t := date.Time()
	if b.policy.Access {
		atime = t
	}
	if b.policy.Modification {
		mtime = t
	}

	if err := change.Chtimes(path, atime, mtime); err != nil {
		return backends.NewPathError(backends.ErrTimestampUpdateFailure, "update timestamps", path, err)
	}
	return nil
}
