// Package hostfs implements backends.FileMetadata on top of the host operating system.
package hostfs

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/ebogdum/discmeta/backends"
	"github.com/ebogdum/discmeta/internal/pathutil"
	"github.com/ebogdum/discmeta/iso9660"
)

// DefaultFilePerm is the permission given to files created by Open
const DefaultFilePerm fs.FileMode = 0o644

// Options configures an Adapter
type Options struct {
	// Root confines every path beneath it when set. Empty means host paths are used as given.
	Root string
	// FilePerm is used for files created by Open. Zero means DefaultFilePerm.
	FilePerm fs.FileMode
	// Timestamps selects the times UpdateTimestamps writes. Nil means backends.DefaultTimestampPolicy.
	Timestamps *backends.TimestampPolicy
}

// Adapter implements the backends.FileMetadata interface for the host filesystem
type Adapter struct {
	rootPath string
	perm     fs.FileMode
	policy   backends.TimestampPolicy
}

var _ backends.FileMetadata = (*Adapter)(nil)

// New creates a new host adapter
func New(opts Options) (*Adapter, error) {
	a := &Adapter{
		rootPath: opts.Root,
		perm:     opts.FilePerm,
		policy:   backends.DefaultTimestampPolicy(),
	}
	if a.perm == 0 {
		a.perm = DefaultFilePerm
	}
	if opts.Timestamps != nil {
		a.policy = *opts.Timestamps
	}

	if a.rootPath != "" {
		if err := os.MkdirAll(a.rootPath, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create root path %s: %w", a.rootPath, err)
		}
		info, err := os.Stat(a.rootPath)
		if err != nil {
			return nil, fmt.Errorf("root path %s is not accessible: %w", a.rootPath, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("root path %s is not a directory", a.rootPath)
		}
	}

	return a, nil
}

// Policy returns the timestamp policy in effect
func (a *Adapter) Policy() backends.TimestampPolicy {
	return a.policy
}

// resolve maps a caller path to a host path, confining it to the root when one is set
func (a *Adapter) resolve(path string) (string, error) {
	if a.rootPath == "" {
		return path, nil
	}
	if err := pathutil.ValidatePath(path); err != nil {
		return "", err
	}
	return pathutil.SafeJoin(a.rootPath, path)
}

// Open opens path with a C-style mode string. The returned handle is owned by the caller.
func (a *Adapter) Open(path, mode string) (backends.File, error) {
	flag, err := backends.ParseMode(mode)
	if err != nil {
		return nil, backends.NewPathError(backends.ErrOpenFailure, "open", path, err)
	}

	fullPath, err := a.resolve(path)
	if err != nil {
		return nil, backends.NewPathError(backends.ErrOpenFailure, "open", path, err)
	}

	file, err := os.OpenFile(fullPath, flag, a.perm)
	if err != nil {
		return nil, backends.NewPathError(backends.ErrOpenFailure, "open", path, err)
	}

	return file, nil
}

// Stat returns metadata for path, or nil when the path is absent
func (a *Adapter) Stat(path string) (*backends.FileStatus, error) {
	fullPath, err := a.resolve(path)
	if err != nil {
		return nil, backends.NewPathError(backends.ErrStatFailure, "stat", path, err)
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if backends.IsAbsent(err) {
			return nil, nil
		}
		return nil, backends.NewPathError(backends.ErrStatFailure, "stat", path, err)
	}

	st := backends.StatusFromFileInfo(info)
	if st.BirthTime.IsZero() {
		st.BirthTime = birthTime(fullPath)
	}

	return st, nil
}

// GetSize returns the size of path in bytes without opening it
func (a *Adapter) GetSize(path string) (int64, error) {
	fullPath, err := a.resolve(path)
	if err != nil {
		return 0, backends.NewPathError(backends.ErrSizeUnavailable, "getsize", path, err)
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return 0, backends.NewPathError(backends.ErrSizeUnavailable, "getsize", path, err)
	}

	return info.Size(), nil
}

// UpdateTimestamps sets the times selected by the policy to the instant date denotes
func (a *Adapter) UpdateTimestamps(path string, date iso9660.DateStamp) error {
	if err := date.Validate(); err != nil {
		return backends.NewPathError(backends.ErrTimestampUpdateFailure, "update timestamps", path, err)
	}

	fullPath, err := a.resolve(path)
	if err != nil {
		return backends.NewPathError(backends.ErrTimestampUpdateFailure, "update timestamps", path, err)
	}

	if err := setFileTimes(fullPath, date.Time(), a.policy); err != nil {
		return backends.NewPathError(backends.ErrTimestampUpdateFailure, "update timestamps", path, err)
	}

	return nil
}
