//go:build !(linux || freebsd || openbsd || windows)

package hostfs

import (
	"os"
	"time"

	"github.com/ebogdum/discmeta/backends"
)

// setFileTimes falls back to os.Chtimes. x/sys exports no UTIME_OMIT for darwin or netbsd,
// so an unselected time is passed as zero, which os.Chtimes leaves unchanged.
func setFileTimes(path string, t time.Time, policy backends.TimestampPolicy) error {
	var atime, mtime time.Time
	if policy.Access {
		atime = t
	}
	if policy.Modification {
		mtime = t
	}
	return os.Chtimes(path, atime, mtime)
}
