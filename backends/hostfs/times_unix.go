//go:build linux || freebsd || openbsd

package hostfs

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/ebogdum/discmeta/backends"
)

// setFileTimes writes atime/mtime with utimensat(2); unselected times are left as UTIME_OMIT.
// Unix hosts have no creation time write, so policy.Creation is ignored here.
func setFileTimes(path string, t time.Time, policy backends.TimestampPolicy) error {
	ts := []unix.Timespec{
		{Nsec: unix.UTIME_OMIT},
		{Nsec: unix.UTIME_OMIT},
	}
	if policy.Access {
		ts[0] = unix.NsecToTimespec(t.UnixNano())
	}
	if policy.Modification {
		ts[1] = unix.NsecToTimespec(t.UnixNano())
	}
	return unix.UtimesNanoAt(unix.AT_FDCWD, path, ts, 0)
}
