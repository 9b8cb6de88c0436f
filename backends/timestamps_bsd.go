//go:build darwin || freebsd || netbsd

package backends

import (
	"syscall"
	"time"
)

// extractTimestamps returns access, change and birth times from the BSD-style Stat_t
func extractTimestamps(stat *syscall.Stat_t) (atime, ctime, btime time.Time) {
	atime = time.Unix(stat.Atimespec.Unix())
	ctime = time.Unix(stat.Ctimespec.Unix())
	btime = time.Unix(stat.Birthtimespec.Unix())
	return
}
