//go:build linux || openbsd

package backends

import (
	"syscall"
	"time"
)

// extractTimestamps returns access and change times. Stat_t carries no birth time here;
// on linux hostfs asks statx(2) for it separately.
func extractTimestamps(stat *syscall.Stat_t) (atime, ctime, btime time.Time) {
	atime = time.Unix(stat.Atim.Unix())
	ctime = time.Unix(stat.Ctim.Unix())
	return
}
