//go:build linux || darwin || freebsd || netbsd || openbsd

package backends

import (
	"io/fs"
	"syscall"
)

// extractHostMetadata fills ownership, identity and timestamps from syscall.Stat_t
func extractHostMetadata(st *FileStatus, info fs.FileInfo) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}

	st.Device = uint64(stat.Dev)
	st.Inode = uint64(stat.Ino)
	st.Links = uint64(stat.Nlink)
	st.UID = int(stat.Uid)
	st.GID = int(stat.Gid)
	st.AccessTime, st.ChangeTime, st.BirthTime = extractTimestamps(stat)
}
