//go:build windows

package backends

import (
	"io/fs"
	"syscall"
	"time"
)

// Windows has no syscall.Stat_t; times come from the attribute data that os.Stat keeps in Sys()
func extractHostMetadata(st *FileStatus, info fs.FileInfo) {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return
	}

	st.Links = 1
	st.AccessTime = time.Unix(0, data.LastAccessTime.Nanoseconds())
	st.ChangeTime = time.Unix(0, data.LastWriteTime.Nanoseconds())
	st.BirthTime = time.Unix(0, data.CreationTime.Nanoseconds())
}
