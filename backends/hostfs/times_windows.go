//go:build windows

package hostfs

import (
	"time"

	"golang.org/x/sys/windows"

	"github.com/ebogdum/discmeta/backends"
)

// setFileTimes opens the file for attribute writes and applies SetFileTime.
// Nil pointers leave the corresponding time unchanged.
func setFileTimes(path string, t time.Time, policy backends.TimestampPolicy) error {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}

	h, err := windows.CreateFile(name,
		windows.FILE_WRITE_ATTRIBUTES,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_BACKUP_SEMANTICS,
		0)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)

	ft := windows.NsecToFiletime(t.UnixNano())
	var ctime, atime, wtime *windows.Filetime
	if policy.Creation {
		ctime = &ft
	}
	if policy.Access {
		atime = &ft
	}
	if policy.Modification {
		wtime = &ft
	}

	return windows.SetFileTime(h, ctime, atime, wtime)
}
