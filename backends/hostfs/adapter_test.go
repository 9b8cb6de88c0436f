package hostfs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebogdum/discmeta/backends"
	"github.com/ebogdum/discmeta/internal/pathutil"
	"github.com/ebogdum/discmeta/iso9660"
)

func newTestAdapter(t *testing.T, opts Options) *Adapter {
	t.Helper()
	a, err := New(opts)
	require.NoError(t, err)
	return a
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func TestGetSizeMatchesHost(t *testing.T) {
	a := newTestAdapter(t, Options{})
	dir := t.TempDir()

	for _, size := range []int{0, 1, 2048, 70000} {
		path := filepath.Join(dir, "track.bin")
		writeFile(t, path, size)

		info, err := os.Stat(path)
		require.NoError(t, err)

		got, err := a.GetSize(path)
		require.NoError(t, err)
		assert.Equal(t, info.Size(), got)
	}
}

func TestMissingPath(t *testing.T) {
	a := newTestAdapter(t, Options{})
	missing := filepath.Join(t.TempDir(), "nope.bin")

	t.Run("stat is absent", func(t *testing.T) {
		st, err := a.Stat(missing)
		require.NoError(t, err)
		assert.Nil(t, st)
	})

	t.Run("stat below a regular file is absent", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		writeFile(t, file, 1)

		st, err := a.Stat(filepath.Join(file, "child"))
		require.NoError(t, err)
		assert.Nil(t, st)
	})

	t.Run("size unavailable", func(t *testing.T) {
		size, err := a.GetSize(missing)
		require.ErrorIs(t, err, backends.ErrSizeUnavailable)
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.Zero(t, size)
	})

	t.Run("read open fails", func(t *testing.T) {
		f, err := a.Open(missing, "r")
		require.ErrorIs(t, err, backends.ErrOpenFailure)
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.Nil(t, f)
	})

	t.Run("timestamp update fails", func(t *testing.T) {
		err := a.UpdateTimestamps(missing, iso9660.DateStamp{Year: 124, Month: 3, Day: 5})
		require.ErrorIs(t, err, backends.ErrTimestampUpdateFailure)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestDanglingSymlinkIsAbsent(t *testing.T) {
	a := newTestAdapter(t, Options{})
	dir := t.TempDir()
	link := filepath.Join(dir, "dangling")
	if err := os.Symlink(filepath.Join(dir, "gone"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	st, err := a.Stat(link)
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestOpenCreateThenStat(t *testing.T) {
	a := newTestAdapter(t, Options{})
	path := filepath.Join(t.TempDir(), "new.bin")

	f, err := a.Open(path, "wb")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	st, err := a.Stat(path)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.True(t, st.IsRegular())
	assert.Zero(t, st.Size)
	assert.Equal(t, "new.bin", st.Name)
}

func TestOpenModes(t *testing.T) {
	a := newTestAdapter(t, Options{})
	path := filepath.Join(t.TempDir(), "modes.bin")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	t.Run("append writes at end", func(t *testing.T) {
		f, err := a.Open(path, "a")
		require.NoError(t, err)
		_, err = f.Write([]byte("def"))
		require.NoError(t, err)
		require.NoError(t, f.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "abcdef", string(data))
	})

	t.Run("read is positioned at start", func(t *testing.T) {
		f, err := a.Open(path, "rb")
		require.NoError(t, err)
		defer f.Close()

		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "abcdef", string(data))
	})

	t.Run("write truncates", func(t *testing.T) {
		f, err := a.Open(path, "w+")
		require.NoError(t, err)
		require.NoError(t, f.Close())

		size, err := a.GetSize(path)
		require.NoError(t, err)
		assert.Zero(t, size)
	})

	t.Run("exclusive create fails on existing file", func(t *testing.T) {
		_, err := a.Open(path, "wx")
		require.ErrorIs(t, err, backends.ErrOpenFailure)
		assert.ErrorIs(t, err, fs.ErrExist)
	})

	t.Run("invalid mode", func(t *testing.T) {
		_, err := a.Open(path, "q")
		require.ErrorIs(t, err, backends.ErrOpenFailure)
		assert.ErrorIs(t, err, backends.ErrInvalidMode)
	})
}

func TestReportScenario(t *testing.T) {
	root := t.TempDir()
	a := newTestAdapter(t, Options{Root: root})

	st, err := a.Stat("report.bin")
	require.NoError(t, err)
	require.Nil(t, st)

	f, err := a.Open("report.bin", "w")
	require.NoError(t, err)
	n, err := f.Write(make([]byte, 100))
	require.NoError(t, err)
	require.Equal(t, 100, n)
	require.NoError(t, f.Close())

	size, err := a.GetSize("report.bin")
	require.NoError(t, err)
	assert.Equal(t, int64(100), size)

	date := iso9660.DateStamp{Year: 124, Month: 3, Day: 5, Hour: 10, Minute: 30}
	require.NoError(t, a.UpdateTimestamps("report.bin", date))

	st, err = a.Stat("report.bin")
	require.NoError(t, err)
	require.NotNil(t, st)
	want := time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)
	assert.True(t, want.Equal(st.ModTime), "mtime %s", st.ModTime)

	info, err := os.Stat(filepath.Join(root, "report.bin"))
	require.NoError(t, err)
	assert.True(t, want.Equal(info.ModTime()))
}

func TestUpdateTimestampsRoundTrip(t *testing.T) {
	a := newTestAdapter(t, Options{})
	path := filepath.Join(t.TempDir(), "stamped.bin")
	writeFile(t, path, 16)

	date := iso9660.DateStamp{Year: 99, Month: 12, Day: 31, Hour: 22, Minute: 15, Second: 59, GMTOffset: -20}
	want := date.Time()

	require.NoError(t, a.UpdateTimestamps(path, date))
	first, err := a.Stat(path)
	require.NoError(t, err)

	require.NoError(t, a.UpdateTimestamps(path, date))
	second, err := a.Stat(path)
	require.NoError(t, err)

	assert.True(t, want.Equal(first.ModTime))
	assert.True(t, first.ModTime.Equal(second.ModTime))

	back, err := iso9660.FromTime(first.ModTime.In(date.Location()))
	require.NoError(t, err)
	assert.Equal(t, date, back)

	if runtime.GOOS == "linux" || runtime.GOOS == "darwin" {
		assert.True(t, want.Equal(first.AccessTime), "atime %s", first.AccessTime)
	}
}

func TestUpdateTimestampsPolicy(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("access time readback is only reliable on linux and darwin")
	}

	path := filepath.Join(t.TempDir(), "policy.bin")
	writeFile(t, path, 1)

	old := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, old, old))

	a := newTestAdapter(t, Options{Timestamps: &backends.TimestampPolicy{Modification: true}})
	date := iso9660.DateStamp{Year: 124, Month: 3, Day: 5, Hour: 10, Minute: 30}
	require.NoError(t, a.UpdateTimestamps(path, date))

	st, err := a.Stat(path)
	require.NoError(t, err)
	assert.True(t, date.Time().Equal(st.ModTime))
	assert.True(t, old.Equal(st.AccessTime), "atime %s", st.AccessTime)
}

func TestUpdateTimestampsRejectsInvalidDate(t *testing.T) {
	a := newTestAdapter(t, Options{})
	path := filepath.Join(t.TempDir(), "bad.bin")
	writeFile(t, path, 1)

	before, err := os.Stat(path)
	require.NoError(t, err)

	err = a.UpdateTimestamps(path, iso9660.DateStamp{})
	require.ErrorIs(t, err, backends.ErrTimestampUpdateFailure)
	assert.ErrorIs(t, err, iso9660.ErrUnspecifiedDate)

	err = a.UpdateTimestamps(path, iso9660.DateStamp{Year: 124, Month: 2, Day: 30})
	var rangeErr *iso9660.RangeError
	require.True(t, errors.As(err, &rangeErr))

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestRootConfinement(t *testing.T) {
	root := t.TempDir()
	a := newTestAdapter(t, Options{Root: root})

	_, err := a.Open("../escape.bin", "w")
	require.ErrorIs(t, err, backends.ErrOpenFailure)
	assert.ErrorIs(t, err, pathutil.ErrForbidden)

	_, err = a.Stat("../../etc/passwd")
	require.ErrorIs(t, err, backends.ErrStatFailure)

	_, err = a.GetSize("dir/../../x")
	require.ErrorIs(t, err, backends.ErrSizeUnavailable)

	_, err = os.Stat(filepath.Join(filepath.Dir(root), "escape.bin"))
	assert.True(t, os.IsNotExist(err))
}

func TestRootConfinementDanglingSymlink(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "escaped.bin")
	if err := os.Symlink(target, filepath.Join(root, "link.bin")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	a := newTestAdapter(t, Options{Root: root})

	_, err := a.Open("link.bin", "w")
	require.ErrorIs(t, err, backends.ErrOpenFailure)
	assert.ErrorIs(t, err, pathutil.ErrForbidden)

	_, err = a.Stat("link.bin")
	require.ErrorIs(t, err, backends.ErrStatFailure)

	err = a.UpdateTimestamps("link.bin", iso9660.DateStamp{Year: 124, Month: 3, Day: 5})
	require.ErrorIs(t, err, backends.ErrTimestampUpdateFailure)

	_, err = os.Lstat(target)
	assert.True(t, os.IsNotExist(err), "file created outside root")
}

func TestNewCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out", "image")
	a := newTestAdapter(t, Options{Root: root, FilePerm: 0o600})

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, backends.DefaultTimestampPolicy(), a.Policy())

	file := filepath.Join(t.TempDir(), "plain")
	writeFile(t, file, 1)
	_, err = New(Options{Root: file})
	require.Error(t, err)
}

func TestStatReportsHostFields(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("inode and ownership are not reported on windows")
	}

	a := newTestAdapter(t, Options{})
	path := filepath.Join(t.TempDir(), "fields.bin")
	writeFile(t, path, 3)

	st, err := a.Stat(path)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.NotZero(t, st.Inode)
	assert.Equal(t, uint64(1), st.Links)
	assert.Equal(t, os.Getuid(), st.UID)
	assert.False(t, st.ChangeTime.IsZero())

	dirSt, err := a.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, dirSt.IsDir())
}
