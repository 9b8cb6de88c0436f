package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"time"

	"go.uber.org/zap"

	"github.com/ebogdum/discmeta/backends"
	"github.com/ebogdum/discmeta/backends/billyfs"
	"github.com/ebogdum/discmeta/backends/hostfs"
	"github.com/ebogdum/discmeta/backends/noop"
	"github.com/ebogdum/discmeta/config"
	"github.com/ebogdum/discmeta/core"
	"github.com/ebogdum/discmeta/iso9660"
)

// newEngine builds the configured backend and wraps it in a core engine
func newEngine(cfg config.AppConfig, logger *zap.Logger) (*core.Engine, error) {
	policy := backends.TimestampPolicy{
		Access:       cfg.Timestamps.Access,
		Modification: cfg.Timestamps.Modification,
		Creation:     cfg.Timestamps.Creation,
	}
	if policy.None() {
		logger.Warn("Timestamp policy selects no times; timestamp updates will only validate")
	}

	var backend backends.FileMetadata
	switch cfg.Host.Backend {
	case config.BackendOS:
		logger.Debug("Initializing host backend", zap.String("root", cfg.Host.Root))
		adapter, err := hostfs.New(hostfs.Options{
			Root:       cfg.Host.Root,
			FilePerm:   fs.FileMode(cfg.Host.Perm),
			Timestamps: &policy,
		})
		if err != nil {
			return nil, err
		}
		backend = adapter
	case config.BackendBillyOS:
		if cfg.Host.Root == "" {
			return nil, fmt.Errorf("backend %s requires a root", config.BackendBillyOS)
		}
		logger.Debug("Initializing billy host backend", zap.String("root", cfg.Host.Root))
		backend = billyfs.NewOS(cfg.Host.Root, policy).WithFilePerm(fs.FileMode(cfg.Host.Perm))
	case config.BackendMemory:
		logger.Debug("Initializing in-memory backend")
		backend = billyfs.NewInMemory(policy).WithFilePerm(fs.FileMode(cfg.Host.Perm))
	case config.BackendNone:
		logger.Warn("Host access is disabled; every operation will fail")
		backend = noop.NewNoopAdapter()
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Host.Backend)
	}

	return core.NewEngine(backend, cfg.Host.Backend, logger), nil
}

// parseTouchDate reads the touch date from either an RFC 3339 string or a hex encoded stamp
func parseTouchDate(date, stamp string) (iso9660.DateStamp, error) {
	if stamp != "" {
		raw, err := hex.DecodeString(stamp)
		if err != nil {
			return iso9660.DateStamp{}, fmt.Errorf("invalid --stamp: %w", err)
		}
		if len(raw) != iso9660.DateStampSize {
			return iso9660.DateStamp{}, fmt.Errorf("invalid --stamp: need %d bytes, got %d", iso9660.DateStampSize, len(raw))
		}
		var d iso9660.DateStamp
		if err := d.UnmarshalBinary(raw); err != nil {
			return iso9660.DateStamp{}, err
		}
		return d, nil
	}
	return iso9660.ParseDateStamp(date)
}

func printStatus(w io.Writer, path string, st *backends.FileStatus) {
	kind := "file"
	switch {
	case st.IsDir():
		kind = "directory"
	case !st.IsRegular():
		kind = "special"
	}

	fmt.Fprintf(w, "  Path: %s\n", path)
	fmt.Fprintf(w, "  Type: %s\n", kind)
	fmt.Fprintf(w, "  Size: %d\n", st.Size)
	fmt.Fprintf(w, "  Mode: %s\n", st.Mode)
	fmt.Fprintf(w, "Device: %d  Inode: %d  Links: %d\n", st.Device, st.Inode, st.Links)
	fmt.Fprintf(w, "   Uid: %d  Gid: %d\n", st.UID, st.GID)
	fmt.Fprintf(w, "Access: %s\n", formatTime(st.AccessTime))
	fmt.Fprintf(w, "Modify: %s\n", formatTime(st.ModTime))
	fmt.Fprintf(w, "Change: %s\n", formatTime(st.ChangeTime))
	fmt.Fprintf(w, " Birth: %s\n", formatTime(st.BirthTime))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339Nano)
}
