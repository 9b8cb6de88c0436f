package core

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ebogdum/discmeta/backends"
	"github.com/ebogdum/discmeta/iso9660"
	"github.com/ebogdum/discmeta/metrics"
)

const (
	resultOK     = "ok"
	resultAbsent = "absent"
	resultError  = "error"
)

// observe records metrics and logs the outcome of one adapter call
func (e *Engine) observe(op, path string, start time.Time, result string, err error) {
	metrics.AdapterOpsTotal.WithLabelValues(e.backendName, op, result).Inc()
	metrics.AdapterOpDuration.WithLabelValues(e.backendName, op).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(e.backendName, backends.KindOf(err)).Inc()
		e.logger.Warn("File metadata operation failed",
			zap.String("operation", op),
			zap.String("path", path),
			zap.Error(err))
		return
	}

	e.logger.Debug("File metadata operation completed",
		zap.String("operation", op),
		zap.String("path", path),
		zap.String("result", result),
		zap.Duration("duration", time.Since(start)))
}

func resultOf(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}

// Open opens path through the backend. The caller owns the returned handle.
//
//nolint:ireturn // mirrors backends.FileMetadata.
func (e *Engine) Open(path, mode string) (backends.File, error) {
	start := time.Now()
	f, err := e.backend.Open(path, mode)
	e.observe("open", path, start, resultOf(err), err)
	return f, err
}

// Stat returns metadata for path, or nil when the path is absent
func (e *Engine) Stat(path string) (*backends.FileStatus, error) {
	start := time.Now()
	st, err := e.backend.Stat(path)

	result := resultOf(err)
	if err == nil && st == nil {
		result = resultAbsent
	}
	e.observe("stat", path, start, result, err)

	return st, err
}

// GetSize returns the size of path in bytes
func (e *Engine) GetSize(path string) (int64, error) {
	start := time.Now()
	size, err := e.backend.GetSize(path)
	e.observe("getsize", path, start, resultOf(err), err)
	if err == nil {
		metrics.SizedBytesTotal.WithLabelValues(e.backendName).Add(float64(size))
	}
	return size, err
}

// UpdateTimestamps applies date to path's times
func (e *Engine) UpdateTimestamps(path string, date iso9660.DateStamp) error {
	start := time.Now()
	err := e.backend.UpdateTimestamps(path, date)
	e.observe("update_timestamps", path, start, resultOf(err), err)
	return err
}

// Touch applies date to path, creating an empty file first when create is set
// and the path is absent. The file's existing contents are never changed.
func (e *Engine) Touch(path string, date iso9660.DateStamp, create bool) error {
	if create {
		st, err := e.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}
		if st == nil {
			f, err := e.Open(path, "a")
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", path, err)
			}
			e.logger.Info("Created file for timestamp update", zap.String("path", path))
		}
	}

	if err := e.UpdateTimestamps(path, date); err != nil {
		return err
	}

	e.logger.Info("Timestamps updated",
		zap.String("path", path),
		zap.Stringer("date", date))

	return nil
}
