// Package core wraps a file metadata adapter with logging and metrics for the image builder.
package core

import (
	"go.uber.org/zap"

	"github.com/ebogdum/discmeta/backends"
)

// Engine decorates a backends.FileMetadata with structured logs and Prometheus metrics.
// It returns the adapter's results and errors unchanged.
type Engine struct {
	backend     backends.FileMetadata
	backendName string
	logger      *zap.Logger
}

var _ backends.FileMetadata = (*Engine)(nil)

// NewEngine creates a new engine around backend. backendName labels logs and metrics.
func NewEngine(backend backends.FileMetadata, backendName string, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		backend:     backend,
		backendName: backendName,
		logger:      logger.With(zap.String("backend", backendName)),
	}
}

// BackendName returns the label used for this engine's backend
func (e *Engine) BackendName() string {
	return e.backendName
}

// Backend returns the wrapped adapter
//
//nolint:ireturn // the wrapped adapter is an interface by design.
func (e *Engine) Backend() backends.FileMetadata {
	return e.backend
}
