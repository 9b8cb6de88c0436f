// Package metrics provides Prometheus metrics for discmeta adapter operations.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

var (
	// Adapter operation metrics
	AdapterOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discmeta_adapter_ops_total",
			Help: "Total number of file metadata adapter operations",
		},
		[]string{"backend", "operation", "result"}, // result: "ok", "absent", "error"
	)

	AdapterOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discmeta_adapter_op_duration_seconds",
			Help:    "File metadata adapter operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discmeta_errors_total",
			Help: "Total number of adapter failures by kind",
		},
		[]string{"backend", "kind"},
	)

	// Bytes reported by GetSize, useful for sizing the image before layout
	SizedBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discmeta_sized_bytes_total",
			Help: "Total number of bytes reported by size queries",
		},
		[]string{"backend"},
	)
)

// WriteText writes every metric registered with the default gatherer in the
// Prometheus text exposition format.
func WriteText(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
