package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the codec metrics. It is separate from the default
// registry so a CLI run exports only what it measured.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// ElementsTotal counts geometries converted, by direction (decode|encode) and kind
	ElementsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sfgeo",
		Subsystem: "codec",
		Name:      "elements_total",
		Help:      "Total geometry elements converted",
	}, []string{"direction", "kind"})

	FailuresTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sfgeo",
		Subsystem: "codec",
		Name:      "failures_total",
		Help:      "Total elements that failed to decode",
	}, []string{"reason"})

	// AbsentTotal counts null inputs and outputs
	AbsentTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sfgeo",
		Subsystem: "codec",
		Name:      "absent_total",
		Help:      "Total absent geometry elements",
	}, []string{"direction"})

	VectorDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sfgeo",
		Subsystem: "codec",
		Name:      "vector_duration_seconds",
		Help:      "Duration of whole-vector conversions",
		Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5},
	}, []string{"direction"})
)

// WriteTextfile writes every codec metric to path in the text exposition
// format read by the node exporter textfile collector
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
