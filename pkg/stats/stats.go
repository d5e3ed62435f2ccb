package stats

import (
	"bufio"
	"os"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	log "github.com/sirupsen/logrus"
)

const (
	BYTE = 1 << (10 * iota)
	KILOBYTE
	MEGABYTE
	GIGABYTE
	TERABYTE
)

// Collector counts the operations served by the pool service, and the ones
// that failed, labelled by operation name.
type Collector struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	errors     *prometheus.CounterVec
}

// NewCollector returns a Collector registered to its own registry.
func NewCollector() *Collector {
	operations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lbp_operations_total",
			Help: "Number of pool operations served.",
		},
		[]string{"op"},
	)
	errors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lbp_operation_errors_total",
			Help: "Number of pool operations that failed.",
		},
		[]string{"op"},
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(operations, errors)

	return &Collector{
		registry:   registry,
		operations: operations,
		errors:     errors,
	}
}

// Observe records the outcome of an operation. It's a no-op on a nil Collector.
func (c *Collector) Observe(op string, err error) {
	if c == nil {
		return
	}
	c.operations.WithLabelValues(op).Inc()
	failures := c.errors.WithLabelValues(op)
	if err != nil {
		failures.Inc()
	}
}

// Operations returns the counter of the given operation.
func (c *Collector) Operations(op string) prometheus.Counter {
	return c.operations.WithLabelValues(op)
}

// Errors returns the error counter of the given operation.
func (c *Collector) Errors(op string) prometheus.Counter {
	return c.errors.WithLabelValues(op)
}

// Gatherer returns the registry the counters are registered to.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// toGigabytes returns given memory in bytes to gigabytes.
func toGigabytes(bytes uint64) float64 {
	return float64(bytes) / GIGABYTE
}

// PrintMemoryStatistics prints memory statistics using go runtime library.
func PrintMemoryStatistics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.Debugf(
		"Total allocated: %.3fGB, Heap allocated: %.3fGB, "+
			"Allocated objects count: %v, Freed objects count: %v",
		toGigabytes(memStats.TotalAlloc),
		toGigabytes(memStats.HeapAlloc),
		memStats.Mallocs,
		memStats.Frees,
	)
}

// Dump appends the metrics of the given gatherer to the file at path in the
// prometheus text format.
func Dump(path string, gatherer prometheus.Gatherer) error {
	metricFamilies, err := gatherer.Gather()
	if err != nil {
		return err
	}

	file, err := os.OpenFile(
		path,
		os.O_APPEND|os.O_CREATE|os.O_RDWR,
		0644,
	)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, mf := range metricFamilies {
		if _, err := expfmt.MetricFamilyToText(writer, mf); err != nil {
			return err
		}
	}
	return writer.Flush()
}
