// Package metrics records Prometheus metrics for the encode, compress,
// export and publish paths of the toolkit.
//
// # Overview
//
// All metrics live in Registry rather than the Prometheus default
// registry, so a short-lived CLI run can dump them with WriteTextfile and
// tests can read them back in isolation. Containers are never
// instrumented; the packages that move encoded bytes around are.
//
// # Basic Usage
//
//	timer := metrics.NewTimer()
//	words := encoding.Sequence{}.Encode(nil, events)
//	metrics.ObserveEncode("sequence", 8*len(words), timer.Stop())
//
//	metrics.ObserveCompression("zstd", len(raw), len(compressed))
//	metrics.SinkWrites.WithLabelValues("s3", "success").Inc()
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ajitpratap0/columnar/pkg/errors"
)

// Namespace prefixes every metric name.
const Namespace = "columnar"

// Registry holds every metric defined by this package plus the Go runtime
// collectors.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// EncodedBytes tracks bytes produced by encoders.
	// Labels: format (sequence/indexed)
	EncodedBytes = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "encoded_bytes_total",
			Help:      "Total bytes produced by encoders",
		},
		[]string{"format"},
	)

	// EncodeLatency tracks the time spent encoding one container.
	// Labels: format
	EncodeLatency = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "encode_latency_seconds",
			Help:      "Time spent encoding a container",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 8), // 1µs to 10s
		},
		[]string{"format"},
	)

	// CompressedBytes tracks bytes on either side of a compressor.
	// Labels: algorithm, side (raw/compressed)
	CompressedBytes = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "compression_bytes_total",
			Help:      "Bytes passed through compressors",
		},
		[]string{"algorithm", "side"},
	)

	// CompressionRatio tracks compressed size over raw size per call.
	// Labels: algorithm
	CompressionRatio = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "compression_ratio",
			Help:      "Compressed size divided by raw size",
			Buckets:   []float64{0.05, 0.1, 0.2, 0.3, 0.5, 0.75, 1, 1.5},
		},
		[]string{"algorithm"},
	)

	// ExportedRows tracks rows written to interchange formats.
	// Labels: format (arrow/avro)
	ExportedRows = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "exported_rows_total",
			Help:      "Rows written to interchange formats",
		},
		[]string{"format"},
	)

	// SinkWrites tracks objects handed to sinks.
	// Labels: sink (file/s3/gcs/kafka), status (success/failure)
	SinkWrites = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "sink_writes_total",
			Help:      "Objects written to sinks",
		},
		[]string{"sink", "status"},
	)

	// SinkBytes tracks bytes handed to sinks.
	// Labels: sink
	SinkBytes = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "sink_bytes_total",
			Help:      "Bytes written to sinks",
		},
		[]string{"sink"},
	)

	// ContainerHeapBytes reports the heap size of the last container
	// built by a command.
	// Labels: container, kind (live/allocated)
	ContainerHeapBytes = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "container_heap_bytes",
			Help:      "Heap bytes held by a container",
		},
		[]string{"container", "kind"},
	)

	// Throughput tracks records per second of the last build.
	// Labels: stage (generate/encode/export)
	Throughput = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "throughput_records_per_second",
			Help:      "Current throughput in records per second",
		},
		[]string{"stage"},
	)
)

var runtimeOnce sync.Once

// RegisterRuntime adds the Go runtime and process collectors to Registry.
// It is safe to call more than once.
func RegisterRuntime() {
	runtimeOnce.Do(func() {
		Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}

// ObserveEncode records one encode of n bytes that took d.
func ObserveEncode(format string, n int, d time.Duration) {
	EncodedBytes.WithLabelValues(format).Add(float64(n))
	EncodeLatency.WithLabelValues(format).Observe(d.Seconds())
}

// ObserveCompression records one compression of raw bytes into compressed
// bytes.
func ObserveCompression(algorithm string, raw, compressed int) {
	CompressedBytes.WithLabelValues(algorithm, "raw").Add(float64(raw))
	CompressedBytes.WithLabelValues(algorithm, "compressed").Add(float64(compressed))
	if raw > 0 {
		CompressionRatio.WithLabelValues(algorithm).Observe(float64(compressed) / float64(raw))
	}
}

// ObserveSink records the outcome of one sink write.
func ObserveSink(sink string, n int, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	} else {
		SinkBytes.WithLabelValues(sink).Add(float64(n))
	}
	SinkWrites.WithLabelValues(sink, status).Inc()
}

// ObserveHeap records the HeapSize of a container.
func ObserveHeap(container string, live, allocated int) {
	ContainerHeapBytes.WithLabelValues(container, "live").Set(float64(live))
	ContainerHeapBytes.WithLabelValues(container, "allocated").Set(float64(allocated))
}

// WriteTextfile writes the current state of Registry in the text
// exposition format, for the node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write metrics").WithDetail("path", path)
	}
	return nil
}

// Timer measures the duration of one operation.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the time elapsed since NewTimer. It can be called more than
// once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ThroughputTracker counts records over a window and publishes the rate to
// Throughput. Safe for concurrent use.
type ThroughputTracker struct {
	mu        sync.Mutex
	count     int64
	lastReset time.Time
	stage     string
}

// NewThroughputTracker creates a tracker for stage.
//
// Example:
//
//	tracker := metrics.NewThroughputTracker("generate")
//	for _, e := range batch {
//	    events.Push(e)
//	    tracker.Increment(1)
//	}
//	logger.Info("built", zap.Float64("records_per_sec", tracker.GetAndReset()))
func NewThroughputTracker(stage string) *ThroughputTracker {
	return &ThroughputTracker{lastReset: time.Now(), stage: stage}
}

// Increment adds n to the record count.
func (t *ThroughputTracker) Increment(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count += n
}

// GetAndReset returns records per second since the last reset, publishes
// it and starts a new window.
func (t *ThroughputTracker) GetAndReset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := time.Since(t.lastReset).Seconds()
	if elapsed == 0 {
		return 0
	}
	throughput := float64(t.count) / elapsed

	t.count = 0
	t.lastReset = time.Now()
	Throughput.WithLabelValues(t.stage).Set(throughput)
	return throughput
}
