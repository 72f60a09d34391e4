package metrics

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveEncode(t *testing.T) {
	before := testutil.ToFloat64(EncodedBytes.WithLabelValues("sequence"))
	ObserveEncode("sequence", 64, time.Millisecond)
	assert.Equal(t, before+64, testutil.ToFloat64(EncodedBytes.WithLabelValues("sequence")))
}

func TestObserveCompression(t *testing.T) {
	ObserveCompression("zstd", 100, 25)
	ObserveCompression("zstd", 0, 0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(CompressedBytes.WithLabelValues("zstd", "raw")), 100.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(CompressedBytes.WithLabelValues("zstd", "compressed")), 25.0)
	assert.Equal(t, 1, testutil.CollectAndCount(CompressionRatio, "columnar_compression_ratio"))
}

func TestObserveSink(t *testing.T) {
	ObserveSink("file", 10, nil)
	ObserveSink("file", 10, stderrors.New("disk full"))

	assert.GreaterOrEqual(t, testutil.ToFloat64(SinkWrites.WithLabelValues("file", "success")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(SinkWrites.WithLabelValues("file", "failure")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(SinkBytes.WithLabelValues("file")), 10.0)
}

func TestObserveHeap(t *testing.T) {
	ObserveHeap("events", 1624, 2048)
	assert.Equal(t, 1624.0, testutil.ToFloat64(ContainerHeapBytes.WithLabelValues("events", "live")))
	assert.Equal(t, 2048.0, testutil.ToFloat64(ContainerHeapBytes.WithLabelValues("events", "allocated")))
}

func TestWriteTextfile(t *testing.T) {
	RegisterRuntime()
	RegisterRuntime()
	ObserveEncode("indexed", 8, time.Microsecond)

	path := filepath.Join(t.TempDir(), "columnar.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "columnar_encoded_bytes_total")
	assert.Contains(t, string(data), "go_goroutines")
}

func TestThroughputTracker(t *testing.T) {
	tracker := NewThroughputTracker("generate")
	tracker.Increment(100)
	time.Sleep(5 * time.Millisecond)

	rate := tracker.GetAndReset()
	assert.Positive(t, rate)
	assert.Equal(t, rate, testutil.ToFloat64(Throughput.WithLabelValues("generate")))

	timer := NewTimer()
	assert.GreaterOrEqual(t, timer.Stop(), time.Duration(0))
}
