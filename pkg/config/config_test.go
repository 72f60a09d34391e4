package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/columnar/pkg/compression"
	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/formats"
	"github.com/ajitpratap0/columnar/pkg/sink"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "columnar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoad(t *testing.T) {
	t.Setenv("COLUMNAR_TEST_BUCKET", "archive")
	path := writeFile(t, `
encoding:
  format: indexed
  envelope: false
compression:
  algorithm: zstd
  level: 9
export:
  format: avro
  writer:
    compression: deflate
    batch_size: 500
sink:
  kind: s3
  s3:
    bucket: ${COLUMNAR_TEST_BUCKET}
    region: ${COLUMNAR_TEST_UNSET:-eu-west-1}
  retry:
    max_attempts: 5
    initial_delay: 50ms
    max_delay: 2s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "indexed", cfg.Encoding.Format)
	assert.False(t, cfg.Encoding.Envelope)
	assert.Equal(t, compression.Zstd, cfg.Compression.Algorithm)
	assert.Equal(t, compression.Best, cfg.Compression.Level)
	assert.Equal(t, formats.Avro, cfg.Export.Format)
	assert.Equal(t, 500, cfg.Export.Writer.BatchSize)
	assert.Equal(t, sink.KindS3, cfg.Sink.Kind)
	assert.Equal(t, "archive", cfg.Sink.S3.Bucket)
	assert.Equal(t, "eu-west-1", cfg.Sink.S3.Region)
	assert.Equal(t, 50*time.Millisecond, cfg.Sink.Retry.InitialDelay)

	// Sections the file leaves out keep their defaults.
	assert.Equal(t, Default().Generate, cfg.Generate)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errType errors.ErrorType
	}{
		{"unknown key", "encoding:\n  fromat: indexed\n", errors.ErrorTypeConfig},
		{"bad yaml", "encoding: [\n", errors.ErrorTypeConfig},
		{"bad encoding format", "encoding:\n  format: zip\n", errors.ErrorTypeConfig},
		{"bad algorithm", "compression:\n  algorithm: brotli\n", errors.ErrorTypeConfig},
		{"bad level", "compression:\n  level: 12\n", errors.ErrorTypeConfig},
		{"bad export format", "export:\n  format: orc\n", errors.ErrorTypeConfig},
		{"no shards", "generate:\n  shards: 0\n", errors.ErrorTypeConfig},
		{"sink without bucket", "sink:\n  kind: gcs\n", errors.ErrorTypeConfig},
		{"bad log level", "logging:\n  level: loud\n", errors.ErrorTypeConfig},
		{"bad sampling", "tracing:\n  sampling_rate: 2\n", errors.ErrorTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.errType), "got %v", err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Sink.Kind = sink.KindKafka
	cfg.Sink.Kafka.Brokers = []string{"k1:9092", "k2:9092"}
	cfg.Sink.Kafka.Topic = "columnar"

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("COLUMNAR_A", "1")
	assert.Equal(t, "a=1 b= c=x", substituteEnvVars("a=${COLUMNAR_A} b=${COLUMNAR_UNSET} c=${COLUMNAR_UNSET:-x}"))
	assert.Equal(t, "open ${COLUMNAR_A", substituteEnvVars("open ${COLUMNAR_A"))
	assert.Equal(t, "1${", substituteEnvVars("${COLUMNAR_A}${"))
}
