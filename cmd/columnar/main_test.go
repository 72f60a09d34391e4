package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/columnar/pkg/compression"
	"github.com/ajitpratap0/columnar/pkg/encoding"
	"github.com/ajitpratap0/columnar/pkg/errors"
)

// run executes one command line against a fresh root command and returns
// its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateInspect(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "generate", "--rows", "500", "--chunk-rows", "200", "--shards", "3", "--out", dir, "--compression", "zstd")
	require.NoError(t, err)
	assert.Contains(t, out, "events-00002.clmn")

	matches, err := filepath.Glob(filepath.Join(dir, "*.clmn"))
	require.NoError(t, err)
	require.Len(t, matches, 3)

	data, err := os.ReadFile(chunkPath(dir, "events", 0))
	require.NoError(t, err)
	h, err := encoding.ParseHeader(data)
	require.NoError(t, err)
	assert.Equal(t, compression.Zstd, h.Algorithm)

	out, err = run(t, "inspect", chunkPath(dir, "events", 2), "--head", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "rows: 100")
	assert.Contains(t, out, "envelope: v1 zstd")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], `{"id":401,`), lines[len(lines)-1])
}

func TestGenerateIndexedWithoutEnvelope(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "--encoding", "indexed", "--envelope=false", "generate", "--rows", "64", "--out", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(chunkPath(dir, "events", 0))
	require.NoError(t, err)
	assert.False(t, encoding.IsEnvelope(data))
	assert.Zero(t, len(data)%8)

	out, err := run(t, "--encoding", "indexed", "inspect", chunkPath(dir, "events", 0))
	require.NoError(t, err)
	assert.Contains(t, out, "envelope: none")
	assert.Contains(t, out, "rows: 64")
}

func TestEnvironmentOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COLUMNAR_COMPRESSION", "lz4")

	_, err := run(t, "generate", "--rows", "10", "--out", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(chunkPath(dir, "events", 0))
	require.NoError(t, err)
	h, err := encoding.ParseHeader(data)
	require.NoError(t, err)
	assert.Equal(t, compression.LZ4, h.Algorithm)
}

func TestExportParquet(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "generate", "--rows", "300", "--out", dir)
	require.NoError(t, err)

	out, err := run(t, "export", chunkPath(dir, "events", 0), "--format", "parquet", "--batch-size", "100")
	require.NoError(t, err)
	target := filepath.Join(dir, "events-00000.parquet")
	assert.Contains(t, out, target)

	f, err := os.Open(target)
	require.NoError(t, err)
	defer f.Close()
	reader, err := file.NewParquetReader(f)
	require.NoError(t, err)
	defer reader.Close()
	assert.Equal(t, int64(300), reader.NumRows())
	assert.Equal(t, 3, reader.NumRowGroups())
}

func TestPublishFileSink(t *testing.T) {
	dir := t.TempDir()
	sinkDir := filepath.Join(dir, "published")
	cfgPath := filepath.Join(dir, "columnar.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("sink:\n  kind: file\n  file:\n    dir: "+sinkDir+"\n"), 0o644))

	_, err := run(t, "generate", "--rows", "20", "--out", dir)
	require.NoError(t, err)

	out, err := run(t, "--config", cfgPath, "publish", "--key-prefix", "run-1/", chunkPath(dir, "events", 0))
	require.NoError(t, err)
	assert.Contains(t, out, "file:run-1/events-00000.clmn")

	want, err := os.ReadFile(chunkPath(dir, "events", 0))
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(sinkDir, "run-1", "events-00000.clmn"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestObjectFor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.parquet")
	require.NoError(t, os.WriteFile(path, []byte("PAR1"), 0o644))

	obj, err := objectFor(path, "p/")
	require.NoError(t, err)
	assert.Equal(t, "p/x.parquet", obj.Key)
	assert.Equal(t, "application/x-parquet", obj.ContentType)

	_, err = objectFor(filepath.Join(dir, "missing.clmn"), "")
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}

func TestInvalidFlags(t *testing.T) {
	_, err := run(t, "--compression", "brotli", "generate", "--rows", "1", "--out", t.TempDir())
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupported), "%v", err)

	_, err = run(t, "generate", "--chunk-rows", "-1", "--out", t.TempDir())
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation), "%v", err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "columnar v"+version)
}

func TestProfiles(t *testing.T) {
	dir := t.TempDir()
	cpu, mem := filepath.Join(dir, "cpu.prof"), filepath.Join(dir, "mem.prof")

	_, err := run(t, "--cpuprofile", cpu, "--memprofile", mem, "--metrics-textfile", filepath.Join(dir, "metrics.prom"),
		"generate", "--rows", "50", "--out", dir)
	require.NoError(t, err)

	for _, path := range []string{cpu, mem} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
	metrics, err := os.ReadFile(filepath.Join(dir, "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "columnar_")
}
