package events

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/columnar/pkg/formats"
)

func TestRecord(t *testing.T) {
	e := New()
	for _, ev := range sampleEvents() {
		e.Push(ev)
	}

	rec, err := e.Record()
	require.NoError(t, err)
	defer rec.Release()

	require.Equal(t, int64(4), rec.NumRows())
	assert.True(t, rec.Schema().Equal(Schema))

	assert.Equal(t, uint64(3), rec.Column(0).(*array.Uint64).Value(2))
	assert.Equal(t, "search", rec.Column(1).(*array.LargeString).Value(2))

	tags := rec.Column(2).(*array.List)
	start, end := tags.ValueOffsets(0)
	assert.Equal(t, int64(2), end-start)

	assert.True(t, rec.Column(3).IsNull(1))
	assert.Equal(t, []string{"accepted", "rejected", "pending", "accepted"}, stringValues(rec.Column(4).(*array.String)))

	codes := rec.Column(5).(*array.Uint32)
	assert.Equal(t, uint32(200), codes.Value(0))
	assert.True(t, codes.IsNull(1))
	assert.True(t, codes.IsNull(2))
	assert.Equal(t, uint32(204), codes.Value(3))

	reasons := rec.Column(6).(*array.LargeString)
	assert.Equal(t, "timeout", reasons.Value(1))
	assert.Equal(t, 3, reasons.NullN())

	assert.Equal(t, []string{"healthy", "failed", "degraded", "healthy"}, stringValues(rec.Column(7).(*array.String)))
	assert.Equal(t, int64(time.Hour), rec.Column(8).(*array.Int64).Value(3))
}

func TestRecordEmpty(t *testing.T) {
	rec, err := New().Record()
	require.NoError(t, err)
	defer rec.Release()
	assert.Equal(t, int64(0), rec.NumRows())
}

func TestRecordExport(t *testing.T) {
	e, err := Generator{Seed: 7}.Build(context.Background(), 300, 3)
	require.NoError(t, err)

	rec, err := e.Record()
	require.NoError(t, err)
	defer rec.Release()

	var buf bytes.Buffer
	require.NoError(t, formats.Write(&buf, formats.Arrow, rec, formats.WriterConfig{Compression: "lz4", BatchSize: 128}))

	r, err := ipc.NewFileReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, 3, r.NumRecords())

	first, err := r.Record(0)
	require.NoError(t, err)
	assert.Equal(t, e.Get(5).Name, first.Column(1).(*array.LargeString).Value(5))
}

func TestRecordParquet(t *testing.T) {
	e := New()
	e.Push(Event{ID: 1, Tags: []string{"x"}})

	rec, err := e.Record()
	require.NoError(t, err)
	defer rec.Release()

	var buf bytes.Buffer
	require.NoError(t, formats.Write(&buf, formats.Parquet, rec, formats.DefaultWriterConfig()))

	mem := memory.NewGoAllocator()
	table, err := pqarrow.ReadTable(context.Background(), bytes.NewReader(buf.Bytes()),
		parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	require.NoError(t, err)
	defer table.Release()

	require.Equal(t, int64(1), table.NumRows())
	tags := table.Column(2).Data().Chunk(0).(*array.List)
	assert.Equal(t, "x", tags.ListValues().ValueStr(0))
}

func stringValues(a *array.String) []string {
	out := make([]string, a.Len())
	for i := range out {
		out[i] = a.Value(i)
	}
	return out
}
