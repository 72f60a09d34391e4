package formats

import (
	"math"
	"reflect"
	"slices"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/columnar/pkg/columnar"
	"github.com/ajitpratap0/columnar/pkg/errors"
)

// The converters in this file hand container buffers to Arrow without
// copying wherever the layouts agree. Arrow, like the containers, assumes
// a little-endian host. The resulting arrays alias the container and must
// not outlive a Clear of it.

// ArrowType returns the Arrow type with the same layout as T.
func ArrowType[T columnar.Scalar]() arrow.DataType {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Int8:
		return arrow.PrimitiveTypes.Int8
	case reflect.Int16:
		return arrow.PrimitiveTypes.Int16
	case reflect.Int32:
		return arrow.PrimitiveTypes.Int32
	case reflect.Int64:
		return arrow.PrimitiveTypes.Int64
	case reflect.Uint8:
		return arrow.PrimitiveTypes.Uint8
	case reflect.Uint16:
		return arrow.PrimitiveTypes.Uint16
	case reflect.Uint32:
		return arrow.PrimitiveTypes.Uint32
	case reflect.Uint64:
		return arrow.PrimitiveTypes.Uint64
	case reflect.Float32:
		return arrow.PrimitiveTypes.Float32
	default:
		return arrow.PrimitiveTypes.Float64
	}
}

func makeArray(dtype arrow.DataType, n int, buffers []*memory.Buffer, children []arrow.ArrayData, nulls int) arrow.Array {
	data := array.NewData(dtype, n, buffers, children, nulls, 0)
	defer data.Release()
	return array.MakeFromData(data)
}

func bufferOf[T columnar.Scalar](values []T) *memory.Buffer {
	return memory.NewBufferBytes(columnar.BytesOf(values))
}

// bitmap returns the bits of b as an Arrow validity or boolean bitmap.
// The partial last word is copied in; full words are copied alongside it.
func bitmap(b *columnar.Bools) *memory.Buffer {
	words := append(slices.Clone(b.Values.Values), b.LastWord)
	return bufferOf(words)
}

// PrimitivesArray shares the values of p.
func PrimitivesArray[T columnar.Scalar](p *columnar.Primitives[T]) arrow.Array {
	return makeArray(ArrowType[T](), p.Len(), []*memory.Buffer{nil, bufferOf(p.Values)}, nil, 0)
}

// BoolsArray converts b into an Arrow boolean array.
func BoolsArray(b *columnar.Bools) arrow.Array {
	return makeArray(arrow.FixedWidthTypes.Boolean, b.Len(), []*memory.Buffer{nil, bitmap(b)}, nil, 0)
}

// OptionsArray spreads the present values of o to their positions and uses
// the presence bits as the validity bitmap.
func OptionsArray[T columnar.Scalar](o *columnar.Options[T, T, *columnar.Primitives[T]]) arrow.Array {
	n := o.Len()
	values := make([]T, n)
	j := 0
	for i := 0; i < n; i++ {
		if o.Indexes.Get(i) {
			values[i] = o.Somes.Values[j]
			j++
		}
	}
	nulls := n - o.Indexes.Ones()
	return makeArray(ArrowType[T](), n, []*memory.Buffer{bitmap(o.Indexes.Values), bufferOf(values)}, nil, nulls)
}

// offsets prepends the implicit zero to cumulative end bounds.
func offsets(bounds []uint64) []int64 {
	out := make([]int64, len(bounds)+1)
	for i, b := range bounds {
		out[i+1] = int64(b)
	}
	return out
}

// StringsArray shares the byte blob of s and rebuilds its offsets.
func StringsArray(s *columnar.Strings) arrow.Array {
	return makeArray(arrow.BinaryTypes.LargeString, s.Len(),
		[]*memory.Buffer{nil, bufferOf(offsets(s.Bounds.Values)), bufferOf(s.Values.Values)}, nil, 0)
}

// listOffsets prepends the implicit zero to cumulative end bounds for a
// 32-bit offset list. The last bound must fit an int32.
func listOffsets(bounds []uint64) ([]int32, error) {
	if n := len(bounds); n > 0 && bounds[n-1] > math.MaxInt32 {
		return nil, errors.New(errors.ErrorTypeExport, "list elements exceed 32-bit offsets").
			WithDetail("elements", bounds[n-1])
	}
	out := make([]int32, len(bounds)+1)
	for i, b := range bounds {
		out[i+1] = int32(b)
	}
	return out, nil
}

// StringListsArray converts a Vecs of Strings into a list of large strings.
// The list level uses 32-bit offsets, which Parquet requires, so v may hold
// at most math.MaxInt32 strings in total.
func StringListsArray(v *columnar.Vecs[string, string, *columnar.Strings]) (arrow.Array, error) {
	bounds, err := listOffsets(v.Bounds.Values)
	if err != nil {
		return nil, err
	}
	child := StringsArray(v.Values)
	defer child.Release()
	return makeArray(arrow.ListOf(arrow.BinaryTypes.LargeString), v.Len(),
		[]*memory.Buffer{nil, bufferOf(bounds)}, []arrow.ArrayData{child.Data()}, 0), nil
}

// DurationsArray converts d into int64 nanoseconds.
func DurationsArray(d *columnar.Durations) arrow.Array {
	ns := make([]int64, d.Len())
	for i := range ns {
		ns[i] = int64(d.Get(i))
	}
	return makeArray(arrow.PrimitiveTypes.Int64, len(ns), []*memory.Buffer{nil, bufferOf(ns)}, nil, 0)
}

// NewRecord assembles columns into a record batch. Every column must have
// the same length and match its field's type.
func NewRecord(fields []arrow.Field, columns []arrow.Array) (arrow.Record, error) {
	if len(fields) != len(columns) {
		return nil, errors.New(errors.ErrorTypeExport, "field and column counts differ").
			WithDetail("fields", len(fields)).
			WithDetail("columns", len(columns))
	}
	rows := 0
	for i, col := range columns {
		if i == 0 {
			rows = col.Len()
		}
		if col.Len() != rows {
			return nil, errors.New(errors.ErrorTypeExport, "column length mismatch").
				WithDetail("field", fields[i].Name).
				WithDetail("len", col.Len()).
				WithDetail("rows", rows)
		}
		if !arrow.TypeEqual(fields[i].Type, col.DataType()) {
			return nil, errors.New(errors.ErrorTypeExport, "column type does not match field").
				WithDetail("field", fields[i].Name).
				WithDetail("type", col.DataType().String())
		}
	}
	return array.NewRecord(arrow.NewSchema(fields, nil), columns, int64(rows)), nil
}
