package columnar

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/columnar/pkg/errors"
)

func TestVecs(t *testing.T) {
	v := NewVecs[uint32, uint32](NewPrimitives[uint32]())
	v.Push([]uint32{1, 2})
	v.Push(nil)
	v.PushSeq(slices.Values([]uint32{3}))

	require.Equal(t, 3, v.Len())
	assert.Equal(t, []uint64{2, 2, 3}, v.Bounds.Values)
	assert.Equal(t, []uint32{1, 2}, v.Get(0).Collect())
	assert.True(t, v.Get(1).IsEmpty())
	assert.Equal(t, []uint32{3}, v.Get(2).Collect())

	first := v.Get(0)
	assert.Equal(t, uint32(2), first.Get(1))
	assertPanicType(t, errors.ErrorTypeBounds, func() { first.Get(2) })
	assertPanicType(t, errors.ErrorTypeBounds, func() { v.Get(3) })

	var items []uint32
	for i, item := range first.All() {
		assert.Equal(t, first.Get(i), item)
		items = append(items, item)
	}
	assert.Equal(t, []uint32{1, 2}, items)
	assert.Equal(t, []uint32{2}, slices.Collect(first.Sub(1, 2).Items()))
}

func TestVecsPushSlice(t *testing.T) {
	other := NewVecs[string, string](NewStrings())
	other.Push([]string{"a", "b", "c"})
	other.Push([]string{"d"})

	v := NewVecs[string, string](NewStrings())
	v.Push([]string{"z"})
	v.PushSlice(other.Get(0).Sub(1, 3))
	v.PushSlice(other.Get(1))

	assert.Equal(t, []string{"b", "c"}, v.Get(1).Collect())
	assert.Equal(t, []string{"d"}, v.Get(2).Collect())
	assert.True(t, SliceEqual(other.Get(1), v.Get(2)))
	assert.Equal(t, -1, SliceCompare(v.Get(1), v.Get(2)))
	assert.Equal(t, 1, SliceCompare(v.Get(1), other.Get(0).Sub(1, 2)))
	assert.Equal(t, 0, v.Get(0).CompareFunc(v.Get(0), strings.Compare))
}

func TestVecsExtendFromSelf(t *testing.T) {
	other := NewVecs[int16, int16](NewPrimitives[int16]())
	for i := 0; i < 50; i++ {
		row := make([]int16, i%4)
		for j := range row {
			row[j] = int16(i*10 + j)
		}
		other.Push(row)
	}

	for _, prefix := range [][]int16{nil, {9, 9}} {
		v := NewVecs[int16, int16](NewPrimitives[int16]())
		if prefix != nil {
			v.Push(prefix)
		}
		base := v.Len()
		v.ExtendFromSelf(other.Borrow(), 10, 30)
		require.Equal(t, base+20, v.Len())
		for i := 10; i < 30; i++ {
			assert.Equal(t, other.Get(i).Collect(), v.Get(base+i-10).Collect())
		}
	}
}

func TestNestedVecsBytesRoundTrip(t *testing.T) {
	v := NewVecs[[]string, Slice[string, *Strings]](NewVecs[string, string](NewStrings()))
	v.Push([][]string{{"a", "bc"}, {}})
	v.Push(nil)
	v.Push([][]string{{"def"}})

	proto := NewVecs[[]string, Slice[string, *Strings]](NewVecs[string, string](NewStrings()))
	decoded := Rebuild(proto, v.Borrow())

	require.Equal(t, v.Len(), decoded.Len())
	for i := 0; i < v.Len(); i++ {
		want, got := v.Get(i), decoded.Get(i)
		require.Equal(t, want.Len(), got.Len())
		for j := 0; j < want.Len(); j++ {
			assert.Equal(t, want.Get(j).Collect(), got.Get(j).Collect())
		}
	}
	assert.Equal(t, []string{"a", "bc"}, decoded.Get(0).Get(0).Collect())
	assert.Len(t, Segments(v), 4)
}

func TestArrays(t *testing.T) {
	a := NewArrays[float64, float64](3, NewPrimitives[float64]())
	a.Push([]float64{1, 2, 3})
	a.Push([]float64{4, 5, 6})

	assert.Equal(t, 3, a.Width())
	assert.Equal(t, []float64{4, 5, 6}, a.Get(1).Collect())
	assertPanicType(t, errors.ErrorTypeValidation, func() { a.Push([]float64{7}) })

	decoded := Rebuild(NewArrays[float64, float64](3, NewPrimitives[float64]()), a)
	assert.Equal(t, 2, decoded.Len())
	assert.Equal(t, []float64{1, 2, 3}, decoded.Get(0).Collect())

	b := NewArrays[float64, float64](3, NewPrimitives[float64]())
	b.ExtendFromSelf(a, 1, 2)
	assert.Equal(t, []float64{4, 5, 6}, b.Get(0).Collect())

	narrow := NewArrays[float64, float64](2, NewPrimitives[float64]())
	assertPanicType(t, errors.ErrorTypeValidation, func() { narrow.ExtendFromSelf(a, 0, 1) })
}
