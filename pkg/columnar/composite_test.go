package columnar

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/columnar/pkg/errors"
)

func TestTuple2(t *testing.T) {
	tup := NewTuple2[uint64, uint64, string, string](NewPrimitives[uint64](), NewStrings())
	tup.Push(Pair[uint64, string]{First: 1, Second: "one"})
	tup.Push(Pair[uint64, string]{First: 2, Second: "two"})

	assert.Equal(t, Pair[uint64, string]{First: 2, Second: "two"}, tup.Get(1))
	assert.Equal(t, 2, tup.First.Len())
	assert.Equal(t, 2, tup.Second.Len())
	assertPanicType(t, errors.ErrorTypeBounds, func() { tup.Get(2) })

	segments := Segments(tup)
	require.Len(t, segments, 3)
	decoded := Rebuild(NewTuple2[uint64, uint64, string, string](NewPrimitives[uint64](), NewStrings()), tup.Borrow())
	assertSameValues[Pair[uint64, string]](t, tup, decoded)

	tup.ExtendFromSelf(decoded, 0, 1)
	assert.Equal(t, Pair[uint64, string]{First: 1, Second: "one"}, tup.Get(2))
}

func TestTuple3(t *testing.T) {
	tup := NewTuple3[bool, bool, int8, int8, struct{}, struct{}](NewBools(), NewPrimitives[int8](), NewEmpties())
	for i := 0; i < 130; i++ {
		tup.Push(Triple[bool, int8, struct{}]{First: i%2 == 0, Second: int8(i)})
	}
	assert.Equal(t, 130, tup.Len())
	assert.Equal(t, Triple[bool, int8, struct{}]{First: false, Second: 127}, tup.Get(127))

	proto := NewTuple3[bool, bool, int8, int8, struct{}, struct{}](NewBools(), NewPrimitives[int8](), NewEmpties())
	assertSameValues[Triple[bool, int8, struct{}]](t, tup, Rebuild(proto, tup))

	tup.Clear()
	assert.True(t, IsEmpty(tup.Third))
}

func TestRepeats(t *testing.T) {
	r := NewComparableRepeats[int32](NewPrimitives[int32]())
	input := []int32{5, 5, 5, 6, 6, 5, 7, 7}
	for _, v := range input {
		r.Push(v)
	}

	assert.Equal(t, input, Collect[int32](r))
	assert.Equal(t, []int32{5, 6, 5, 7}, r.Inner.Somes.Values)
	assertSameValues[int32](t, r, Rebuild(NewComparableRepeats[int32](NewPrimitives[int32]()), r.Borrow()))

	s := NewRepeats[string, string](NewStrings(), func(stored, item string) bool { return stored == item })
	for _, v := range []string{"a", "a", "b"} {
		s.Push(v)
	}
	assert.Equal(t, []string{"a", "a", "b"}, Collect[string](s))
	assert.Equal(t, 2, s.Inner.Somes.Len())
}

func TestLookbacks(t *testing.T) {
	l := NewLookbacks[string, string](NewStrings(), 2, func(stored, item string) bool { return stored == item })
	input := []string{"a", "b", "a", "c", "a", "b", "b"}
	for _, v := range input {
		l.Push(v)
	}

	assert.Equal(t, input, Collect[string](l))
	// "a" at 4 is three stored values back, beyond the depth of 2.
	assert.Equal(t, []string{"a", "b", "c", "a", "b"}, Collect[string](l.Inner.Oks))
	assert.Equal(t, []uint8{1, 0}, l.Inner.Errs.Values)

	decoded := Rebuild(NewLookbacks[string, string](NewStrings(), 2, func(stored, item string) bool { return stored == item }), l)
	assertSameValues[string](t, l, decoded)
}

func TestSizes(t *testing.T) {
	values := []uint64{0, 0xff, 0x100, 0xffff, 0x10000, 0xffff_ffff, 0x1_0000_0000, math.MaxUint64}
	s := NewSizes()
	for _, v := range values {
		s.Push(v)
	}
	assert.Equal(t, values, Collect[uint64](s))

	narrow, wide := s.Inner.Oks, s.Inner.Errs
	assert.Equal(t, []uint8{0, 0xff}, narrow.Oks.Values)
	assert.Equal(t, []uint16{0x100, 0xffff}, narrow.Errs.Values)
	assert.Equal(t, []uint32{0x10000, 0xffff_ffff}, wide.Oks.Values)
	assert.Equal(t, []uint64{0x1_0000_0000, math.MaxUint64}, wide.Errs.Values)

	assertSameValues[uint64](t, s, Rebuild(NewSizes(), s.Borrow()))

	tail := NewSizes()
	tail.ExtendFromSelf(s, 3, 7)
	assert.Equal(t, values[3:7], Collect[uint64](tail))
}

func TestSignedSizes(t *testing.T) {
	values := []int64{-128, 127, -129, 128, -1 << 15, 1 << 15, -1 << 31, 1 << 31, math.MinInt64, math.MaxInt64}
	s := NewSignedSizes()
	for _, v := range values {
		s.Push(v)
	}
	assert.Equal(t, values, Collect[int64](s))
	assert.Equal(t, []int8{-128, 127}, s.Inner.Oks.Oks.Values)
	assert.Equal(t, []int64{1 << 31, math.MinInt64, math.MaxInt64}, s.Inner.Errs.Errs.Values)
	assertSameValues[int64](t, s, Rebuild(NewSignedSizes(), s))
}

func TestListMaps(t *testing.T) {
	m := NewListMaps[string, string](NewStrings)
	m.Push([]string{"a"})
	m.Push([]string{"b", "c", "d"})
	m.Push(nil)
	m.Push([]string{"e", "f"})

	require.Equal(t, 4, m.Len())
	assert.Len(t, m.Columns, 3)
	assert.Equal(t, []string{"a"}, m.Get(0))
	assert.Equal(t, []string{"b", "c", "d"}, m.Get(1))
	assert.Empty(t, m.Get(2))
	assert.Equal(t, []string{"e", "f"}, m.Get(3))

	third := m.Column(2)
	assert.Equal(t, 4, third.Len())
	assert.Equal(t, Some("d"), third.Get(1))
	assert.Equal(t, None[string](), third.Get(0))
	assertPanicType(t, errors.ErrorTypeBounds, func() { m.Column(3) })

	live, _ := m.HeapSize()
	assert.Positive(t, live)
	m.Clear()
	assert.Equal(t, 0, m.Len())
}

func TestCastLayout(t *testing.T) {
	words := []uint64{1, 2, 3}
	b := BytesOf(words)
	require.Len(t, b, 24)
	assert.Equal(t, words, Cast[uint64](b))
	assert.True(t, Aligned[uint64](b))

	assertPanicType(t, errors.ErrorTypeLayout, func() { Cast[uint64](b[:7]) })
	assertPanicType(t, errors.ErrorTypeLayout, func() { Cast[uint64](b[1:17]) })
	assert.False(t, Aligned[uint64](b[1:17]))
	assert.Empty(t, Cast[uint32](nil))
}

func TestReaderExhausted(t *testing.T) {
	p := NewPrimitives[uint8]()
	p.Push(1)
	r := NewReader(Payloads(Segments(p)))
	NewPrimitives[uint8]().FromBytes(r)
	assert.Equal(t, 0, r.Remaining())
	assert.Equal(t, 1, r.Consumed())

	pair := NewTuple2[uint8, uint8, uint8, uint8](NewPrimitives[uint8](), NewPrimitives[uint8]())
	assertPanicType(t, errors.ErrorTypeDecode, func() { pair.FromBytes(NewReader(Payloads(Segments(p)))) })
	assertPanicType(t, errors.ErrorTypeLayout, func() { NewStrings().FromBytes(NewReader(Payloads(Segments(p)))) })
}

func TestValuesJSON(t *testing.T) {
	data, err := json.Marshal([]Option[int]{Some(1), None[int]()})
	require.NoError(t, err)
	assert.JSONEq(t, `[1, null]`, string(data))

	var options []Option[int]
	require.NoError(t, json.Unmarshal(data, &options))
	assert.Equal(t, []Option[int]{Some(1), None[int]()}, options)

	data, err = json.Marshal([]Result[string, int]{Ok[string, int]("v"), Err[string](3)})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"ok": "v"}, {"err": 3}]`, string(data))

	var results []Result[string, int]
	require.NoError(t, json.Unmarshal(data, &results))
	assert.Equal(t, []Result[string, int]{Ok[string, int]("v"), Err[string](3)}, results)
}

func TestResultJSONNullVariants(t *testing.T) {
	var r Result[*int, string]
	require.NoError(t, json.Unmarshal([]byte(`{"ok": null}`), &r))
	assert.True(t, r.IsOk)
	assert.Nil(t, r.Ok)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": null}`, string(data))

	var e Result[int, *string]
	require.NoError(t, json.Unmarshal([]byte(`{"err": null}`), &e))
	assert.False(t, e.IsOk)
	assert.Nil(t, e.Err)

	err = json.Unmarshal([]byte(`{}`), &e)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDecode))
	err = json.Unmarshal([]byte(`{"ok": 1, "err": "x"}`), &e)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDecode))
}

func TestContainerJSON(t *testing.T) {
	o := NewOptions[string, string](NewStrings())
	o.PushSome("x")
	o.PushNone()
	o.PushSome("yz")

	data, err := json.Marshal(o)
	require.NoError(t, err)

	decoded := NewOptions[string, string](NewStrings())
	require.NoError(t, json.Unmarshal(data, decoded))
	assertSameValues[Option[string]](t, o, decoded)
}
