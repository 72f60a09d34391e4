package columnar

import (
	"iter"

	"github.com/ajitpratap0/columnar/pkg/errors"
)

// Vecs stores sequences as cumulative end offsets into one inner column.
// Sequence i is Values[Bounds[i-1]:Bounds[i]], read through a Slice.
type Vecs[T, R any, C Column[T, R, C]] struct {
	Bounds *Primitives[uint64] `json:"bounds"`
	Values C                   `json:"values"`
}

// NewVecs wraps values, which must be empty.
func NewVecs[T, R any, C Column[T, R, C]](values C) *Vecs[T, R, C] {
	return &Vecs[T, R, C]{Bounds: NewPrimitives[uint64](), Values: values}
}

func (v *Vecs[T, R, C]) Len() int { return v.Bounds.Len() }

func (v *Vecs[T, R, C]) Clear() {
	v.Bounds.Clear()
	v.Values.Clear()
}

func (v *Vecs[T, R, C]) Push(items []T) {
	for _, item := range items {
		v.Values.Push(item)
	}
	v.seal()
}

// PushSeq appends the values of seq as one sequence.
func (v *Vecs[T, R, C]) PushSeq(seq iter.Seq[T]) {
	for item := range seq {
		v.Values.Push(item)
	}
	v.seal()
}

// PushSlice appends the values a Slice refers to as one sequence, copying
// them in bulk from the column the view points into.
func (v *Vecs[T, R, C]) PushSlice(s Slice[R, C]) {
	v.Values.ExtendFromSelf(s.Values, s.Lower, s.Upper)
	v.seal()
}

func (v *Vecs[T, R, C]) seal() {
	v.Bounds.Push(uint64(v.Values.Len()))
}

// Span returns the range of sequence index within Values.
func (v *Vecs[T, R, C]) Span(index int) (int, int) {
	checkIndex(index, v.Len())
	lower := 0
	if index > 0 {
		lower = int(v.Bounds.Values[index-1])
	}
	return lower, int(v.Bounds.Values[index])
}

func (v *Vecs[T, R, C]) Get(index int) Slice[R, C] {
	lower, upper := v.Span(index)
	return Slice[R, C]{Lower: lower, Upper: upper, Values: v.Values}
}

func (v *Vecs[T, R, C]) HeapSize() (int, int) {
	l0, c0 := v.Bounds.HeapSize()
	l1, c1 := v.Values.HeapSize()
	return l0 + l1, c0 + c1
}

func (v *Vecs[T, R, C]) Borrow() *Vecs[T, R, C] {
	return &Vecs[T, R, C]{Bounds: v.Bounds.Borrow(), Values: v.Values.Borrow()}
}

// ExtendFromSelf copies the covered values in one call into the inner
// column. Bounds are copied as is when Values already ends where the source
// span starts, and are shifted one by one otherwise.
func (v *Vecs[T, R, C]) ExtendFromSelf(other *Vecs[T, R, C], start, end int) {
	checkRange(start, end, other.Len())
	if start == end {
		return
	}
	otherLower, _ := other.Span(start)
	_, otherUpper := other.Span(end - 1)
	valuesLen := v.Values.Len()
	v.Values.ExtendFromSelf(other.Values, otherLower, otherUpper)
	if valuesLen == otherLower {
		v.Bounds.ExtendFromSelf(other.Bounds, start, end)
		return
	}
	shift := uint64(valuesLen) - uint64(otherLower)
	for _, bound := range other.Bounds.Values[start:end] {
		v.Bounds.Push(bound + shift)
	}
}

func (v *Vecs[T, R, C]) AsBytes(dst []Segment) []Segment {
	return v.Values.AsBytes(v.Bounds.AsBytes(dst))
}

func (v *Vecs[T, R, C]) FromBytes(r *Reader) *Vecs[T, R, C] {
	bounds := v.Bounds.FromBytes(r)
	return &Vecs[T, R, C]{Bounds: bounds, Values: v.Values.FromBytes(r)}
}

// Arrays stores sequences that all have Bounds.Width elements, so no
// offsets are kept at all.
type Arrays[T, R any, C Column[T, R, C]] struct {
	Bounds *Fixeds `json:"bounds"`
	Values C       `json:"values"`
}

// NewArrays wraps values, which must be empty, for sequences of width.
func NewArrays[T, R any, C Column[T, R, C]](width int, values C) *Arrays[T, R, C] {
	return &Arrays[T, R, C]{Bounds: NewFixeds(uint64(width)), Values: values}
}

// Width is the length of every sequence.
func (a *Arrays[T, R, C]) Width() int { return int(a.Bounds.Width) }

func (a *Arrays[T, R, C]) Len() int { return a.Bounds.Len() }

func (a *Arrays[T, R, C]) Clear() {
	a.Bounds.Clear()
	a.Values.Clear()
}

// Push panics when items does not have exactly Width elements.
func (a *Arrays[T, R, C]) Push(items []T) {
	if len(items) != a.Width() {
		errors.Panic(errors.ErrorTypeValidation, "array length does not match width",
			"len", len(items), "width", a.Width())
	}
	for _, item := range items {
		a.Values.Push(item)
	}
	a.Bounds.Push(uint64(a.Values.Len()))
}

func (a *Arrays[T, R, C]) Get(index int) Slice[R, C] {
	checkIndex(index, a.Len())
	w := a.Width()
	return Slice[R, C]{Lower: index * w, Upper: (index + 1) * w, Values: a.Values}
}

func (a *Arrays[T, R, C]) HeapSize() (int, int) { return a.Values.HeapSize() }

func (a *Arrays[T, R, C]) Borrow() *Arrays[T, R, C] {
	return &Arrays[T, R, C]{Bounds: a.Bounds.Borrow(), Values: a.Values.Borrow()}
}

func (a *Arrays[T, R, C]) ExtendFromSelf(other *Arrays[T, R, C], start, end int) {
	checkRange(start, end, other.Len())
	if other.Width() != a.Width() {
		errors.Panic(errors.ErrorTypeValidation, "array widths differ", "width", a.Width(), "other", other.Width())
	}
	w := a.Width()
	a.Values.ExtendFromSelf(other.Values, start*w, end*w)
	a.Bounds.ExtendFromSelf(other.Bounds, start, end)
}

func (a *Arrays[T, R, C]) AsBytes(dst []Segment) []Segment {
	return a.Values.AsBytes(a.Bounds.AsBytes(dst))
}

func (a *Arrays[T, R, C]) FromBytes(r *Reader) *Arrays[T, R, C] {
	bounds := a.Bounds.FromBytes(r)
	return &Arrays[T, R, C]{Bounds: bounds, Values: a.Values.FromBytes(r)}
}
