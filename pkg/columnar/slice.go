package columnar

import (
	"cmp"
	"iter"
)

// Slice is a view of the positions [Lower, Upper) of a container. It is the
// reference type of Vecs and Arrays.
type Slice[R any, C Index[R]] struct {
	Lower  int
	Upper  int
	Values C
}

// NewSlice returns a view of values over [lower, upper).
func NewSlice[R any, C Index[R]](lower, upper int, values C) Slice[R, C] {
	return Slice[R, C]{Lower: lower, Upper: upper, Values: values}
}

func (s Slice[R, C]) Len() int { return s.Upper - s.Lower }

// IsEmpty reports whether the view covers no positions.
func (s Slice[R, C]) IsEmpty() bool { return s.Upper == s.Lower }

func (s Slice[R, C]) Get(index int) R {
	checkIndex(index, s.Len())
	return s.Values.Get(s.Lower + index)
}

// Sub narrows the view to [lower, upper) relative to its start.
func (s Slice[R, C]) Sub(lower, upper int) Slice[R, C] {
	checkRange(lower, upper, s.Len())
	return Slice[R, C]{Lower: s.Lower + lower, Upper: s.Lower + upper, Values: s.Values}
}

// All iterates positions relative to the view and their values.
func (s Slice[R, C]) All() iter.Seq2[int, R] {
	return func(yield func(int, R) bool) {
		for i := s.Lower; i < s.Upper; i++ {
			if !yield(i-s.Lower, s.Values.Get(i)) {
				return
			}
		}
	}
}

// Items iterates the values of the view.
func (s Slice[R, C]) Items() iter.Seq[R] {
	return func(yield func(R) bool) {
		for i := s.Lower; i < s.Upper; i++ {
			if !yield(s.Values.Get(i)) {
				return
			}
		}
	}
}

// Collect copies the view's values into a new slice.
func (s Slice[R, C]) Collect() []R {
	out := make([]R, 0, s.Len())
	for i := s.Lower; i < s.Upper; i++ {
		out = append(out, s.Values.Get(i))
	}
	return out
}

// EqualFunc reports whether both views hold equal values under eq.
func (s Slice[R, C]) EqualFunc(other Slice[R, C], eq func(a, b R) bool) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		if !eq(s.Values.Get(s.Lower+i), other.Values.Get(other.Lower+i)) {
			return false
		}
	}
	return true
}

// CompareFunc orders views lexicographically under cmp.
func (s Slice[R, C]) CompareFunc(other Slice[R, C], cmp func(a, b R) int) int {
	n := min(s.Len(), other.Len())
	for i := 0; i < n; i++ {
		if c := cmp(s.Values.Get(s.Lower+i), other.Values.Get(other.Lower+i)); c != 0 {
			return c
		}
	}
	switch {
	case s.Len() < other.Len():
		return -1
	case s.Len() > other.Len():
		return 1
	}
	return 0
}

// SliceEqual compares two views of comparable values.
func SliceEqual[R comparable, C Index[R]](a, b Slice[R, C]) bool {
	return a.EqualFunc(b, func(x, y R) bool { return x == y })
}

// SliceCompare orders two views of ordered values.
func SliceCompare[R cmp.Ordered, C Index[R]](a, b Slice[R, C]) int {
	return a.CompareFunc(b, cmp.Compare[R])
}
