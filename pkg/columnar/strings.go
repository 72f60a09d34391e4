package columnar

import "fmt"

// Strings stores strings as cumulative end offsets into one byte blob.
// String i is Values[Bounds[i-1]:Bounds[i]], with Bounds[-1] taken as 0.
type Strings struct {
	Bounds *Primitives[uint64] `json:"bounds"`
	Values *Primitives[byte]   `json:"values"`
}

// NewStrings returns an empty container.
func NewStrings() *Strings {
	return &Strings{Bounds: NewPrimitives[uint64](), Values: NewPrimitives[byte]()}
}

func (s *Strings) Len() int { return s.Bounds.Len() }

func (s *Strings) Clear() {
	s.Bounds.Clear()
	s.Values.Clear()
}

func (s *Strings) Push(item string) {
	s.Values.Values = append(s.Values.Values, item...)
	s.Bounds.Push(uint64(len(s.Values.Values)))
}

// PushBytes appends b as one string.
func (s *Strings) PushBytes(b []byte) {
	s.Values.Extend(b)
	s.Bounds.Push(uint64(len(s.Values.Values)))
}

// Pushf formats directly into the byte blob.
func (s *Strings) Pushf(format string, args ...interface{}) {
	s.Values.Values = fmt.Appendf(s.Values.Values, format, args...)
	s.Bounds.Push(uint64(len(s.Values.Values)))
}

// Extend appends items, growing each buffer once.
func (s *Strings) Extend(items []string) {
	total := 0
	for _, item := range items {
		total += len(item)
	}
	s.Values.Reserve(total)
	s.Bounds.Reserve(len(items))
	for _, item := range items {
		s.Push(item)
	}
}

// Span returns the byte range of string index.
func (s *Strings) Span(index int) (int, int) {
	checkIndex(index, s.Len())
	lower := 0
	if index > 0 {
		lower = int(s.Bounds.Values[index-1])
	}
	return lower, int(s.Bounds.Values[index])
}

// Get returns a copy of string index.
func (s *Strings) Get(index int) string {
	return string(s.GetBytes(index))
}

// GetBytes returns string index as a view into the blob. The view is only
// valid until the container is cleared.
func (s *Strings) GetBytes(index int) []byte {
	lower, upper := s.Span(index)
	return s.Values.Values[lower:upper:upper]
}

func (s *Strings) HeapSize() (int, int) {
	l0, c0 := s.Bounds.HeapSize()
	l1, c1 := s.Values.HeapSize()
	return l0 + l1, c0 + c1
}

func (s *Strings) Borrow() *Strings {
	return &Strings{Bounds: s.Bounds.Borrow(), Values: s.Values.Borrow()}
}

// ExtendFromSelf copies the covered bytes in one append. Bounds are copied
// as is when this blob already ends where the source span starts, and are
// shifted one by one otherwise.
func (s *Strings) ExtendFromSelf(other *Strings, start, end int) {
	checkRange(start, end, other.Len())
	if start == end {
		return
	}
	otherLower, _ := other.Span(start)
	_, otherUpper := other.Span(end - 1)
	valuesLen := s.Values.Len()
	s.Values.ExtendFromSelf(other.Values, otherLower, otherUpper)
	if valuesLen == otherLower {
		s.Bounds.ExtendFromSelf(other.Bounds, start, end)
		return
	}
	shift := uint64(valuesLen) - uint64(otherLower)
	for _, bound := range other.Bounds.Values[start:end] {
		s.Bounds.Push(bound + shift)
	}
}

func (s *Strings) AsBytes(dst []Segment) []Segment {
	return s.Values.AsBytes(s.Bounds.AsBytes(dst))
}

func (s *Strings) FromBytes(r *Reader) *Strings {
	bounds := s.Bounds.FromBytes(r)
	return &Strings{Bounds: bounds, Values: s.Values.FromBytes(r)}
}
