package columnar

import "github.com/ajitpratap0/columnar/pkg/errors"

// Fixeds is a bounds column for sequences that all have Width elements.
// Only the count is stored; bound i is (i+1)*Width. Width is part of the
// shape and is taken from the prototype when decoding.
type Fixeds struct {
	Width uint64 `json:"width"`
	Count uint64 `json:"count"`
}

// NewFixeds returns an empty bounds column of the given width.
func NewFixeds(width uint64) *Fixeds { return &Fixeds{Width: width} }

// FromStrides converts s when every bound follows its stride.
func FromStrides(s *Strides) (*Fixeds, bool) {
	if s.Bounds.Len() > 0 {
		return nil, false
	}
	return &Fixeds{Width: s.Stride, Count: s.Length}, true
}

func (f *Fixeds) Len() int             { return int(f.Count) }
func (f *Fixeds) Clear()               { f.Count = 0 }
func (f *Fixeds) HeapSize() (int, int) { return 0, 0 }
func (f *Fixeds) Borrow() *Fixeds      { return &Fixeds{Width: f.Width, Count: f.Count} }

// Push accepts only the next bound of the fixed pattern.
func (f *Fixeds) Push(bound uint64) {
	if want := (f.Count + 1) * f.Width; bound != want {
		errors.Panic(errors.ErrorTypeValidation, "bound breaks fixed width", "bound", bound, "want", want)
	}
	f.Count++
}

func (f *Fixeds) Get(index int) uint64 {
	checkIndex(index, f.Len())
	return (uint64(index) + 1) * f.Width
}

// ExtendFromSelf appends end-start bounds. Fixed bounds carry no offset, so
// the copied bounds are re-based onto the end of f rather than repeating
// other's values, the same as Vecs does when the inner column moves. The
// widths of f and other must agree.
func (f *Fixeds) ExtendFromSelf(other *Fixeds, start, end int) {
	checkRange(start, end, other.Len())
	f.Count += uint64(end - start)
}

func (f *Fixeds) AsBytes(dst []Segment) []Segment {
	return append(dst, Segment{Align: 8, Data: wordBytes(&f.Count)})
}

func (f *Fixeds) FromBytes(r *Reader) *Fixeds {
	return &Fixeds{Width: f.Width, Count: readWord(r.Next())}
}

// Strides is a bounds column that stores a leading run of equally spaced
// bounds as (Stride, Length) and anything after the first deviation
// explicitly in Bounds.
type Strides struct {
	Stride uint64              `json:"stride"`
	Length uint64              `json:"length"`
	Bounds *Primitives[uint64] `json:"bounds"`
}

// NewStrides returns an empty bounds column.
func NewStrides() *Strides { return &Strides{Bounds: NewPrimitives[uint64]()} }

func (s *Strides) Len() int             { return int(s.Length) + s.Bounds.Len() }
func (s *Strides) HeapSize() (int, int) { return s.Bounds.HeapSize() }

func (s *Strides) Clear() {
	s.Stride = 0
	s.Length = 0
	s.Bounds.Clear()
}

// Push extends the stride run while item keeps to it. The first item
// always sets the stride.
func (s *Strides) Push(item uint64) {
	switch {
	case s.Length == 0 && s.Bounds.Len() == 0:
		s.Stride = item
		s.Length = 1
	case s.Bounds.Len() > 0:
		s.Bounds.Push(item)
	case item == s.Stride*(s.Length+1):
		s.Length++
	default:
		s.Bounds.Push(item)
	}
}

func (s *Strides) Get(index int) uint64 {
	checkIndex(index, s.Len())
	if i := uint64(index); i < s.Length {
		return (i + 1) * s.Stride
	}
	return s.Bounds.Values[index-int(s.Length)]
}

// Span returns the [lower, upper) range of sequence index.
func (s *Strides) Span(index int) (int, int) {
	upper := int(s.Get(index))
	if index == 0 {
		return 0, upper
	}
	return int(s.Get(index - 1)), upper
}

// Strided returns the stride when every bound follows it.
func (s *Strides) Strided() (uint64, bool) {
	if s.Bounds.Len() > 0 {
		return 0, false
	}
	return s.Stride, true
}

func (s *Strides) Borrow() *Strides {
	return &Strides{Stride: s.Stride, Length: s.Length, Bounds: s.Bounds.Borrow()}
}

func (s *Strides) ExtendFromSelf(other *Strides, start, end int) {
	checkRange(start, end, other.Len())
	for i := start; i < end; i++ {
		s.Push(other.Get(i))
	}
}

func (s *Strides) AsBytes(dst []Segment) []Segment {
	dst = append(dst, Segment{Align: 8, Data: wordBytes(&s.Stride)})
	dst = append(dst, Segment{Align: 8, Data: wordBytes(&s.Length)})
	return s.Bounds.AsBytes(dst)
}

func (s *Strides) FromBytes(r *Reader) *Strides {
	stride := readWord(r.Next())
	length := readWord(r.Next())
	return &Strides{Stride: stride, Length: length, Bounds: s.Bounds.FromBytes(r)}
}
