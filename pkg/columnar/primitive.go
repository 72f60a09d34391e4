package columnar

import "slices"

// Primitives stores fixed width scalars in a single slice.
type Primitives[T Scalar] struct {
	Values []T `json:"values"`
}

// NewPrimitives returns an empty container.
func NewPrimitives[T Scalar]() *Primitives[T] {
	return &Primitives[T]{}
}

// NewPrimitivesWithCapacity returns an empty container with room for n values.
func NewPrimitivesWithCapacity[T Scalar](n int) *Primitives[T] {
	return &Primitives[T]{Values: make([]T, 0, n)}
}

func (p *Primitives[T]) Len() int { return len(p.Values) }

func (p *Primitives[T]) Clear() { p.Values = p.Values[:0] }

func (p *Primitives[T]) Push(item T) { p.Values = append(p.Values, item) }

// Extend appends items with a single copy.
func (p *Primitives[T]) Extend(items []T) { p.Values = append(p.Values, items...) }

// Reserve grows capacity for at least n more values.
func (p *Primitives[T]) Reserve(n int) { p.Values = slices.Grow(p.Values, n) }

func (p *Primitives[T]) Get(index int) T {
	checkIndex(index, len(p.Values))
	return p.Values[index]
}

// GetMut returns a pointer to the value at index. The pointer is invalidated
// by the next Push that reallocates.
func (p *Primitives[T]) GetMut(index int) *T {
	checkIndex(index, len(p.Values))
	return &p.Values[index]
}

// Last returns the most recently pushed value.
func (p *Primitives[T]) Last() (T, bool) {
	if len(p.Values) == 0 {
		var zero T
		return zero, false
	}
	return p.Values[len(p.Values)-1], true
}

func (p *Primitives[T]) HeapSize() (int, int) {
	size := sizeOf[T]()
	return size * len(p.Values), size * cap(p.Values)
}

func (p *Primitives[T]) Borrow() *Primitives[T] {
	n := len(p.Values)
	return &Primitives[T]{Values: p.Values[:n:n]}
}

func (p *Primitives[T]) ExtendFromSelf(other *Primitives[T], start, end int) {
	checkRange(start, end, len(other.Values))
	p.Values = append(p.Values, other.Values[start:end]...)
}

func (p *Primitives[T]) AsBytes(dst []Segment) []Segment {
	return append(dst, Segment{Align: alignOf[T](), Data: BytesOf(p.Values)})
}

func (p *Primitives[T]) FromBytes(r *Reader) *Primitives[T] {
	return &Primitives[T]{Values: Cast[T](r.Next())}
}
