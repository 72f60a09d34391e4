package columnar

import (
	"iter"

	"github.com/ajitpratap0/columnar/pkg/errors"
)

// Scalar is the set of fixed width types with a trusted binary layout.
type Scalar interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Len reports the number of logical values held.
type Len interface {
	Len() int
}

// Clear empties a container while keeping its capacity.
type Clear interface {
	Clear()
}

// Push appends one logical value.
type Push[T any] interface {
	Push(item T)
}

// Index reads the value at a logical position. Implementations panic when
// index is not below Len().
type Index[R any] interface {
	Get(index int) R
}

// HeapSize reports the bytes in use and the bytes allocated by a container
// and everything it owns.
type HeapSize interface {
	HeapSize() (live, allocated int)
}

// AsBytes appends the container's buffers to dst as aligned segments.
type AsBytes interface {
	AsBytes(dst []Segment) []Segment
}

// FromBytes rebuilds a container view from segments produced by the
// matching AsBytes. The receiver only supplies the shape.
type FromBytes[C any] interface {
	FromBytes(r *Reader) C
}

// Container is the read/append surface shared by all containers.
type Container[T, R any] interface {
	Len
	Clear
	Push[T]
	Index[R]
	HeapSize
}

// Column is a Container that can be borrowed, concatenated and projected
// to and from bytes. C is the implementing pointer type.
type Column[T, R, C any] interface {
	Container[T, R]
	AsBytes
	FromBytes[C]
	// Borrow returns a read-only view sharing the receiver's buffers.
	Borrow() C
	// ExtendFromSelf appends other's values in [start, end).
	ExtendFromSelf(other C, start, end int)
}

// IsEmpty reports whether c holds no values.
func IsEmpty(c Len) bool { return c.Len() == 0 }

// Extend pushes every item of seq into c.
func Extend[T any](c Push[T], seq iter.Seq[T]) {
	for item := range seq {
		c.Push(item)
	}
}

// Collect reads every value of c in order.
func Collect[R any](c interface {
	Len
	Index[R]
}) []R {
	out := make([]R, c.Len())
	for i := range out {
		out[i] = c.Get(i)
	}
	return out
}

// All iterates the positions and values of c.
func All[R any](c interface {
	Len
	Index[R]
}) iter.Seq2[int, R] {
	return func(yield func(int, R) bool) {
		n := c.Len()
		for i := 0; i < n; i++ {
			if !yield(i, c.Get(i)) {
				return
			}
		}
	}
}

func checkIndex(index, length int) {
	if index < 0 || index >= length {
		errors.OutOfBounds(index, length)
	}
}

func checkRange(start, end, length int) {
	if start < 0 || start > end || end > length {
		errors.Panic(errors.ErrorTypeBounds, "invalid range", "start", start, "end", end, "len", length)
	}
}
