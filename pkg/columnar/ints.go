package columnar

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/ajitpratap0/columnar/pkg/errors"
)

// Ints stores platform sized ints as int64 so the layout does not depend on
// the host word size.
type Ints struct {
	Values *Primitives[int64] `json:"values"`
}

// NewInts returns an empty container.
func NewInts() *Ints { return &Ints{Values: NewPrimitives[int64]()} }

func (c *Ints) Len() int             { return c.Values.Len() }
func (c *Ints) Clear()               { c.Values.Clear() }
func (c *Ints) Push(item int)        { c.Values.Push(int64(item)) }
func (c *Ints) HeapSize() (int, int) { return c.Values.HeapSize() }

// Get panics when the stored value does not fit in an int.
func (c *Ints) Get(index int) int {
	v := c.Values.Get(index)
	if strconv.IntSize == 32 && (v < math.MinInt32 || v > math.MaxInt32) {
		errors.Panic(errors.ErrorTypeOverflow, "Ints value does not fit in int", "value", v)
	}
	return int(v)
}

func (c *Ints) Borrow() *Ints { return &Ints{Values: c.Values.Borrow()} }

func (c *Ints) ExtendFromSelf(other *Ints, start, end int) {
	c.Values.ExtendFromSelf(other.Values, start, end)
}

func (c *Ints) AsBytes(dst []Segment) []Segment { return c.Values.AsBytes(dst) }

func (c *Ints) FromBytes(r *Reader) *Ints { return &Ints{Values: c.Values.FromBytes(r)} }

// Uints stores platform sized uints as uint64.
type Uints struct {
	Values *Primitives[uint64] `json:"values"`
}

// NewUints returns an empty container.
func NewUints() *Uints { return &Uints{Values: NewPrimitives[uint64]()} }

func (c *Uints) Len() int             { return c.Values.Len() }
func (c *Uints) Clear()               { c.Values.Clear() }
func (c *Uints) Push(item uint)       { c.Values.Push(uint64(item)) }
func (c *Uints) HeapSize() (int, int) { return c.Values.HeapSize() }

// Get panics when the stored value does not fit in a uint.
func (c *Uints) Get(index int) uint {
	v := c.Values.Get(index)
	if strconv.IntSize == 32 && v > math.MaxUint32 {
		errors.Panic(errors.ErrorTypeOverflow, "Uints value does not fit in uint", "value", v)
	}
	return uint(v)
}

func (c *Uints) Borrow() *Uints { return &Uints{Values: c.Values.Borrow()} }

func (c *Uints) ExtendFromSelf(other *Uints, start, end int) {
	c.Values.ExtendFromSelf(other.Values, start, end)
}

func (c *Uints) AsBytes(dst []Segment) []Segment { return c.Values.AsBytes(dst) }

func (c *Uints) FromBytes(r *Reader) *Uints { return &Uints{Values: c.Values.FromBytes(r)} }

// Runes stores code points as uint32.
type Runes struct {
	Values *Primitives[uint32] `json:"values"`
}

// NewRunes returns an empty container.
func NewRunes() *Runes { return &Runes{Values: NewPrimitives[uint32]()} }

func (c *Runes) Len() int             { return c.Values.Len() }
func (c *Runes) Clear()               { c.Values.Clear() }
func (c *Runes) HeapSize() (int, int) { return c.Values.HeapSize() }

// Push panics on values that are not Unicode scalar values.
func (c *Runes) Push(item rune) {
	if !utf8.ValidRune(item) {
		errors.Panic(errors.ErrorTypeValidation, "invalid code point", "rune", int32(item))
	}
	c.Values.Push(uint32(item))
}

func (c *Runes) Get(index int) rune {
	v := c.Values.Get(index)
	if v > utf8.MaxRune || !utf8.ValidRune(rune(v)) {
		errors.Panic(errors.ErrorTypeDecode, "stored value is not a code point", "value", v)
	}
	return rune(v)
}

func (c *Runes) Borrow() *Runes { return &Runes{Values: c.Values.Borrow()} }

func (c *Runes) ExtendFromSelf(other *Runes, start, end int) {
	c.Values.ExtendFromSelf(other.Values, start, end)
}

func (c *Runes) AsBytes(dst []Segment) []Segment { return c.Values.AsBytes(dst) }

func (c *Runes) FromBytes(r *Reader) *Runes { return &Runes{Values: c.Values.FromBytes(r)} }
