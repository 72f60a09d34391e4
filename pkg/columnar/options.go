package columnar

// Options stores Option values as a presence bitmap plus a column holding
// only the present values. A set bit at i means the value is at
// Somes[Rank(i)]; absent values take no payload space.
type Options[T, R any, C Column[T, R, C]] struct {
	Indexes *RankSelect `json:"indexes"`
	Somes   C           `json:"somes"`
}

// NewOptions wraps somes, which must be empty.
func NewOptions[T, R any, C Column[T, R, C]](somes C) *Options[T, R, C] {
	return &Options[T, R, C]{Indexes: NewRankSelect(), Somes: somes}
}

func (o *Options[T, R, C]) Len() int { return o.Indexes.Len() }

func (o *Options[T, R, C]) Clear() {
	o.Indexes.Clear()
	o.Somes.Clear()
}

func (o *Options[T, R, C]) Push(item Option[T]) {
	if item.Valid {
		o.PushSome(item.Value)
		return
	}
	o.PushNone()
}

// PushSome appends a present value.
func (o *Options[T, R, C]) PushSome(v T) {
	o.Indexes.Push(true)
	o.Somes.Push(v)
}

// PushNone appends an absent value.
func (o *Options[T, R, C]) PushNone() {
	o.Indexes.Push(false)
}

func (o *Options[T, R, C]) Get(index int) Option[R] {
	checkIndex(index, o.Len())
	if o.Indexes.Get(index) {
		return Some(o.Somes.Get(o.Indexes.Rank(index)))
	}
	return None[R]()
}

// Locate reports whether index is present and, if so, its offset in Somes.
// Payloads can be edited in place through Somes; presence cannot.
func (o *Options[T, R, C]) Locate(index int) (bool, int) {
	checkIndex(index, o.Len())
	if o.Indexes.Get(index) {
		return true, o.Indexes.Rank(index)
	}
	return false, 0
}

func (o *Options[T, R, C]) HeapSize() (int, int) {
	l0, c0 := o.Indexes.HeapSize()
	l1, c1 := o.Somes.HeapSize()
	return l0 + l1, c0 + c1
}

func (o *Options[T, R, C]) Borrow() *Options[T, R, C] {
	return &Options[T, R, C]{Indexes: o.Indexes.Borrow(), Somes: o.Somes.Borrow()}
}

func (o *Options[T, R, C]) ExtendFromSelf(other *Options[T, R, C], start, end int) {
	checkRange(start, end, other.Len())
	if start == end {
		return
	}
	somesStart := other.Indexes.Rank(start)
	somes := 0
	for i := start; i < end; i++ {
		bit := other.Indexes.Get(i)
		o.Indexes.Push(bit)
		if bit {
			somes++
		}
	}
	o.Somes.ExtendFromSelf(other.Somes, somesStart, somesStart+somes)
}

func (o *Options[T, R, C]) AsBytes(dst []Segment) []Segment {
	return o.Somes.AsBytes(o.Indexes.AsBytes(dst))
}

func (o *Options[T, R, C]) FromBytes(r *Reader) *Options[T, R, C] {
	indexes := o.Indexes.FromBytes(r)
	return &Options[T, R, C]{Indexes: indexes, Somes: o.Somes.FromBytes(r)}
}

// GetOwned converts the value at index back to an owned T with own.
func (o *Options[T, R, C]) GetOwned(index int, own func(R) T) Option[T] {
	v := o.Get(index)
	if !v.Valid {
		return None[T]()
	}
	return Some(own(v.Value))
}
