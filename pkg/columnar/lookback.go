package columnar

// Repeats stores a run of equal consecutive values once. A pushed value
// equal to the last stored one is recorded as an absent Option, which
// costs one bit.
type Repeats[T, R any, C Column[T, R, C]] struct {
	Inner *Options[T, R, C] `json:"inner"`

	eq func(stored R, item T) bool
}

// NewRepeats wraps somes, comparing stored references to new items with eq.
func NewRepeats[T, R any, C Column[T, R, C]](somes C, eq func(stored R, item T) bool) *Repeats[T, R, C] {
	return &Repeats[T, R, C]{Inner: NewOptions[T, R](somes), eq: eq}
}

// NewComparableRepeats is NewRepeats for columns that read back what was pushed.
func NewComparableRepeats[T comparable, C Column[T, T, C]](somes C) *Repeats[T, T, C] {
	return NewRepeats[T, T](somes, func(stored T, item T) bool { return stored == item })
}

func (r *Repeats[T, R, C]) Len() int             { return r.Inner.Len() }
func (r *Repeats[T, R, C]) Clear()               { r.Inner.Clear() }
func (r *Repeats[T, R, C]) HeapSize() (int, int) { return r.Inner.HeapSize() }

func (r *Repeats[T, R, C]) Push(item T) {
	if n := r.Inner.Somes.Len(); n > 0 && r.eq(r.Inner.Somes.Get(n-1), item) {
		r.Inner.PushNone()
		return
	}
	r.Inner.PushSome(item)
}

func (r *Repeats[T, R, C]) Get(index int) R {
	if o := r.Inner.Get(index); o.Valid {
		return o.Value
	}
	return r.Inner.Somes.Get(r.Inner.Indexes.Rank(index) - 1)
}

func (r *Repeats[T, R, C]) Borrow() *Repeats[T, R, C] {
	return &Repeats[T, R, C]{Inner: r.Inner.Borrow(), eq: r.eq}
}

func (r *Repeats[T, R, C]) AsBytes(dst []Segment) []Segment { return r.Inner.AsBytes(dst) }

func (r *Repeats[T, R, C]) FromBytes(rd *Reader) *Repeats[T, R, C] {
	return &Repeats[T, R, C]{Inner: r.Inner.FromBytes(rd), eq: r.eq}
}

// Lookbacks stores a value that equals one of the last Depth distinct
// stored values as a one byte back reference.
type Lookbacks[T, R any, C Column[T, R, C]] struct {
	Inner *Results[T, R, C, uint8, uint8, *Primitives[uint8]] `json:"inner"`
	Depth uint8                                                `json:"depth"`

	eq func(stored R, item T) bool
}

// NewLookbacks wraps oks and searches up to depth stored values back.
func NewLookbacks[T, R any, C Column[T, R, C]](oks C, depth uint8, eq func(stored R, item T) bool) *Lookbacks[T, R, C] {
	return &Lookbacks[T, R, C]{
		Inner: NewResults[T, R, uint8, uint8](oks, NewPrimitives[uint8]()),
		Depth: depth,
		eq:    eq,
	}
}

func (l *Lookbacks[T, R, C]) Len() int             { return l.Inner.Len() }
func (l *Lookbacks[T, R, C]) Clear()               { l.Inner.Clear() }
func (l *Lookbacks[T, R, C]) HeapSize() (int, int) { return l.Inner.HeapSize() }

func (l *Lookbacks[T, R, C]) Push(item T) {
	n := l.Inner.Oks.Len()
	for back := 0; back < int(l.Depth) && back < n; back++ {
		if l.eq(l.Inner.Oks.Get(n-back-1), item) {
			l.Inner.PushErr(uint8(back))
			return
		}
	}
	l.Inner.PushOk(item)
}

func (l *Lookbacks[T, R, C]) Get(index int) R {
	r := l.Inner.Get(index)
	if r.IsOk {
		return r.Ok
	}
	last := l.Inner.Indexes.Rank(index) - 1
	return l.Inner.Oks.Get(last - int(r.Err))
}

func (l *Lookbacks[T, R, C]) Borrow() *Lookbacks[T, R, C] {
	return &Lookbacks[T, R, C]{Inner: l.Inner.Borrow(), Depth: l.Depth, eq: l.eq}
}

func (l *Lookbacks[T, R, C]) AsBytes(dst []Segment) []Segment { return l.Inner.AsBytes(dst) }

func (l *Lookbacks[T, R, C]) FromBytes(rd *Reader) *Lookbacks[T, R, C] {
	return &Lookbacks[T, R, C]{Inner: l.Inner.FromBytes(rd), Depth: l.Depth, eq: l.eq}
}
