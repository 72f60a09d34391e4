package columnar

// Results stores Result values as a bitmap of Ok positions plus one column
// per variant. A set bit at i means the value is Oks[Rank(i)], a clear bit
// means Errs[i-Rank(i)]. No discriminant is stored beyond the bitmap.
type Results[S, SR any, SC Column[S, SR, SC], E, ER any, EC Column[E, ER, EC]] struct {
	Indexes *RankSelect `json:"indexes"`
	Oks     SC          `json:"oks"`
	Errs    EC          `json:"errs"`
}

// NewResults wraps oks and errs, which must be empty.
func NewResults[S, SR any, E, ER any, SC Column[S, SR, SC], EC Column[E, ER, EC]](oks SC, errs EC) *Results[S, SR, SC, E, ER, EC] {
	return &Results[S, SR, SC, E, ER, EC]{Indexes: NewRankSelect(), Oks: oks, Errs: errs}
}

func (r *Results[S, SR, SC, E, ER, EC]) Len() int { return r.Indexes.Len() }

func (r *Results[S, SR, SC, E, ER, EC]) Clear() {
	r.Indexes.Clear()
	r.Oks.Clear()
	r.Errs.Clear()
}

func (r *Results[S, SR, SC, E, ER, EC]) Push(item Result[S, E]) {
	if item.IsOk {
		r.PushOk(item.Ok)
		return
	}
	r.PushErr(item.Err)
}

// PushOk appends an Ok value.
func (r *Results[S, SR, SC, E, ER, EC]) PushOk(v S) {
	r.Indexes.Push(true)
	r.Oks.Push(v)
}

// PushErr appends an Err value.
func (r *Results[S, SR, SC, E, ER, EC]) PushErr(e E) {
	r.Indexes.Push(false)
	r.Errs.Push(e)
}

func (r *Results[S, SR, SC, E, ER, EC]) Get(index int) Result[SR, ER] {
	checkIndex(index, r.Len())
	rank := r.Indexes.Rank(index)
	if r.Indexes.Get(index) {
		return Ok[SR, ER](r.Oks.Get(rank))
	}
	return Err[SR](r.Errs.Get(index - rank))
}

// Locate returns the variant of index and its offset in Oks or Errs.
// Payloads can be edited in place through those columns; the variant of a
// position is fixed once pushed.
func (r *Results[S, SR, SC, E, ER, EC]) Locate(index int) (bool, int) {
	checkIndex(index, r.Len())
	rank := r.Indexes.Rank(index)
	if r.Indexes.Get(index) {
		return true, rank
	}
	return false, index - rank
}

func (r *Results[S, SR, SC, E, ER, EC]) HeapSize() (int, int) {
	l0, c0 := r.Indexes.HeapSize()
	l1, c1 := r.Oks.HeapSize()
	l2, c2 := r.Errs.HeapSize()
	return l0 + l1 + l2, c0 + c1 + c2
}

func (r *Results[S, SR, SC, E, ER, EC]) Borrow() *Results[S, SR, SC, E, ER, EC] {
	return &Results[S, SR, SC, E, ER, EC]{
		Indexes: r.Indexes.Borrow(),
		Oks:     r.Oks.Borrow(),
		Errs:    r.Errs.Borrow(),
	}
}

func (r *Results[S, SR, SC, E, ER, EC]) ExtendFromSelf(other *Results[S, SR, SC, E, ER, EC], start, end int) {
	checkRange(start, end, other.Len())
	if start == end {
		return
	}
	oksStart := other.Indexes.Rank(start)
	errsStart := start - oksStart

	oks := 0
	for i := start; i < end; i++ {
		bit := other.Indexes.Get(i)
		r.Indexes.Push(bit)
		if bit {
			oks++
		}
	}
	errs := (end - start) - oks

	r.Oks.ExtendFromSelf(other.Oks, oksStart, oksStart+oks)
	r.Errs.ExtendFromSelf(other.Errs, errsStart, errsStart+errs)
}

func (r *Results[S, SR, SC, E, ER, EC]) AsBytes(dst []Segment) []Segment {
	dst = r.Indexes.AsBytes(dst)
	dst = r.Oks.AsBytes(dst)
	return r.Errs.AsBytes(dst)
}

func (r *Results[S, SR, SC, E, ER, EC]) FromBytes(rd *Reader) *Results[S, SR, SC, E, ER, EC] {
	indexes := r.Indexes.FromBytes(rd)
	oks := r.Oks.FromBytes(rd)
	return &Results[S, SR, SC, E, ER, EC]{Indexes: indexes, Oks: oks, Errs: r.Errs.FromBytes(rd)}
}
