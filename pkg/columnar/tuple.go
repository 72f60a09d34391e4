package columnar

// Tuple2 stores pairs as one column per field. Both columns always have
// the same length.
type Tuple2[A, AR any, AC Column[A, AR, AC], B, BR any, BC Column[B, BR, BC]] struct {
	First  AC `json:"first"`
	Second BC `json:"second"`
}

// NewTuple2 wraps two empty columns.
func NewTuple2[A, AR, B, BR any, AC Column[A, AR, AC], BC Column[B, BR, BC]](first AC, second BC) *Tuple2[A, AR, AC, B, BR, BC] {
	return &Tuple2[A, AR, AC, B, BR, BC]{First: first, Second: second}
}

func (t *Tuple2[A, AR, AC, B, BR, BC]) Len() int { return t.First.Len() }

func (t *Tuple2[A, AR, AC, B, BR, BC]) Clear() {
	t.First.Clear()
	t.Second.Clear()
}

func (t *Tuple2[A, AR, AC, B, BR, BC]) Push(item Pair[A, B]) {
	t.First.Push(item.First)
	t.Second.Push(item.Second)
}

func (t *Tuple2[A, AR, AC, B, BR, BC]) Get(index int) Pair[AR, BR] {
	checkIndex(index, t.Len())
	return Pair[AR, BR]{First: t.First.Get(index), Second: t.Second.Get(index)}
}

func (t *Tuple2[A, AR, AC, B, BR, BC]) HeapSize() (int, int) {
	l0, c0 := t.First.HeapSize()
	l1, c1 := t.Second.HeapSize()
	return l0 + l1, c0 + c1
}

func (t *Tuple2[A, AR, AC, B, BR, BC]) Borrow() *Tuple2[A, AR, AC, B, BR, BC] {
	return &Tuple2[A, AR, AC, B, BR, BC]{First: t.First.Borrow(), Second: t.Second.Borrow()}
}

func (t *Tuple2[A, AR, AC, B, BR, BC]) ExtendFromSelf(other *Tuple2[A, AR, AC, B, BR, BC], start, end int) {
	t.First.ExtendFromSelf(other.First, start, end)
	t.Second.ExtendFromSelf(other.Second, start, end)
}

func (t *Tuple2[A, AR, AC, B, BR, BC]) AsBytes(dst []Segment) []Segment {
	return t.Second.AsBytes(t.First.AsBytes(dst))
}

func (t *Tuple2[A, AR, AC, B, BR, BC]) FromBytes(r *Reader) *Tuple2[A, AR, AC, B, BR, BC] {
	first := t.First.FromBytes(r)
	return &Tuple2[A, AR, AC, B, BR, BC]{First: first, Second: t.Second.FromBytes(r)}
}

// Tuple3 stores triples as one column per field.
type Tuple3[A, AR any, AC Column[A, AR, AC], B, BR any, BC Column[B, BR, BC], C, CR any, CC Column[C, CR, CC]] struct {
	First  AC `json:"first"`
	Second BC `json:"second"`
	Third  CC `json:"third"`
}

// NewTuple3 wraps three empty columns.
func NewTuple3[A, AR, B, BR, C, CR any, AC Column[A, AR, AC], BC Column[B, BR, BC], CC Column[C, CR, CC]](first AC, second BC, third CC) *Tuple3[A, AR, AC, B, BR, BC, C, CR, CC] {
	return &Tuple3[A, AR, AC, B, BR, BC, C, CR, CC]{First: first, Second: second, Third: third}
}

func (t *Tuple3[A, AR, AC, B, BR, BC, C, CR, CC]) Len() int { return t.First.Len() }

func (t *Tuple3[A, AR, AC, B, BR, BC, C, CR, CC]) Clear() {
	t.First.Clear()
	t.Second.Clear()
	t.Third.Clear()
}

func (t *Tuple3[A, AR, AC, B, BR, BC, C, CR, CC]) Push(item Triple[A, B, C]) {
	t.First.Push(item.First)
	t.Second.Push(item.Second)
	t.Third.Push(item.Third)
}

func (t *Tuple3[A, AR, AC, B, BR, BC, C, CR, CC]) Get(index int) Triple[AR, BR, CR] {
	checkIndex(index, t.Len())
	return Triple[AR, BR, CR]{
		First:  t.First.Get(index),
		Second: t.Second.Get(index),
		Third:  t.Third.Get(index),
	}
}

func (t *Tuple3[A, AR, AC, B, BR, BC, C, CR, CC]) HeapSize() (int, int) {
	l0, c0 := t.First.HeapSize()
	l1, c1 := t.Second.HeapSize()
	l2, c2 := t.Third.HeapSize()
	return l0 + l1 + l2, c0 + c1 + c2
}

func (t *Tuple3[A, AR, AC, B, BR, BC, C, CR, CC]) Borrow() *Tuple3[A, AR, AC, B, BR, BC, C, CR, CC] {
	return &Tuple3[A, AR, AC, B, BR, BC, C, CR, CC]{
		First:  t.First.Borrow(),
		Second: t.Second.Borrow(),
		Third:  t.Third.Borrow(),
	}
}

func (t *Tuple3[A, AR, AC, B, BR, BC, C, CR, CC]) ExtendFromSelf(other *Tuple3[A, AR, AC, B, BR, BC, C, CR, CC], start, end int) {
	t.First.ExtendFromSelf(other.First, start, end)
	t.Second.ExtendFromSelf(other.Second, start, end)
	t.Third.ExtendFromSelf(other.Third, start, end)
}

func (t *Tuple3[A, AR, AC, B, BR, BC, C, CR, CC]) AsBytes(dst []Segment) []Segment {
	dst = t.First.AsBytes(dst)
	dst = t.Second.AsBytes(dst)
	return t.Third.AsBytes(dst)
}

func (t *Tuple3[A, AR, AC, B, BR, BC, C, CR, CC]) FromBytes(r *Reader) *Tuple3[A, AR, AC, B, BR, BC, C, CR, CC] {
	first := t.First.FromBytes(r)
	second := t.Second.FromBytes(r)
	return &Tuple3[A, AR, AC, B, BR, BC, C, CR, CC]{First: first, Second: second, Third: t.Third.FromBytes(r)}
}
