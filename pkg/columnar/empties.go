package columnar

// Empties counts values that carry no data.
type Empties struct {
	Count uint64 `json:"count"`
}

// NewEmpties returns an empty container.
func NewEmpties() *Empties { return &Empties{} }

func (e *Empties) Len() int             { return int(e.Count) }
func (e *Empties) Clear()               { e.Count = 0 }
func (e *Empties) Push(struct{})        { e.Count++ }
func (e *Empties) HeapSize() (int, int) { return 0, 0 }
func (e *Empties) Borrow() *Empties     { return &Empties{Count: e.Count} }
func (e *Empties) GetMut(int) *struct{} { return &struct{}{} }

func (e *Empties) Get(index int) struct{} {
	checkIndex(index, e.Len())
	return struct{}{}
}

func (e *Empties) ExtendFromSelf(other *Empties, start, end int) {
	checkRange(start, end, other.Len())
	e.Count += uint64(end - start)
}

func (e *Empties) AsBytes(dst []Segment) []Segment {
	return append(dst, Segment{Align: 8, Data: wordBytes(&e.Count)})
}

func (e *Empties) FromBytes(r *Reader) *Empties {
	return &Empties{Count: readWord(r.Next())}
}
