package columnar

// Bools packs booleans 64 to a word. Complete words live in Values; the
// word being filled lives in LastWord with LastBits bits used.
type Bools struct {
	Values   *Primitives[uint64] `json:"values"`
	LastWord uint64              `json:"last_word"`
	LastBits uint64              `json:"last_bits"`
}

// NewBools returns an empty container.
func NewBools() *Bools {
	return &Bools{Values: NewPrimitives[uint64]()}
}

func (b *Bools) Len() int {
	return 64*b.Values.Len() + int(b.LastBits)
}

func (b *Bools) Clear() {
	b.Values.Clear()
	b.LastWord = 0
	b.LastBits = 0
}

func (b *Bools) Push(bit bool) {
	if bit {
		b.LastWord |= 1 << b.LastBits
	}
	b.LastBits++
	if b.LastBits == 64 {
		b.Values.Push(b.LastWord)
		b.LastWord = 0
		b.LastBits = 0
	}
}

// Extend pushes every bit.
func (b *Bools) Extend(bits []bool) {
	for _, bit := range bits {
		b.Push(bit)
	}
}

func (b *Bools) Get(index int) bool {
	checkIndex(index, b.Len())
	return (b.word(index/64)>>(index%64))&1 == 1
}

// word returns the block'th word, which is LastWord for the partial block.
func (b *Bools) word(block int) uint64 {
	if block == len(b.Values.Values) {
		return b.LastWord
	}
	return b.Values.Values[block]
}

func (b *Bools) HeapSize() (int, int) {
	return b.Values.HeapSize()
}

func (b *Bools) Borrow() *Bools {
	return &Bools{Values: b.Values.Borrow(), LastWord: b.LastWord, LastBits: b.LastBits}
}

// ExtendFromSelf copies whole words when both sides are word aligned and
// falls back to bit pushes for the rest.
func (b *Bools) ExtendFromSelf(other *Bools, start, end int) {
	checkRange(start, end, other.Len())
	if b.LastBits == 0 && start%64 == 0 {
		whole := (end - start) / 64
		first := start / 64
		b.Values.ExtendFromSelf(other.Values, first, first+whole)
		start += 64 * whole
	}
	for i := start; i < end; i++ {
		b.Push(other.Get(i))
	}
}

func (b *Bools) AsBytes(dst []Segment) []Segment {
	dst = b.Values.AsBytes(dst)
	dst = append(dst, Segment{Align: 8, Data: wordBytes(&b.LastWord)})
	return append(dst, Segment{Align: 8, Data: wordBytes(&b.LastBits)})
}

func (b *Bools) FromBytes(r *Reader) *Bools {
	values := b.Values.FromBytes(r)
	lastWord := readWord(r.Next())
	lastBits := readWord(r.Next())
	return &Bools{Values: values, LastWord: lastWord, LastBits: lastBits}
}
