package columnar

import (
	"math/bits"

	"github.com/ajitpratap0/columnar/pkg/errors"
)

const (
	// blockWords is the number of words summarised by one entry of Counts.
	blockWords = 16
	blockBits  = 64 * blockWords
)

// RankSelect is a bit vector with rank and select support.
//
// Counts holds the cumulative number of set bits after each complete block
// of 1024 bits, about 6% over the bits themselves. Rank reads one count and
// scans at most 16 words.
type RankSelect struct {
	Counts *Primitives[uint64] `json:"counts"`
	Values *Bools              `json:"values"`
}

// NewRankSelect returns an empty bit vector.
func NewRankSelect() *RankSelect {
	return &RankSelect{Counts: NewPrimitives[uint64](), Values: NewBools()}
}

func (r *RankSelect) Len() int { return r.Values.Len() }

func (r *RankSelect) Clear() {
	r.Counts.Clear()
	r.Values.Clear()
}

func (r *RankSelect) Get(index int) bool { return r.Values.Get(index) }

func (r *RankSelect) Push(bit bool) {
	r.Values.Push(bit)
	for r.Counts.Len() < r.Values.Len()/blockBits {
		count, _ := r.Counts.Last()
		lower := blockWords * r.Counts.Len()
		for _, w := range r.Values.Values.Values[lower : lower+blockWords] {
			count += uint64(bits.OnesCount64(w))
		}
		r.Counts.Push(count)
	}
}

// Rank returns the number of set bits strictly before index. Index may
// equal Len().
func (r *RankSelect) Rank(index int) int {
	if index < 0 || index > r.Len() {
		errors.OutOfBounds(index, r.Len())
	}
	bit := index % 64
	block := index / 64
	chunk := block / blockWords

	count := 0
	if chunk > 0 {
		count = int(r.Counts.Values[chunk-1])
	}
	words := r.Values.Values.Values
	for _, w := range words[blockWords*chunk : block] {
		count += bits.OnesCount64(w)
	}
	mask := uint64(1)<<bit - 1
	return count + bits.OnesCount64(r.Values.word(block)&mask)
}

// Select returns the position of the rank'th set bit, counting from one.
// It reports false when fewer than rank bits are set.
func (r *RankSelect) Select(rank int) (int, bool) {
	if rank <= 0 {
		return 0, false
	}
	target := uint64(rank)

	// Find the first block whose cumulative count reaches the target.
	counts := r.Counts.Values
	chunk := 0
	for chunk < len(counts) && counts[chunk] < target {
		chunk++
	}
	var count uint64
	if chunk > 0 {
		count = counts[chunk-1]
	}

	// Then the word within it.
	words := r.Values.Values.Values
	block := blockWords * chunk
	for block < len(words) {
		ones := uint64(bits.OnesCount64(words[block]))
		if count+ones >= target {
			break
		}
		count += ones
		block++
	}

	// Then the bit within the word.
	width := uint64(64)
	if block == len(words) {
		width = r.Values.LastBits
	}
	word := r.Values.word(block)
	for shift := uint64(0); shift < width; shift++ {
		if (word>>shift)&1 == 1 {
			count++
			if count == target {
				return 64*block + int(shift), true
			}
		}
	}
	return 0, false
}

// Ones returns the total number of set bits.
func (r *RankSelect) Ones() int { return r.Rank(r.Len()) }

func (r *RankSelect) HeapSize() (int, int) {
	l0, c0 := r.Counts.HeapSize()
	l1, c1 := r.Values.HeapSize()
	return l0 + l1, c0 + c1
}

func (r *RankSelect) Borrow() *RankSelect {
	return &RankSelect{Counts: r.Counts.Borrow(), Values: r.Values.Borrow()}
}

func (r *RankSelect) ExtendFromSelf(other *RankSelect, start, end int) {
	checkRange(start, end, other.Len())
	for i := start; i < end; i++ {
		r.Push(other.Get(i))
	}
}

func (r *RankSelect) AsBytes(dst []Segment) []Segment {
	return r.Values.AsBytes(r.Counts.AsBytes(dst))
}

func (r *RankSelect) FromBytes(rd *Reader) *RankSelect {
	counts := r.Counts.FromBytes(rd)
	return &RankSelect{Counts: counts, Values: r.Values.FromBytes(rd)}
}
