package encoding

import (
	"io"

	"github.com/ajitpratap0/columnar/pkg/columnar"
	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/metrics"
)

// Indexed writes n+1 byte offsets followed by the n segments, each padded
// to a word. The first offset is where the table ends; each later offset
// is where its segment ends. A segment starts at the previous offset
// rounded up to a multiple of eight.
//
// Offsets count from the start of the encoding, so Encode into a non-empty
// dst must be decoded from that position.
type Indexed struct{}

// Name implements Format.
func (Indexed) Name() string { return "indexed" }

// LengthInWords implements Format.
func (Indexed) LengthInWords(c columnar.AsBytes) int {
	n := 1
	for _, s := range c.AsBytes(nil) {
		n += 1 + wordsFor(len(s.Data))
	}
	return n
}

// LengthInBytes implements Format.
func (f Indexed) LengthInBytes(c columnar.AsBytes) int { return 8 * f.LengthInWords(c) }

func offsets(segments []columnar.Segment) []uint64 {
	table := make([]uint64, 0, len(segments)+1)
	position := uint64(8 * (len(segments) + 1))
	table = append(table, position)
	for _, s := range segments {
		checkAlign(s)
		table = append(table, position+uint64(len(s.Data)))
		position += uint64(8 * wordsFor(len(s.Data)))
	}
	return table
}

// Encode implements Format.
func (f Indexed) Encode(dst []uint64, c columnar.AsBytes) []uint64 {
	timer := metrics.NewTimer()
	start := len(dst)
	segments := c.AsBytes(nil)
	dst = append(dst, offsets(segments)...)
	for _, s := range segments {
		dst = appendPadded(dst, s.Data)
	}
	observe(f, len(segments), len(dst)-start, timer)
	return dst
}

// Write implements Format.
func (Indexed) Write(w io.Writer, c columnar.AsBytes) error {
	segments := c.AsBytes(nil)
	for _, offset := range offsets(segments) {
		if err := writeWord(w, offset); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write offset table")
		}
	}
	for _, s := range segments {
		if err := writePadded(w, s.Data); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write segment")
		}
	}
	return nil
}

// Count returns the number of segments in an Indexed encoding.
func (Indexed) Count(words []uint64) (int, error) {
	if len(words) == 0 {
		return 0, errors.New(errors.ErrorTypeDecode, "empty indexed encoding")
	}
	end := words[0]
	if end%8 != 0 || end < 8 || end > uint64(8*len(words)) {
		return 0, errors.New(errors.ErrorTypeDecode, "malformed offset table").
			WithDetail("table_end", end).
			WithDetail("words", len(words))
	}
	return int(end/8) - 1, nil
}

// Decode implements Format. Every offset is checked before any segment
// is returned.
func (f Indexed) Decode(words []uint64) ([][]byte, error) {
	n, err := f.Count(words)
	if err != nil {
		return nil, err
	}
	limit := uint64(8 * len(words))
	for i := 0; i < n; i++ {
		lower, upper := roundUp(words[i]), words[i+1]
		if lower > upper || upper > limit {
			return nil, errors.New(errors.ErrorTypeDecode, "segment offsets out of range").
				WithDetail("segment", i).
				WithDetail("lower", lower).
				WithDetail("upper", upper).
				WithDetail("limit", limit)
		}
	}

	out := make([][]byte, n)
	for i := range out {
		out[i] = f.DecodeIndex(words, i)
	}
	return out, nil
}

// DecodeIndex returns segment i without decoding the others. The result
// starts on a word boundary. It panics when i is out of range.
func (Indexed) DecodeIndex(words []uint64, i int) []byte {
	if len(words) == 0 || i < 0 || uint64(i+1) >= words[0]/8 {
		n := 0
		if len(words) > 0 {
			n = int(words[0]/8) - 1
		}
		errors.OutOfBounds(i, n)
	}
	lower, upper := roundUp(words[i]), words[i+1]
	return columnar.BytesOf(words)[lower:upper]
}

func roundUp(n uint64) uint64 { return (n + 7) &^ 7 }
