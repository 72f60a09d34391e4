package columnar

import "github.com/ajitpratap0/columnar/pkg/errors"

// Segment is one contiguous buffer produced by AsBytes, with the alignment
// its element type requires.
type Segment struct {
	Align uint64
	Data  []byte
}

// Segments collects the segments of c.
func Segments(c AsBytes) []Segment {
	return c.AsBytes(nil)
}

// Payloads drops the alignment of each segment.
func Payloads(segments []Segment) [][]byte {
	out := make([][]byte, len(segments))
	for i, s := range segments {
		out[i] = s.Data
	}
	return out
}

// Reader hands out byte slices to FromBytes implementations in order.
type Reader struct {
	segments [][]byte
	pos      int
}

// NewReader returns a Reader over segments.
func NewReader(segments [][]byte) *Reader {
	return &Reader{segments: segments}
}

// Next returns the next slice. It panics when none are left, which means
// the reading shape does not match the shape that was written.
func (r *Reader) Next() []byte {
	if r.pos >= len(r.segments) {
		errors.Panic(errors.ErrorTypeDecode, "iterator exhausted prematurely", "consumed", r.pos)
	}
	b := r.segments[r.pos]
	r.pos++
	return b
}

// Remaining returns the number of unread slices.
func (r *Reader) Remaining() int { return len(r.segments) - r.pos }

// Consumed returns the number of slices read so far.
func (r *Reader) Consumed() int { return r.pos }

// Rebuild decodes the segments of c through proto. It is the in-memory form
// of an encode/decode round trip.
func Rebuild[C FromBytes[C]](proto C, c AsBytes) C {
	return proto.FromBytes(NewReader(Payloads(c.AsBytes(nil))))
}
