package encoding

import (
	"io"

	"github.com/ajitpratap0/columnar/pkg/columnar"
	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/metrics"
)

// Sequence writes every segment as its length in bytes followed by the
// bytes, zero padded to the next word.
type Sequence struct{}

// Name implements Format.
func (Sequence) Name() string { return "sequence" }

// LengthInWords implements Format.
func (Sequence) LengthInWords(c columnar.AsBytes) int {
	n := 0
	for _, s := range c.AsBytes(nil) {
		n += 1 + wordsFor(len(s.Data))
	}
	return n
}

// LengthInBytes implements Format.
func (f Sequence) LengthInBytes(c columnar.AsBytes) int { return 8 * f.LengthInWords(c) }

// Encode implements Format. It panics when a segment asks for alignment
// above eight bytes.
func (f Sequence) Encode(dst []uint64, c columnar.AsBytes) []uint64 {
	timer := metrics.NewTimer()
	start := len(dst)
	segments := c.AsBytes(nil)
	for _, s := range segments {
		checkAlign(s)
		dst = append(dst, uint64(len(s.Data)))
		dst = appendPadded(dst, s.Data)
	}
	observe(f, len(segments), len(dst)-start, timer)
	return dst
}

// Write implements Format.
func (Sequence) Write(w io.Writer, c columnar.AsBytes) error {
	for _, s := range c.AsBytes(nil) {
		checkAlign(s)
		if err := writeWord(w, uint64(len(s.Data))); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write segment length")
		}
		if err := writePadded(w, s.Data); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write segment")
		}
	}
	return nil
}

// Decode implements Format.
func (Sequence) Decode(words []uint64) ([][]byte, error) {
	var out [][]byte
	d := NewDecoder(words)
	for {
		b, ok := d.Next()
		if !ok {
			break
		}
		out = append(out, b)
	}
	return out, d.Err()
}

// Decoder walks a Sequence encoding one segment at a time.
type Decoder struct {
	words []uint64
	pos   int
	err   error
}

// NewDecoder returns a Decoder over words.
func NewDecoder(words []uint64) *Decoder {
	return &Decoder{words: words}
}

// Next returns the next segment. It returns false at the end of the input
// or when the input is truncated, in which case Err says so.
func (d *Decoder) Next() ([]byte, bool) {
	if d.err != nil || len(d.words) == 0 {
		return nil, false
	}
	length := d.words[0]
	if length > uint64(8*(len(d.words)-1)) {
		d.err = errors.New(errors.ErrorTypeDecode, "segment length exceeds remaining input").
			WithDetail("segment", d.pos).
			WithDetail("length", length).
			WithDetail("remaining", 8*(len(d.words)-1))
		return nil, false
	}
	n := wordsFor(int(length))
	b := columnar.BytesOf(d.words[1 : 1+n])[:length]
	d.words = d.words[1+n:]
	d.pos++
	return b, true
}

// Err returns the error that stopped Next, if any.
func (d *Decoder) Err() error { return d.err }
