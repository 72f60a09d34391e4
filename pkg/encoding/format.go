package encoding

import (
	"encoding/binary"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/columnar/pkg/columnar"
	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/logger"
	"github.com/ajitpratap0/columnar/pkg/metrics"
)

// Format is a coupled encoder and decoder for segment sequences.
type Format interface {
	// Name identifies the format in configuration and metrics.
	Name() string
	// LengthInWords is the number of words Encode appends for c.
	LengthInWords(c columnar.AsBytes) int
	// LengthInBytes is always eight times LengthInWords.
	LengthInBytes(c columnar.AsBytes) int
	// Encode appends the encoding of c to dst.
	Encode(dst []uint64, c columnar.AsBytes) []uint64
	// Write streams the same bytes Encode would produce.
	Write(w io.Writer, c columnar.AsBytes) error
	// Decode splits words back into segment payloads. The payloads alias
	// words.
	Decode(words []uint64) ([][]byte, error)
}

// ParseFormat returns the format with the given name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "sequence":
		return Sequence{}, nil
	case "indexed":
		return Indexed{}, nil
	default:
		return nil, errors.New(errors.ErrorTypeUnsupported, "unknown encoding format").WithDetail("format", name)
	}
}

// Read decodes words with f and rebuilds a container shaped like proto.
// Malformed input is reported as an error rather than a panic, and so are
// segments left over after the container is rebuilt.
func Read[C columnar.FromBytes[C]](f Format, proto C, words []uint64) (C, error) {
	var out C
	segments, err := f.Decode(words)
	if err != nil {
		return out, err
	}

	r := columnar.NewReader(segments)
	if err := errors.Catch(func() { out = proto.FromBytes(r) }); err != nil {
		return out, errors.Wrap(err, errors.ErrorTypeDecode, "failed to rebuild container").
			WithDetail("format", f.Name())
	}
	if r.Remaining() != 0 {
		return out, errors.New(errors.ErrorTypeDecode, "trailing segments after container").
			WithDetail("format", f.Name()).
			WithDetail("remaining", r.Remaining())
	}
	return out, nil
}

func wordsFor(n int) int { return (n + 7) / 8 }

func checkAlign(s columnar.Segment) {
	if s.Align > 8 {
		errors.Panic(errors.ErrorTypeLayout, "segment alignment exceeds eight bytes", "align", s.Align)
	}
}

// appendPadded appends b to dst, zero padding the last word.
func appendPadded(dst []uint64, b []byte) []uint64 {
	start := len(dst)
	dst = append(dst, make([]uint64, wordsFor(len(b)))...)
	copy(columnar.BytesOf(dst[start:]), b)
	return dst
}

var padding [8]byte

func writeWord(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writePadded(w io.Writer, b []byte) error {
	if _, err := w.Write(b); err != nil {
		return err
	}
	if pad := (8 - len(b)%8) % 8; pad > 0 {
		if _, err := w.Write(padding[:pad]); err != nil {
			return err
		}
	}
	return nil
}

func observe(f Format, segments, n int, timer *metrics.Timer) {
	elapsed := timer.Stop()
	metrics.ObserveEncode(f.Name(), 8*n, elapsed)
	logger.Debug("encoded container",
		zap.String("format", f.Name()),
		zap.Int("segments", segments),
		zap.Int("words", n),
		zap.Duration("took", elapsed))
}
