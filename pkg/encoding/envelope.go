package encoding

import (
	"bytes"
	"context"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/ajitpratap0/columnar/pkg/columnar"
	"github.com/ajitpratap0/columnar/pkg/compression"
	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/logger"
	"github.com/ajitpratap0/columnar/pkg/metrics"
)

// Envelope header layout, little endian:
//
//	0  magic "CLMN"
//	4  version
//	5  algorithm id
//	6  reserved
//	8  raw length in bytes
//	16 xxhash64 of the raw bytes
const (
	EnvelopeVersion    = 1
	EnvelopeHeaderSize = 24
)

var envelopeMagic = []byte("CLMN")

// Header describes a sealed buffer.
type Header struct {
	Version   uint8
	Algorithm compression.Algorithm
	RawLength uint64
	Checksum  uint64
}

// IsEnvelope reports whether b starts with an envelope header.
func IsEnvelope(b []byte) bool {
	return len(b) >= EnvelopeHeaderSize && bytes.Equal(b[:4], envelopeMagic)
}

// Seal compresses an encoded word buffer with c and prefixes a header.
func Seal(words []uint64, c compression.Compressor) ([]byte, error) {
	raw := columnar.BytesOf(words)
	compressed, err := c.Compress(raw)
	if err != nil {
		return nil, err
	}

	out := seal(raw, compressed, c.Algorithm())
	metrics.ObserveCompression(string(c.Algorithm()), len(raw), len(compressed))
	logger.Debug("sealed envelope",
		zap.String("algorithm", string(c.Algorithm())),
		zap.Int("raw_bytes", len(raw)),
		zap.Int("sealed_bytes", len(out)))
	return out, nil
}

// SealAll seals each buffer like Seal, compressing up to workers buffers
// at once. The output keeps the input order.
func SealAll(ctx context.Context, buffers [][]uint64, c compression.Compressor, workers int) ([][]byte, error) {
	raw := make([][]byte, len(buffers))
	for i, words := range buffers {
		raw[i] = columnar.BytesOf(words)
	}
	compressed, err := compression.CompressAll(ctx, c, raw, workers)
	if err != nil {
		return nil, err
	}

	out := make([][]byte, len(buffers))
	for i := range raw {
		out[i] = seal(raw[i], compressed[i], c.Algorithm())
	}
	return out, nil
}

func seal(raw, compressed []byte, algo compression.Algorithm) []byte {
	out := make([]byte, EnvelopeHeaderSize, EnvelopeHeaderSize+len(compressed))
	copy(out, envelopeMagic)
	out[4] = EnvelopeVersion
	out[5] = algo.ID()
	binary.LittleEndian.PutUint64(out[8:], uint64(len(raw)))
	binary.LittleEndian.PutUint64(out[16:], xxhash.Sum64(raw))
	return append(out, compressed...)
}

// ParseHeader reads the header of a sealed buffer.
func ParseHeader(b []byte) (Header, error) {
	if !IsEnvelope(b) {
		return Header{}, errors.New(errors.ErrorTypeDecode, "missing envelope header").WithDetail("len", len(b))
	}
	h := Header{
		Version:   b[4],
		RawLength: binary.LittleEndian.Uint64(b[8:]),
		Checksum:  binary.LittleEndian.Uint64(b[16:]),
	}
	if h.Version != EnvelopeVersion {
		return h, errors.New(errors.ErrorTypeDecode, "unsupported envelope version").WithDetail("version", h.Version)
	}
	algo, err := compression.AlgorithmFromID(b[5])
	if err != nil {
		return h, errors.Wrap(err, errors.ErrorTypeDecode, "invalid envelope")
	}
	h.Algorithm = algo
	if h.RawLength%8 != 0 {
		return h, errors.New(errors.ErrorTypeDecode, "envelope payload is not a whole number of words").
			WithDetail("raw_length", h.RawLength)
	}
	return h, nil
}

// Open verifies and decompresses a sealed buffer into freshly allocated,
// word aligned memory.
func Open(b []byte) ([]uint64, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	if h.RawLength > compression.DefaultMaxDecompressedSize {
		return nil, errors.New(errors.ErrorTypeDecode, "envelope payload too large").
			WithDetail("raw_length", h.RawLength)
	}

	c, err := compression.Get(compression.Config{Algorithm: h.Algorithm, Level: compression.Default})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeDecode, "invalid envelope")
	}
	raw, err := c.Decompress(b[EnvelopeHeaderSize:])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeDecode, "failed to decompress envelope")
	}
	if uint64(len(raw)) != h.RawLength {
		return nil, errors.New(errors.ErrorTypeDecode, "envelope length mismatch").
			WithDetail("want", h.RawLength).
			WithDetail("got", len(raw))
	}
	if sum := xxhash.Sum64(raw); sum != h.Checksum {
		return nil, errors.New(errors.ErrorTypeDecode, "envelope checksum mismatch").
			WithDetail("want", h.Checksum).
			WithDetail("got", sum)
	}

	words := make([]uint64, len(raw)/8)
	copy(columnar.BytesOf(words), raw)
	return words, nil
}
