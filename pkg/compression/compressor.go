// Package compression provides block compressors for encoded container
// buffers, with multiple algorithms, configurable levels and pooled
// buffers.
//
// # Overview
//
// The compression package provides:
//   - Multiple compression algorithms (Gzip, Snappy, LZ4, Zstd, S2, Deflate)
//   - Configurable compression levels (Fastest, Default, Better, Best)
//   - A cached registry so encoders and decoders are built once per config
//   - Decompression size limits for input that comes from outside the process
//   - Parallel compression of independent blocks
//
// # Algorithm Selection
//
// Encoded containers are mostly little integers and padding, which every
// algorithm here handles well:
//   - Snappy/S2: Best for speed, moderate compression
//   - LZ4: Extremely fast, decent compression
//   - Zstd: Best compression ratio, good speed
//   - Gzip/Deflate: Wide compatibility
//
// # Basic Usage
//
//	comp, err := compression.Get(compression.Config{
//	    Algorithm: compression.Zstd,
//	    Level:     compression.Default,
//	})
//	compressed, err := comp.Compress(raw)
//	original, err := comp.Decompress(compressed)
package compression

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/pool"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Snappy represents snappy compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 frame compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
	// Deflate represents raw deflate compression
	Deflate Algorithm = "deflate"
)

// Algorithms lists every supported algorithm in id order.
var Algorithms = []Algorithm{None, Gzip, Snappy, LZ4, Zstd, S2, Deflate}

// ID returns the stable one-byte identifier stored in envelope headers.
// Unknown algorithms return 0xff.
func (a Algorithm) ID() byte {
	for i, known := range Algorithms {
		if a == known {
			return byte(i)
		}
	}
	return 0xff
}

// AlgorithmFromID is the inverse of Algorithm.ID.
func AlgorithmFromID(id byte) (Algorithm, error) {
	if int(id) >= len(Algorithms) {
		return "", errors.New(errors.ErrorTypeUnsupported, "unknown compression algorithm id").
			WithDetail("id", id)
	}
	return Algorithms[id], nil
}

// ParseAlgorithm parses a case-insensitive algorithm name. The empty
// string means None.
func ParseAlgorithm(s string) (Algorithm, error) {
	if s == "" {
		return None, nil
	}
	a := Algorithm(strings.ToLower(s))
	if a.ID() == 0xff {
		return "", errors.New(errors.ErrorTypeUnsupported, "unsupported compression algorithm").
			WithDetail("algorithm", s)
	}
	return a, nil
}

// Level represents compression level, controlling the trade-off between
// compression speed and compression ratio.
type Level int

const (
	// Fastest prioritizes speed over compression ratio.
	Fastest Level = 1
	// Default balances speed and compression.
	Default Level = 5
	// Better improves compression at cost of speed.
	Better Level = 7
	// Best maximizes compression ratio.
	Best Level = 9
)

var levelNames = map[Level]string{
	Fastest: "fastest",
	Default: "default",
	Better:  "better",
	Best:    "best",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "default"
}

// ParseLevel parses a level name. The empty string means Default.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return Default, nil
	}
	for level, name := range levelNames {
		if strings.EqualFold(name, s) {
			return level, nil
		}
	}
	return 0, errors.New(errors.ErrorTypeConfig, "unknown compression level").WithDetail("level", s)
}

// DefaultMaxDecompressedSize bounds the output of Decompress when a config
// leaves MaxDecompressedSize at zero.
const DefaultMaxDecompressedSize = 1 << 30

// Compressor provides compression and decompression of whole blocks.
// All implementations are safe for concurrent use.
type Compressor interface {
	// Compress compresses data and returns a new slice.
	Compress(data []byte) ([]byte, error)

	// Decompress reverses Compress. It fails with ErrorTypeCompression when
	// the output would exceed the configured size limit.
	Decompress(data []byte) ([]byte, error)

	// Algorithm returns the compression algorithm used.
	Algorithm() Algorithm

	// Level returns the compression level configured.
	Level() Level
}

// Config represents compressor configuration.
//
// Example:
//
//	config := compression.Config{
//	    Algorithm:           compression.Zstd,
//	    Level:               compression.Better,
//	    MaxDecompressedSize: 64 << 20,
//	}
type Config struct {
	Algorithm           Algorithm `yaml:"algorithm" json:"algorithm"`
	Level               Level     `yaml:"level" json:"level"`
	MaxDecompressedSize int64     `yaml:"max_decompressed_size" json:"max_decompressed_size"`
}

// DefaultConfig returns Snappy at the default level.
func DefaultConfig() Config {
	return Config{
		Algorithm:           Snappy,
		Level:               Default,
		MaxDecompressedSize: DefaultMaxDecompressedSize,
	}
}

func (c Config) limit() int64 {
	if c.MaxDecompressedSize <= 0 {
		return DefaultMaxDecompressedSize
	}
	return c.MaxDecompressedSize
}

// NewCompressor creates a compressor for config.
//
// Example:
//
//	fast, _ := compression.NewCompressor(compression.Config{Algorithm: compression.LZ4, Level: compression.Fastest})
//	small, _ := compression.NewCompressor(compression.Config{Algorithm: compression.Zstd, Level: compression.Best})
func NewCompressor(config Config) (Compressor, error) {
	base := baseCompressor{algorithm: config.Algorithm, level: config.Level, limit: config.limit()}

	switch config.Algorithm {
	case None, "":
		base.algorithm = None
		return &noneCompressor{base}, nil
	case Gzip:
		return newGzipCompressor(base), nil
	case Snappy:
		return &snappyCompressor{base}, nil
	case LZ4:
		return &lz4Compressor{baseCompressor: base, compressionLevel: mapLZ4Level(config.Level)}, nil
	case Zstd:
		return newZstdCompressor(base)
	case S2:
		return &s2Compressor{base}, nil
	case Deflate:
		return &deflateCompressor{baseCompressor: base, flateLevel: mapDeflateLevel(config.Level)}, nil
	default:
		return nil, errors.New(errors.ErrorTypeUnsupported, "unsupported compression algorithm").
			WithDetail("algorithm", config.Algorithm)
	}
}

var registry = struct {
	sync.RWMutex
	compressors map[Config]Compressor
}{compressors: make(map[Config]Compressor)}

// Get returns a shared compressor for config, creating it on first use.
func Get(config Config) (Compressor, error) {
	registry.RLock()
	c, ok := registry.compressors[config]
	registry.RUnlock()
	if ok {
		return c, nil
	}

	registry.Lock()
	defer registry.Unlock()
	if c, ok := registry.compressors[config]; ok {
		return c, nil
	}
	c, err := NewCompressor(config)
	if err != nil {
		return nil, err
	}
	registry.compressors[config] = c
	return c, nil
}

type baseCompressor struct {
	algorithm Algorithm
	level     Level
	limit     int64
}

// Algorithm returns the compression algorithm
func (bc *baseCompressor) Algorithm() Algorithm {
	return bc.algorithm
}

// Level returns the compression level
func (bc *baseCompressor) Level() Level {
	return bc.level
}

func (bc *baseCompressor) fail(err error, message string) error {
	return errors.Wrap(err, errors.ErrorTypeCompression, message).WithDetail("algorithm", bc.algorithm)
}

func (bc *baseCompressor) tooLarge(size int64) error {
	return errors.New(errors.ErrorTypeCompression, "decompressed size exceeds limit").
		WithDetail("algorithm", bc.algorithm).
		WithDetail("size", size).
		WithDetail("limit", bc.limit)
}

// readAll drains r into a pooled buffer, refusing to produce more than
// limit bytes.
func (bc *baseCompressor) readAll(r io.Reader) ([]byte, error) {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	n, err := io.Copy(buf, io.LimitReader(r, bc.limit+1))
	if err != nil {
		return nil, bc.fail(err, "decompress failed")
	}
	if n > bc.limit {
		return nil, bc.tooLarge(n)
	}
	return bytes.Clone(buf.Bytes()), nil
}

// writeAll runs data through the writer built by open on a pooled buffer.
func writeAll(data []byte, open func(io.Writer) (io.WriteCloser, error)) ([]byte, error) {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	w, err := open(buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

// None compressor (no compression)
type noneCompressor struct {
	baseCompressor
}

func (nc *noneCompressor) Compress(data []byte) ([]byte, error) {
	return bytes.Clone(data), nil
}

func (nc *noneCompressor) Decompress(data []byte) ([]byte, error) {
	if int64(len(data)) > nc.limit {
		return nil, nc.tooLarge(int64(len(data)))
	}
	return bytes.Clone(data), nil
}

// Gzip compressor
type gzipCompressor struct {
	baseCompressor
	writerPool *pool.Pool[*gzip.Writer]
	readerPool *pool.Pool[*gzip.Reader]
}

func newGzipCompressor(base baseCompressor) *gzipCompressor {
	level := mapGzipLevel(base.level)
	return &gzipCompressor{
		baseCompressor: base,
		writerPool: pool.New(func() *gzip.Writer {
			w, _ := gzip.NewWriterLevel(nil, level)
			return w
		}, nil),
		readerPool: pool.New(func() *gzip.Reader { return new(gzip.Reader) }, nil),
	}
}

func (gc *gzipCompressor) Compress(data []byte) ([]byte, error) {
	w := gc.writerPool.Get()
	defer gc.writerPool.Put(w)

	out, err := writeAll(data, func(dst io.Writer) (io.WriteCloser, error) {
		w.Reset(dst)
		return w, nil
	})
	if err != nil {
		return nil, gc.fail(err, "compress failed")
	}
	return out, nil
}

func (gc *gzipCompressor) Decompress(data []byte) ([]byte, error) {
	r := gc.readerPool.Get()
	defer gc.readerPool.Put(r)

	if err := r.Reset(bytes.NewReader(data)); err != nil {
		return nil, gc.fail(err, "invalid gzip header")
	}
	return gc.readAll(r)
}

// Snappy compressor
type snappyCompressor struct {
	baseCompressor
}

func (sc *snappyCompressor) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (sc *snappyCompressor) Decompress(data []byte) ([]byte, error) {
	n, err := snappy.DecodedLen(data)
	if err != nil {
		return nil, sc.fail(err, "invalid snappy block")
	}
	if int64(n) > sc.limit {
		return nil, sc.tooLarge(int64(n))
	}
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, sc.fail(err, "decompress failed")
	}
	return out, nil
}

// LZ4 compressor
type lz4Compressor struct {
	baseCompressor
	compressionLevel lz4.CompressionLevel
}

func (lc *lz4Compressor) Compress(data []byte) ([]byte, error) {
	out, err := writeAll(data, func(dst io.Writer) (io.WriteCloser, error) {
		w := lz4.NewWriter(dst)
		if err := w.Apply(lz4.CompressionLevelOption(lc.compressionLevel)); err != nil {
			return nil, err
		}
		return w, nil
	})
	if err != nil {
		return nil, lc.fail(err, "compress failed")
	}
	return out, nil
}

func (lc *lz4Compressor) Decompress(data []byte) ([]byte, error) {
	return lc.readAll(lz4.NewReader(bytes.NewReader(data)))
}

// Zstd compressor. zstd encoders and decoders are safe for concurrent
// EncodeAll/DecodeAll, so one of each is shared.
type zstdCompressor struct {
	baseCompressor
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func newZstdCompressor(base baseCompressor) (*zstdCompressor, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(mapZstdLevel(base.level)))
	if err != nil {
		return nil, base.fail(err, "failed to create zstd encoder")
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(uint64(base.limit)))
	if err != nil {
		return nil, base.fail(err, "failed to create zstd decoder")
	}
	return &zstdCompressor{baseCompressor: base, encoder: enc, decoder: dec}, nil
}

func (zc *zstdCompressor) Compress(data []byte) ([]byte, error) {
	return zc.encoder.EncodeAll(data, nil), nil
}

func (zc *zstdCompressor) Decompress(data []byte) ([]byte, error) {
	out, err := zc.decoder.DecodeAll(data, nil)
	if err != nil {
		if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
			return nil, zc.tooLarge(-1)
		}
		return nil, zc.fail(err, "decompress failed")
	}
	return out, nil
}

// S2 compressor (Snappy-compatible but better compression)
type s2Compressor struct {
	baseCompressor
}

func (sc *s2Compressor) Compress(data []byte) ([]byte, error) {
	switch sc.level {
	case Better:
		return s2.EncodeBetter(nil, data), nil
	case Best:
		return s2.EncodeBest(nil, data), nil
	default:
		return s2.Encode(nil, data), nil
	}
}

func (sc *s2Compressor) Decompress(data []byte) ([]byte, error) {
	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, sc.fail(err, "invalid s2 block")
	}
	if int64(n) > sc.limit {
		return nil, sc.tooLarge(int64(n))
	}
	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, sc.fail(err, "decompress failed")
	}
	return out, nil
}

// Deflate compressor
type deflateCompressor struct {
	baseCompressor
	flateLevel int
}

func (dc *deflateCompressor) Compress(data []byte) ([]byte, error) {
	out, err := writeAll(data, func(dst io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(dst, dc.flateLevel)
	})
	if err != nil {
		return nil, dc.fail(err, "compress failed")
	}
	return out, nil
}

func (dc *deflateCompressor) Decompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	return dc.readAll(r)
}

// Helper functions to map compression levels

func mapGzipLevel(level Level) int {
	switch level {
	case Fastest:
		return gzip.BestSpeed
	case Best:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

func mapLZ4Level(level Level) lz4.CompressionLevel {
	switch level {
	case Fastest:
		return lz4.Fast
	case Best:
		return lz4.Level9
	default:
		return lz4.Level5
	}
}

func mapZstdLevel(level Level) zstd.EncoderLevel {
	switch level {
	case Fastest:
		return zstd.SpeedFastest
	case Better:
		return zstd.SpeedBetterCompression
	case Best:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

func mapDeflateLevel(level Level) int {
	switch level {
	case Fastest:
		return flate.BestSpeed
	case Best:
		return flate.BestCompression
	default:
		return flate.DefaultCompression
	}
}
