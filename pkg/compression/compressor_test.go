package compression

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/columnar/pkg/errors"
)

func sample(n int) []byte {
	var buf bytes.Buffer
	for i := 0; buf.Len() < n; i++ {
		fmt.Fprintf(&buf, "record-%d;", i%97)
	}
	return buf.Bytes()[:n]
}

func TestCompressorRoundTrip(t *testing.T) {
	data := sample(64 << 10)

	for _, algo := range Algorithms {
		for _, level := range []Level{Fastest, Default, Better, Best} {
			t.Run(fmt.Sprintf("%s/%s", algo, level), func(t *testing.T) {
				c, err := NewCompressor(Config{Algorithm: algo, Level: level})
				require.NoError(t, err)
				assert.Equal(t, algo, c.Algorithm())
				assert.Equal(t, level, c.Level())

				compressed, err := c.Compress(data)
				require.NoError(t, err)
				if algo != None {
					assert.Less(t, len(compressed), len(data))
				}

				out, err := c.Decompress(compressed)
				require.NoError(t, err)
				assert.Equal(t, data, out)
			})
		}
	}
}

func TestCompressorEmptyInput(t *testing.T) {
	for _, algo := range Algorithms {
		c, err := NewCompressor(Config{Algorithm: algo})
		require.NoError(t, err)

		compressed, err := c.Compress(nil)
		require.NoError(t, err, algo)
		out, err := c.Decompress(compressed)
		require.NoError(t, err, algo)
		assert.Empty(t, out, algo)
	}
}

func TestDecompressLimit(t *testing.T) {
	data := sample(1 << 20)

	for _, algo := range Algorithms {
		t.Run(string(algo), func(t *testing.T) {
			c, err := NewCompressor(Config{Algorithm: algo})
			require.NoError(t, err)
			compressed, err := c.Compress(data)
			require.NoError(t, err)

			limited, err := NewCompressor(Config{Algorithm: algo, MaxDecompressedSize: 4 << 10})
			require.NoError(t, err)
			_, err = limited.Decompress(compressed)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeCompression))
		})
	}
}

func TestDecompressCorrupt(t *testing.T) {
	garbage := []byte("definitely not a compressed block")
	for _, algo := range []Algorithm{Gzip, Snappy, LZ4, Zstd, S2} {
		c, err := NewCompressor(Config{Algorithm: algo})
		require.NoError(t, err)
		_, err = c.Decompress(garbage)
		assert.Error(t, err, algo)
	}
}

func TestParse(t *testing.T) {
	a, err := ParseAlgorithm("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, Zstd, a)

	a, err = ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, None, a)

	_, err = ParseAlgorithm("brotli")
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupported))

	l, err := ParseLevel("best")
	require.NoError(t, err)
	assert.Equal(t, Best, l)
	_, err = ParseLevel("max")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = NewCompressor(Config{Algorithm: "brotli"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupported))
}

func TestAlgorithmIDs(t *testing.T) {
	for i, algo := range Algorithms {
		assert.Equal(t, byte(i), algo.ID())
		back, err := AlgorithmFromID(algo.ID())
		require.NoError(t, err)
		assert.Equal(t, algo, back)
	}
	assert.Equal(t, byte(0xff), Algorithm("brotli").ID())
	_, err := AlgorithmFromID(42)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupported))
}

func TestRegistryCaches(t *testing.T) {
	cfg := Config{Algorithm: S2, Level: Better}
	a, err := Get(cfg)
	require.NoError(t, err)
	b, err := Get(cfg)
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = Get(Config{Algorithm: "brotli"})
	assert.Error(t, err)
}

func TestCompressAll(t *testing.T) {
	blocks := make([][]byte, 20)
	for i := range blocks {
		blocks[i] = sample(1000 + i*100)
	}

	c, err := Get(Config{Algorithm: Zstd, Level: Default})
	require.NoError(t, err)

	compressed, err := CompressAll(context.Background(), c, blocks, 4)
	require.NoError(t, err)
	require.Len(t, compressed, len(blocks))

	out, err := DecompressAll(context.Background(), c, compressed, 0)
	require.NoError(t, err)
	assert.Equal(t, blocks, out)

	empty, err := CompressAll(context.Background(), c, nil, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCompressAllErrors(t *testing.T) {
	c, err := Get(Config{Algorithm: Snappy})
	require.NoError(t, err)

	_, err = DecompressAll(context.Background(), c, [][]byte{[]byte("bad")}, 1)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeCompression))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = CompressAll(ctx, c, [][]byte{sample(10)}, 1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTimeout))
}
