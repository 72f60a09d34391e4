package compression

import (
	"context"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/logger"
	"github.com/ajitpratap0/columnar/pkg/metrics"
)

// CompressAll compresses every block with c using at most workers
// goroutines (0 means NumCPU). The output keeps the input order. The first
// failure cancels the remaining work.
func CompressAll(ctx context.Context, c Compressor, blocks [][]byte, workers int) ([][]byte, error) {
	out, err := runAll(ctx, blocks, workers, c.Compress)
	if err != nil {
		return nil, err
	}

	var raw, compressed int
	for i := range blocks {
		raw += len(blocks[i])
		compressed += len(out[i])
	}
	metrics.ObserveCompression(string(c.Algorithm()), raw, compressed)
	logger.Debug("compressed blocks",
		zap.String("algorithm", string(c.Algorithm())),
		zap.Int("blocks", len(blocks)),
		zap.Int("raw_bytes", raw),
		zap.Int("compressed_bytes", compressed))
	return out, nil
}

// DecompressAll is the inverse of CompressAll.
func DecompressAll(ctx context.Context, c Compressor, blocks [][]byte, workers int) ([][]byte, error) {
	return runAll(ctx, blocks, workers, c.Decompress)
}

func runAll(ctx context.Context, blocks [][]byte, workers int, fn func([]byte) ([]byte, error)) ([][]byte, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	out := make([][]byte, len(blocks))
	var done int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range blocks {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return errors.Wrap(err, errors.ErrorTypeTimeout, "compression cancelled")
			}
			b, err := fn(blocks[i])
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeCompression, "block failed").WithDetail("block", i)
			}
			out[i] = b
			atomic.AddInt64(&done, 1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil && atomic.LoadInt64(&done) != int64(len(blocks)) {
		return nil, errors.Wrap(err, errors.ErrorTypeTimeout, "compression cancelled")
	}
	return out, nil
}
