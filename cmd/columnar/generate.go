package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/columnar/internal/events"
	"github.com/ajitpratap0/columnar/pkg/columnar"
	"github.com/ajitpratap0/columnar/pkg/compression"
	"github.com/ajitpratap0/columnar/pkg/encoding"
	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/logger"
	"github.com/ajitpratap0/columnar/pkg/metrics"
	"github.com/ajitpratap0/columnar/pkg/performance"
	"github.com/ajitpratap0/columnar/pkg/pool"
	"github.com/ajitpratap0/columnar/pkg/tracing"
)

type generateOptions struct {
	rows      int
	shards    int
	seed      uint64
	chunkRows int
	out       string
	prefix    string
	stats     bool
}

func (a *app) generateCommand() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate synthetic events and write them encoded",
		Long: `Generate builds deterministic synthetic events in parallel shards, splits
them into chunks and writes each chunk as an encoded file named
<prefix>-NNNNN.clmn. With the envelope enabled, chunks are compressed in
parallel and carry a checksum.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("rows") {
				opts.rows = a.cfg.Generate.Rows
			}
			if !flags.Changed("shards") {
				opts.shards = a.cfg.Generate.Shards
			}
			if !flags.Changed("seed") {
				opts.seed = a.cfg.Generate.Seed
			}
			return tracing.Run(cmd.Context(), "generate", func(ctx context.Context) error {
				return a.generate(ctx, cmd, opts)
			}, attribute.Int("rows", opts.rows))
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.rows, "rows", 0, "Number of events to generate")
	flags.IntVar(&opts.shards, "shards", 0, "Number of generator goroutines")
	flags.Uint64Var(&opts.seed, "seed", 0, "Generator seed")
	flags.IntVar(&opts.chunkRows, "chunk-rows", 0, "Rows per output file (0 writes a single file)")
	flags.StringVarP(&opts.out, "out", "o", ".", "Output directory")
	flags.StringVar(&opts.prefix, "prefix", "events", "Output file name prefix")
	flags.BoolVar(&opts.stats, "stats", false, "Print resource usage after writing")
	return cmd
}

func (a *app) generate(ctx context.Context, cmd *cobra.Command, opts generateOptions) error {
	log := logger.WithContext(ctx)
	if opts.chunkRows < 0 {
		return errors.New(errors.ErrorTypeValidation, "chunk rows must not be negative").
			WithDetail("chunk_rows", opts.chunkRows)
	}

	monitor, err := performance.NewResourceMonitor()
	if err != nil {
		return err
	}

	format, err := encoding.ParseFormat(a.cfg.Encoding.Format)
	if err != nil {
		return err
	}

	all, err := events.Generator{Seed: opts.seed}.Build(ctx, opts.rows, opts.shards)
	if err != nil {
		return err
	}
	live, allocated := all.HeapSize()
	metrics.ObserveHeap("events", live, allocated)

	chunks := split(all, opts.chunkRows)
	buffers := make([][]uint64, len(chunks))
	for i, chunk := range chunks {
		buffers[i] = format.Encode(pool.GlobalWordPool.Get(format.LengthInWords(chunk)), chunk)
	}
	defer func() {
		for _, words := range buffers {
			pool.GlobalWordPool.Put(words)
		}
	}()

	blobs := make([][]byte, len(buffers))
	if a.cfg.Encoding.Envelope {
		c, err := compression.Get(a.cfg.Compression)
		if err != nil {
			return err
		}
		if blobs, err = encoding.SealAll(ctx, buffers, c, a.cfg.Encoding.Workers); err != nil {
			return err
		}
	} else {
		for i, words := range buffers {
			blobs[i] = columnar.BytesOf(words)
		}
	}

	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create output directory").WithDetail("dir", opts.out)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tROWS\tENCODED\tWRITTEN")
	for i, blob := range blobs {
		path := chunkPath(opts.out, opts.prefix, i)
		if err := os.WriteFile(path, blob, 0o644); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write chunk").WithDetail("path", path)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", path, chunks[i].Len(), 8*len(buffers[i]), len(blob))
		log.Debug("wrote chunk", zap.String("path", path), zap.Int("rows", chunks[i].Len()), zap.Int("bytes", len(blob)))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	usage := monitor.Usage()
	log.Info("generated events",
		append([]zap.Field{
			zap.Int("rows", all.Len()),
			zap.Int("files", len(blobs)),
			zap.String("format", format.Name()),
			zap.Bool("envelope", a.cfg.Encoding.Envelope),
		}, usage.Fields()...)...)
	if opts.stats {
		printUsage(cmd, usage)
		for bucket, s := range pool.GetGlobalStats() {
			fmt.Fprintf(cmd.OutOrStdout(), "pool %s: hit rate %.2f\n", bucket, s.HitRate())
		}
	}
	return nil
}

// split cuts all into chunks of at most rows events. rows <= 0, or an
// empty input, gives a single chunk.
func split(all *events.Events, rows int) []*events.Events {
	if rows <= 0 || all.Len() <= rows {
		return []*events.Events{all}
	}
	var chunks []*events.Events
	for lo := 0; lo < all.Len(); lo += rows {
		chunk := events.New()
		chunk.ExtendFromSelf(all, lo, min(lo+rows, all.Len()))
		chunks = append(chunks, chunk)
	}
	return chunks
}

func printUsage(cmd *cobra.Command, u performance.ResourceUsage) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "cpu: %.1f%%\n", u.CPUPercent)
	fmt.Fprintf(out, "rss: %d bytes, heap: %d bytes\n", u.MemoryRSS, u.HeapAlloc)
	fmt.Fprintf(out, "system memory: %.1f%% used, %d bytes available\n", u.SystemMemoryPercent, u.SystemMemoryAvailable)
}
