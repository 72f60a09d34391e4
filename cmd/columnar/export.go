package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/columnar/pkg/encoding"
	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/formats"
	"github.com/ajitpratap0/columnar/pkg/logger"
	"github.com/ajitpratap0/columnar/pkg/tracing"
)

type exportOptions struct {
	format      string
	out         string
	compression string
	batchSize   int
}

func (a *app) exportCommand() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Convert an encoded events file to Arrow, Parquet or Avro",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tracing.Run(cmd.Context(), "export", func(ctx context.Context) error {
				return a.export(ctx, cmd, args[0], opts)
			}, attribute.String("path", args[0]))
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", "", "Export format (arrow, parquet, avro)")
	flags.StringVarP(&opts.out, "out", "o", "", "Output file (defaults to FILE with the format's extension)")
	flags.StringVar(&opts.compression, "codec", "", "Codec inside the exported file")
	flags.IntVar(&opts.batchSize, "batch-size", 0, "Rows per record batch, row group or block")
	return cmd
}

func (a *app) export(ctx context.Context, cmd *cobra.Command, path string, opts exportOptions) error {
	format := a.cfg.Export.Format
	if opts.format != "" {
		parsed, err := formats.ParseFormat(opts.format)
		if err != nil {
			return err
		}
		format = parsed
	}
	writer := a.cfg.Export.Writer
	if opts.compression != "" {
		writer.Compression = opts.compression
	}
	if opts.batchSize > 0 {
		writer.BatchSize = opts.batchSize
	}

	out := opts.out
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + formats.GetFormatInfo(format).FileExtension
	}

	encoded, err := encoding.ParseFormat(a.cfg.Encoding.Format)
	if err != nil {
		return err
	}
	l, err := loadEvents(path, encoded)
	if err != nil {
		return err
	}
	defer l.close()

	rec, err := l.Events.Record()
	if err != nil {
		return err
	}
	defer rec.Release()

	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create export file").WithDetail("path", out)
	}
	if err := formats.Write(f, format, rec, writer); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close export file").WithDetail("path", out)
	}

	logger.WithContext(ctx).Info("exported events",
		zap.String("source", path),
		zap.String("path", out),
		zap.String("format", string(format)),
		zap.Int64("rows", rec.NumRows()))
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows as %s\n", out, rec.NumRows(), format)
	return nil
}
