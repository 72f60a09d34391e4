package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ajitpratap0/columnar/pkg/encoding"
	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/formats"
	"github.com/ajitpratap0/columnar/pkg/sink"
	"github.com/ajitpratap0/columnar/pkg/tracing"
)

const encodedContentType = "application/x-columnar"

func (a *app) publishCommand() *cobra.Command {
	var keyPrefix string

	cmd := &cobra.Command{
		Use:   "publish FILE...",
		Short: "Deliver files to the configured sink",
		Long: `Publish uploads each file to the sink named by --sink or the sink section
of the configuration: a local directory, S3, GCS or a Kafka topic. Failed
deliveries are retried with exponential backoff.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tracing.Run(cmd.Context(), "publish", func(ctx context.Context) error {
				return a.publish(ctx, cmd, args, keyPrefix)
			}, attribute.Int("files", len(args)))
		},
	}
	cmd.Flags().StringVar(&keyPrefix, "key-prefix", "", "Prefix added to every object key")
	return cmd
}

func (a *app) publish(ctx context.Context, cmd *cobra.Command, paths []string, keyPrefix string) error {
	s, err := sink.New(ctx, a.cfg.Sink)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, path := range paths {
		obj, err := objectFor(path, keyPrefix)
		if err != nil {
			return err
		}
		if err := sink.Publish(ctx, s, obj, a.cfg.Sink.Retry); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s:%s\n", path, s.Name(), obj.Key)
	}
	return nil
}

// objectFor reads path into an Object keyed by its base name. Exports get
// their format's MIME type, encoded files report whether they are sealed.
func objectFor(path, keyPrefix string) (sink.Object, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return sink.Object{}, errors.Wrap(err, errors.ErrorTypeFile, "failed to read file").WithDetail("path", path)
	}

	base := filepath.Base(path)
	obj := sink.Object{
		Key:         keyPrefix + base,
		Body:        body,
		ContentType: encodedContentType,
		Metadata:    map[string]string{"source": base},
	}
	ext := filepath.Ext(path)
	for _, f := range []formats.Format{formats.Arrow, formats.Parquet, formats.Avro} {
		if info := formats.GetFormatInfo(f); info.FileExtension == ext {
			obj.ContentType = info.MIMEType
			return obj, nil
		}
	}
	obj.Metadata["sealed"] = strconv.FormatBool(encoding.IsEnvelope(body))
	return obj, nil
}
