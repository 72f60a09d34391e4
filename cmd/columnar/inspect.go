package main

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ajitpratap0/columnar/pkg/encoding"
	"github.com/ajitpratap0/columnar/pkg/metrics"
	"github.com/ajitpratap0/columnar/pkg/performance"
	"github.com/ajitpratap0/columnar/pkg/tracing"
)

type inspectOptions struct {
	head  int
	stats bool
}

func (a *app) inspectCommand() *cobra.Command {
	var opts inspectOptions

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Describe an encoded events file",
		Long: `Inspect maps an encoded events file, decodes it without copying and prints
its envelope header, row count and heap usage. --head prints the first rows
as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tracing.Run(cmd.Context(), "inspect", func(ctx context.Context) error {
				return a.inspect(cmd, args[0], opts)
			}, attribute.String("path", args[0]))
		},
	}
	cmd.Flags().IntVar(&opts.head, "head", 0, "Print the first N rows as JSON")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "Print resource usage after decoding")
	return cmd
}

func (a *app) inspect(cmd *cobra.Command, path string, opts inspectOptions) error {
	monitor, err := performance.NewResourceMonitor()
	if err != nil {
		return err
	}
	format, err := encoding.ParseFormat(a.cfg.Encoding.Format)
	if err != nil {
		return err
	}

	l, err := loadEvents(path, format)
	if err != nil {
		return err
	}
	defer l.close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "file: %s (%d bytes)\n", path, l.Size)
	fmt.Fprintf(out, "format: %s\n", format.Name())
	if h := l.Header; h != nil {
		fmt.Fprintf(out, "envelope: v%d %s, %d raw bytes, checksum %016x\n", h.Version, h.Algorithm, h.RawLength, h.Checksum)
	} else {
		fmt.Fprintln(out, "envelope: none")
	}

	ev := l.Events
	live, allocated := ev.HeapSize()
	metrics.ObserveHeap("events", live, allocated)
	fmt.Fprintf(out, "rows: %d\n", ev.Len())
	fmt.Fprintf(out, "heap: %d live, %d allocated\n", live, allocated)

	for i := 0; i < min(opts.head, ev.Len()); i++ {
		line, err := json.Marshal(ev.Get(i).Owned())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(line))
	}

	if opts.stats {
		printUsage(cmd, monitor.Usage())
	}
	return nil
}
