package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/columnar/pkg/compression"
	"github.com/ajitpratap0/columnar/pkg/config"
	"github.com/ajitpratap0/columnar/pkg/logger"
	"github.com/ajitpratap0/columnar/pkg/metrics"
	"github.com/ajitpratap0/columnar/pkg/sink"
	"github.com/ajitpratap0/columnar/pkg/tracing"
)

// app carries state shared by the commands of one invocation.
type app struct {
	v   *viper.Viper
	cfg *config.Config

	shutdownTracing tracing.ShutdownFunc
	profile         *profiler
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "columnar",
		Short: "Columnar - column oriented containers for structured records",
		Long: `Columnar stores records column by column in flat, word aligned buffers
that decode without copying. This tool generates event data, inspects and
exports encoded files, and publishes them to object stores or Kafka.

Every flag can also be set through a COLUMNAR_ environment variable, for
example COLUMNAR_LOG_LEVEL=debug. A .env file in the working directory is
loaded first.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a YAML configuration file")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("encoding", "", "Encoding format (sequence, indexed)")
	flags.Bool("envelope", true, "Seal encoded output in a compressed, checksummed envelope")
	flags.String("compression", "", "Envelope compression (none, gzip, snappy, lz4, zstd, s2, deflate)")
	flags.String("level", "", "Compression level (fastest, default, better, best)")
	flags.String("sink", "", "Sink kind for publish (file, s3, gcs, kafka)")
	flags.String("metrics-textfile", "", "Write Prometheus metrics to this file on exit")
	flags.String("cpuprofile", "", "Write a CPU profile to this file")
	flags.String("memprofile", "", "Write a heap profile to this file on exit")
	_ = a.v.BindPFlags(flags)

	a.v.SetEnvPrefix("COLUMNAR")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		a.generateCommand(),
		a.inspectCommand(),
		a.exportCommand(),
		a.publishCommand(),
		versionCommand(),
	)
	return root
}

// setup loads configuration, applies flag and environment overrides and
// starts logging, metrics, tracing and profiling.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if path := a.v.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := a.applyOverrides(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	l, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}
	logger.SetLogger(l)

	if cfg.Metrics.Runtime {
		metrics.RegisterRuntime()
	}

	ctx := context.WithValue(cmd.Context(), logger.CommandKey, cmd.Name())
	cmd.SetContext(ctx)

	shutdown, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	a.shutdownTracing = shutdown

	a.profile, err = startProfiler(a.v.GetString("cpuprofile"), a.v.GetString("memprofile"))
	if err != nil {
		return err
	}

	logger.WithContext(ctx).Debug("configuration loaded",
		zap.String("encoding", cfg.Encoding.Format),
		zap.Bool("envelope", cfg.Encoding.Envelope),
		zap.String("compression", string(cfg.Compression.Algorithm)),
		zap.String("sink", string(cfg.Sink.Kind)))
	return nil
}

func (a *app) applyOverrides(cfg *config.Config) error {
	if a.v.IsSet("log-level") {
		cfg.Logging.Level = a.v.GetString("log-level")
	}
	if a.v.IsSet("encoding") {
		cfg.Encoding.Format = a.v.GetString("encoding")
	}
	if a.v.IsSet("envelope") {
		cfg.Encoding.Envelope = a.v.GetBool("envelope")
	}
	if a.v.IsSet("compression") {
		algo, err := compression.ParseAlgorithm(a.v.GetString("compression"))
		if err != nil {
			return err
		}
		cfg.Compression.Algorithm = algo
	}
	if a.v.IsSet("level") {
		level, err := compression.ParseLevel(a.v.GetString("level"))
		if err != nil {
			return err
		}
		cfg.Compression.Level = level
	}
	if a.v.IsSet("sink") {
		cfg.Sink.Kind = sink.Kind(a.v.GetString("sink"))
	}
	if a.v.IsSet("metrics-textfile") {
		cfg.Metrics.Textfile = a.v.GetString("metrics-textfile")
	}
	return nil
}

// teardown flushes traces, profiles and metrics.
func (a *app) teardown(ctx context.Context) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if a.shutdownTracing != nil {
		keep(a.shutdownTracing(ctx))
	}
	if a.profile != nil {
		keep(a.profile.stop())
	}
	if a.cfg != nil && a.cfg.Metrics.Textfile != "" {
		keep(metrics.WriteTextfile(a.cfg.Metrics.Textfile))
	}
	_ = logger.Sync()
	return firstErr
}
