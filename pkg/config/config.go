package config

import (
	"runtime"

	"github.com/ajitpratap0/columnar/pkg/compression"
	"github.com/ajitpratap0/columnar/pkg/encoding"
	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/formats"
	"github.com/ajitpratap0/columnar/pkg/logger"
	"github.com/ajitpratap0/columnar/pkg/sink"
	"github.com/ajitpratap0/columnar/pkg/tracing"
)

// Config is the configuration of a columnar run.
type Config struct {
	Encoding    EncodingConfig     `yaml:"encoding" json:"encoding"`
	Compression compression.Config `yaml:"compression" json:"compression"`
	Generate    GenerateConfig     `yaml:"generate" json:"generate"`
	Export      ExportConfig       `yaml:"export" json:"export"`
	Sink        sink.Config        `yaml:"sink" json:"sink"`
	Logging     logger.Config      `yaml:"logging" json:"logging"`
	Metrics     MetricsConfig      `yaml:"metrics" json:"metrics"`
	Tracing     tracing.Config     `yaml:"tracing" json:"tracing"`
}

// EncodingConfig selects how container bytes are laid out.
type EncodingConfig struct {
	// Format is "sequence" or "indexed".
	Format string `yaml:"format" json:"format"`
	// Envelope seals encoded words in a compressed, checksummed envelope.
	Envelope bool `yaml:"envelope" json:"envelope"`
	// Workers bounds parallel block compression.
	Workers int `yaml:"workers" json:"workers"`
}

// GenerateConfig controls synthetic event generation.
type GenerateConfig struct {
	Rows   int    `yaml:"rows" json:"rows"`
	Shards int    `yaml:"shards" json:"shards"`
	Seed   uint64 `yaml:"seed" json:"seed"`
}

// ExportConfig selects the interchange format for exports.
type ExportConfig struct {
	Format formats.Format       `yaml:"format" json:"format"`
	Writer formats.WriterConfig `yaml:"writer" json:"writer"`
}

// MetricsConfig controls Prometheus metrics.
type MetricsConfig struct {
	// Runtime adds Go runtime and process collectors.
	Runtime bool `yaml:"runtime" json:"runtime"`
	// Textfile, when set, receives the registry in text exposition format
	// when a command finishes.
	Textfile string `yaml:"textfile" json:"textfile"`
}

// Default returns a configuration that works without a file: sequence
// encoding sealed with snappy, written to ./out.
func Default() *Config {
	return &Config{
		Encoding:    EncodingConfig{Format: "sequence", Envelope: true, Workers: runtime.NumCPU()},
		Compression: compression.DefaultConfig(),
		Generate:    GenerateConfig{Rows: 100000, Shards: runtime.NumCPU(), Seed: 1},
		Export:      ExportConfig{Format: formats.Parquet, Writer: formats.DefaultWriterConfig()},
		Sink:        sink.DefaultConfig(),
		Logging:     logger.DefaultConfig(),
		Metrics:     MetricsConfig{Runtime: true},
		Tracing:     tracing.DefaultConfig(),
	}
}

// Validate checks every section. The first problem is returned as an
// ErrorTypeConfig error naming the offending key.
func (c *Config) Validate() error {
	if _, err := encoding.ParseFormat(c.Encoding.Format); err != nil {
		return configError(err, "encoding.format")
	}
	if c.Encoding.Workers < 0 {
		return errors.New(errors.ErrorTypeConfig, "encoding.workers cannot be negative")
	}
	if _, err := compression.ParseAlgorithm(string(c.Compression.Algorithm)); err != nil {
		return configError(err, "compression.algorithm")
	}
	if c.Compression.Level < compression.Fastest || c.Compression.Level > compression.Best {
		return errors.New(errors.ErrorTypeConfig, "compression.level must be between 1 and 9").
			WithDetail("level", int(c.Compression.Level))
	}
	if c.Generate.Rows < 0 {
		return errors.New(errors.ErrorTypeConfig, "generate.rows cannot be negative")
	}
	if c.Generate.Shards <= 0 {
		return errors.New(errors.ErrorTypeConfig, "generate.shards must be positive")
	}
	if _, err := formats.ParseFormat(string(c.Export.Format)); err != nil {
		return configError(err, "export.format")
	}
	if err := c.Sink.Validate(); err != nil {
		return configError(err, "sink")
	}
	if err := c.Logging.Validate(); err != nil {
		return configError(err, "logging")
	}
	if err := c.Tracing.Validate(); err != nil {
		return configError(err, "tracing")
	}
	return nil
}

func configError(err error, key string) error {
	if errors.IsType(err, errors.ErrorTypeConfig) {
		return err
	}
	return errors.Wrap(err, errors.ErrorTypeConfig, "invalid "+key).WithDetail("key", key)
}
