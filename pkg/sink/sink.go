// Package sink delivers encoded blobs to where they are kept: a local
// directory, an S3 or GCS bucket, or a Kafka topic.
//
// Every sink takes whole objects. Publish wraps a sink with retries for
// connection and timeout errors and records sink metrics.
package sink

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/logger"
	"github.com/ajitpratap0/columnar/pkg/metrics"
	"github.com/ajitpratap0/columnar/pkg/tracing"
)

// Object is one blob to deliver.
type Object struct {
	Key         string
	Body        []byte
	ContentType string
	Metadata    map[string]string
}

// Sink stores objects.
type Sink interface {
	// Name identifies the sink kind in logs and metrics.
	Name() string
	// Put stores obj under obj.Key, replacing any previous object.
	Put(ctx context.Context, obj Object) error
	Close() error
}

// Kind names a sink implementation.
type Kind string

const (
	KindFile  Kind = "file"
	KindS3    Kind = "s3"
	KindGCS   Kind = "gcs"
	KindKafka Kind = "kafka"
)

// Config selects and configures a sink.
type Config struct {
	Kind  Kind        `yaml:"kind" json:"kind"`
	File  FileConfig  `yaml:"file" json:"file"`
	S3    S3Config    `yaml:"s3" json:"s3"`
	GCS   GCSConfig   `yaml:"gcs" json:"gcs"`
	Kafka KafkaConfig `yaml:"kafka" json:"kafka"`

	Retry RetryConfig `yaml:"retry" json:"retry"`
}

// DefaultConfig writes to ./out.
func DefaultConfig() Config {
	return Config{
		Kind:  KindFile,
		File:  FileConfig{Dir: "out"},
		S3:    S3Config{PartSize: 5 << 20, Concurrency: 4},
		Kafka: DefaultKafkaConfig(),
		Retry: DefaultRetryConfig(),
	}
}

// Validate checks the section for the selected kind.
func (c Config) Validate() error {
	switch c.Kind {
	case KindFile:
		if c.File.Dir == "" {
			return errors.New(errors.ErrorTypeConfig, "file sink requires dir")
		}
	case KindS3:
		if c.S3.Bucket == "" {
			return errors.New(errors.ErrorTypeConfig, "s3 sink requires bucket")
		}
	case KindGCS:
		if c.GCS.Bucket == "" {
			return errors.New(errors.ErrorTypeConfig, "gcs sink requires bucket")
		}
	case KindKafka:
		if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
			return errors.New(errors.ErrorTypeConfig, "kafka sink requires brokers and topic")
		}
	default:
		return errors.New(errors.ErrorTypeConfig, "unknown sink kind").WithDetail("kind", c.Kind)
	}
	return c.Retry.Validate()
}

// New opens the sink selected by cfg.
func New(ctx context.Context, cfg Config) (Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case KindS3:
		return NewS3(ctx, cfg.S3)
	case KindGCS:
		return NewGCS(ctx, cfg.GCS)
	case KindKafka:
		return NewKafka(cfg.Kafka)
	default:
		return NewFile(cfg.File)
	}
}

// Publish puts obj with retries and records the outcome.
func Publish(ctx context.Context, s Sink, obj Object, retry RetryConfig) error {
	start := time.Now()
	attempts := 0
	err := tracing.Run(ctx, "sink.publish", func(ctx context.Context) error {
		return retry.Policy().Execute(ctx, errors.IsRetryable, func() error {
			attempts++
			return s.Put(ctx, obj)
		})
	}, attribute.String("sink", s.Name()), attribute.String("key", obj.Key), attribute.Int("bytes", len(obj.Body)))
	metrics.ObserveSink(s.Name(), len(obj.Body), err)

	log := logger.WithContext(ctx).With(
		zap.String("sink", s.Name()),
		zap.String("key", obj.Key),
		zap.Int("bytes", len(obj.Body)),
		zap.Int("attempts", attempts),
		zap.Duration("duration", time.Since(start)))
	if err != nil {
		log.Error("publish failed", zap.Error(err))
		return err
	}
	log.Info("published object")
	return nil
}

// classify wraps a client error, treating cancellation and deadlines as
// timeouts and everything else as a connection failure.
func classify(ctx context.Context, err error, message string) *errors.Error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errors.Wrap(err, errors.ErrorTypeTimeout, message)
	}
	return errors.Wrap(err, errors.ErrorTypeConnection, message)
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(key, "/")
}
