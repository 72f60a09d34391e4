package sink

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/logger"
	"github.com/ajitpratap0/columnar/pkg/tracing"
)

// KafkaConfig configures the Kafka sink
type KafkaConfig struct {
	Brokers []string `yaml:"brokers" json:"brokers"`
	Topic   string   `yaml:"topic" json:"topic"`
	// Acks is "all", "1" or "0".
	Acks        string        `yaml:"acks" json:"acks"`
	Compression string        `yaml:"compression" json:"compression"`
	Retries     int           `yaml:"retries" json:"retries"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
	// MaxMessageBytes bounds a single object. Larger bodies are rejected
	// rather than split.
	MaxMessageBytes int `yaml:"max_message_bytes" json:"max_message_bytes"`

	TLS           bool   `yaml:"tls" json:"tls"`
	SASLMechanism string `yaml:"sasl_mechanism" json:"sasl_mechanism"`
	SASLUsername  string `yaml:"sasl_username" json:"sasl_username"`
	SASLPassword  string `yaml:"sasl_password" json:"sasl_password"`
}

// DefaultKafkaConfig returns a producer configuration that waits for all
// in-sync replicas.
func DefaultKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Acks:            "all",
		Compression:     "none",
		Retries:         3,
		Timeout:         10 * time.Second,
		MaxMessageBytes: 1000000,
	}
}

// saramaConfig builds the producer configuration for c.
func (c KafkaConfig) saramaConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = "columnar"

	switch c.Acks {
	case "1":
		config.Producer.RequiredAcks = sarama.WaitForLocal
	case "0":
		config.Producer.RequiredAcks = sarama.NoResponse
	default:
		config.Producer.RequiredAcks = sarama.WaitForAll
	}

	config.Producer.Retry.Max = c.Retries
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	if c.Timeout > 0 {
		config.Producer.Timeout = c.Timeout
	}
	if c.MaxMessageBytes > 0 {
		config.Producer.MaxMessageBytes = c.MaxMessageBytes
	}

	switch c.Compression {
	case "gzip":
		config.Producer.Compression = sarama.CompressionGZIP
	case "snappy":
		config.Producer.Compression = sarama.CompressionSnappy
	case "lz4":
		config.Producer.Compression = sarama.CompressionLZ4
	case "zstd":
		config.Producer.Compression = sarama.CompressionZSTD
		config.Version = sarama.V2_1_0_0
	default:
		config.Producer.Compression = sarama.CompressionNone
	}

	if c.TLS {
		config.Net.TLS.Enable = true
		config.Net.TLS.Config = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	if c.SASLMechanism != "" {
		config.Net.SASL.Enable = true
		config.Net.SASL.User = c.SASLUsername
		config.Net.SASL.Password = c.SASLPassword

		switch c.SASLMechanism {
		case "SCRAM-SHA-256":
			config.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
		case "SCRAM-SHA-512":
			config.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA512
		default:
			config.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		}
	}

	return config
}

// Kafka publishes each object as one message keyed by Object.Key.
type Kafka struct {
	config   KafkaConfig
	producer sarama.SyncProducer
}

// NewKafka connects a synchronous producer to cfg.Brokers.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, cfg.saramaConfig())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to create Kafka producer").
			WithDetail("brokers", cfg.Brokers)
	}
	return newKafkaWithProducer(cfg, producer), nil
}

func newKafkaWithProducer(cfg KafkaConfig, producer sarama.SyncProducer) *Kafka {
	return &Kafka{config: cfg, producer: producer}
}

func (k *Kafka) Name() string { return string(KindKafka) }

// Put sends obj. Metadata and the content type travel as headers.
func (k *Kafka) Put(ctx context.Context, obj Object) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeTimeout, "put cancelled")
	}
	if k.config.MaxMessageBytes > 0 && len(obj.Body) > k.config.MaxMessageBytes {
		return errors.New(errors.ErrorTypeValidation, "object exceeds Kafka message size").
			WithDetail("bytes", len(obj.Body)).
			WithDetail("max_message_bytes", k.config.MaxMessageBytes)
	}

	headers := make([]sarama.RecordHeader, 0, len(obj.Metadata)+1)
	if obj.ContentType != "" {
		headers = append(headers, sarama.RecordHeader{Key: []byte("content-type"), Value: []byte(obj.ContentType)})
	}
	for key, value := range obj.Metadata {
		headers = append(headers, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
	}
	carrier := map[string]string{}
	tracing.Inject(ctx, carrier)
	for key, value := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   k.config.Topic,
		Key:     sarama.StringEncoder(obj.Key),
		Value:   sarama.ByteEncoder(obj.Body),
		Headers: headers,
	}
	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		return classify(ctx, err, "failed to produce Kafka message").WithDetail("topic", k.config.Topic)
	}

	logger.WithContext(ctx).Debug("object produced to Kafka",
		zap.String("topic", k.config.Topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

// Close flushes and closes the producer.
func (k *Kafka) Close() error {
	if err := k.producer.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to close Kafka producer")
	}
	return nil
}
