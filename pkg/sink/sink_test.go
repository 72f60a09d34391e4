package sink

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/metrics"
)

func sampleObject() Object {
	return Object{
		Key:         "events/0001.clmn",
		Body:        []byte("payload"),
		ContentType: "application/octet-stream",
		Metadata:    map[string]string{"rows": "3"},
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(FileConfig{Dir: dir})
	require.NoError(t, err)
	defer f.Close()

	obj := sampleObject()
	require.NoError(t, f.Put(context.Background(), obj))
	data, err := os.ReadFile(filepath.Join(dir, "events", "0001.clmn"))
	require.NoError(t, err)
	assert.Equal(t, obj.Body, data)

	obj.Body = []byte("replaced")
	require.NoError(t, f.Put(context.Background(), obj))
	data, err = os.ReadFile(filepath.Join(dir, "events", "0001.clmn"))
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "events"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	err = f.Put(context.Background(), Object{Key: "../escape"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = f.Put(ctx, obj)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTimeout))
}

type fakeUploader struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (u *fakeUploader) Upload(_ context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if u.err != nil {
		return nil, u.err
	}
	body, _ := io.ReadAll(input.Body)
	u.inputs = append(u.inputs, input)
	u.bodies = append(u.bodies, body)
	return &manager.UploadOutput{Location: "s3://" + aws.ToString(input.Bucket) + "/" + aws.ToString(input.Key)}, nil
}

func TestS3(t *testing.T) {
	up := &fakeUploader{}
	s := &S3{config: S3Config{Bucket: "data", Prefix: "runs/"}, uploader: up}

	require.NoError(t, s.Put(context.Background(), sampleObject()))
	require.Len(t, up.inputs, 1)
	assert.Equal(t, "data", aws.ToString(up.inputs[0].Bucket))
	assert.Equal(t, "runs/events/0001.clmn", aws.ToString(up.inputs[0].Key))
	assert.Equal(t, "application/octet-stream", aws.ToString(up.inputs[0].ContentType))
	assert.Equal(t, map[string]string{"rows": "3"}, up.inputs[0].Metadata)
	assert.Equal(t, []byte("payload"), up.bodies[0])

	up.err = stderrors.New("connection reset")
	err := s.Put(context.Background(), sampleObject())
	assert.True(t, errors.IsType(err, errors.ErrorTypeConnection))
	assert.True(t, errors.IsRetryable(err))
}

type memoryWriter struct {
	bytes.Buffer
	closed   bool
	closeErr error
}

func (w *memoryWriter) Close() error {
	w.closed = true
	return w.closeErr
}

func TestGCS(t *testing.T) {
	written := map[string]*memoryWriter{}
	var closeErr error
	g := &GCS{config: GCSConfig{Bucket: "data", Prefix: "p"}}
	g.open = func(_ context.Context, key string, _ Object) io.WriteCloser {
		w := &memoryWriter{closeErr: closeErr}
		written[key] = w
		return w
	}

	require.NoError(t, g.Put(context.Background(), sampleObject()))
	w := written["p/events/0001.clmn"]
	require.NotNil(t, w)
	assert.True(t, w.closed)
	assert.Equal(t, "payload", w.String())

	closeErr = context.DeadlineExceeded
	err := g.Put(context.Background(), sampleObject())
	assert.True(t, errors.IsType(err, errors.ErrorTypeTimeout))
	assert.NoError(t, g.Close())
}

func TestKafka(t *testing.T) {
	cfg := DefaultKafkaConfig()
	cfg.Brokers = []string{"localhost:9092"}
	cfg.Topic = "events"

	producer := mocks.NewSyncProducer(t, cfg.saramaConfig())
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, _ := msg.Key.Encode()
		if string(key) != "events/0001.clmn" {
			return stderrors.New("unexpected key " + string(key))
		}
		if msg.Topic != "events" || len(msg.Headers) != 2 {
			return stderrors.New("unexpected topic or headers")
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	k := newKafkaWithProducer(cfg, producer)
	require.NoError(t, k.Put(context.Background(), sampleObject()))

	err := k.Put(context.Background(), sampleObject())
	assert.True(t, errors.IsType(err, errors.ErrorTypeConnection))

	big := sampleObject()
	big.Body = make([]byte, cfg.MaxMessageBytes+1)
	err = k.Put(context.Background(), big)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	require.NoError(t, k.Close())
}

func TestKafkaSaramaConfig(t *testing.T) {
	cfg := KafkaConfig{Acks: "1", Compression: "zstd", SASLMechanism: "SCRAM-SHA-512", TLS: true}
	sc := cfg.saramaConfig()
	assert.Equal(t, sarama.WaitForLocal, sc.Producer.RequiredAcks)
	assert.Equal(t, sarama.CompressionZSTD, sc.Producer.Compression)
	assert.Equal(t, sarama.SASLMechanism(sarama.SASLTypeSCRAMSHA512), sc.Net.SASL.Mechanism)
	assert.True(t, sc.Net.TLS.Enable)
	assert.True(t, sc.Producer.Return.Successes)
}

type flakySink struct {
	failures int
	err      error
	puts     int
}

func (s *flakySink) Name() string { return "flaky" }
func (s *flakySink) Close() error { return nil }

func (s *flakySink) Put(context.Context, Object) error {
	s.puts++
	if s.puts <= s.failures {
		return s.err
	}
	return nil
}

func TestPublishRetries(t *testing.T) {
	retry := RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
	before := testutil.ToFloat64(metrics.SinkWrites.WithLabelValues("flaky", "success"))

	s := &flakySink{failures: 2, err: errors.New(errors.ErrorTypeConnection, "unavailable")}
	require.NoError(t, Publish(context.Background(), s, sampleObject(), retry))
	assert.Equal(t, 3, s.puts)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SinkWrites.WithLabelValues("flaky", "success")))

	s = &flakySink{failures: 5, err: errors.New(errors.ErrorTypeTimeout, "slow")}
	err := Publish(context.Background(), s, sampleObject(), retry)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTimeout))
	assert.Equal(t, 3, s.puts)

	s = &flakySink{failures: 5, err: errors.New(errors.ErrorTypeValidation, "bad key")}
	err = Publish(context.Background(), s, sampleObject(), retry)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Equal(t, 1, s.puts)
}

func TestPublishCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &flakySink{failures: 5, err: errors.New(errors.ErrorTypeConnection, "unavailable")}
	retry := RetryConfig{MaxAttempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour}

	time.AfterFunc(10*time.Millisecond, cancel)
	err := Publish(ctx, s, sampleObject(), retry)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTimeout))
	assert.Equal(t, 1, s.puts)
}

func TestRetryDelay(t *testing.T) {
	rp := &RetryPolicy{MaxAttempts: 5, InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2}
	assert.Equal(t, 100*time.Millisecond, rp.Delay(0))
	assert.Equal(t, 400*time.Millisecond, rp.Delay(2))
	assert.Equal(t, time.Second, rp.Delay(10))

	rp.RandomizeFactor = 0.5
	for i := 0; i < 20; i++ {
		d := rp.Delay(1)
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, 300*time.Millisecond)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*Config)
		ok    bool
	}{
		{"default", func(*Config) {}, true},
		{"file without dir", func(c *Config) { c.File.Dir = "" }, false},
		{"s3 without bucket", func(c *Config) { c.Kind = KindS3 }, false},
		{"s3", func(c *Config) { c.Kind = KindS3; c.S3.Bucket = "b" }, true},
		{"gcs without bucket", func(c *Config) { c.Kind = KindGCS }, false},
		{"kafka without topic", func(c *Config) { c.Kind = KindKafka; c.Kafka.Brokers = []string{"b:9092"} }, false},
		{"kafka", func(c *Config) { c.Kind = KindKafka; c.Kafka.Brokers = []string{"b:9092"}; c.Kafka.Topic = "t" }, true},
		{"unknown kind", func(c *Config) { c.Kind = "ftp" }, false},
		{"zero attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, false},
		{"inverted delays", func(c *Config) { c.Retry.MaxDelay = time.Millisecond }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.apply(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
			}
		})
	}
}

func TestNewFileSink(t *testing.T) {
	cfg := DefaultConfig()
	cfg.File.Dir = filepath.Join(t.TempDir(), "nested")
	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "file", s.Name())
	assert.NoError(t, s.Close())
}

func TestJoinKey(t *testing.T) {
	assert.Equal(t, "k", joinKey("", "k"))
	assert.Equal(t, "a/b/k", joinKey("a/b/", "/k"))
}
