package events

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/columnar/pkg/columnar"
	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/logger"
	"github.com/ajitpratap0/columnar/pkg/metrics"
)

var (
	names   = []string{"checkout", "login", "search", "upload", "refund", "signup"}
	tagPool = []string{"eu", "us", "mobile", "web", "beta", "retry", "batch"}
	reasons = []string{"quota exceeded", "invalid token", "timeout", "duplicate"}
)

// Generator produces deterministic synthetic events. The same seed and
// index always give the same event.
type Generator struct {
	Seed uint64
}

// Event returns the synthetic event at position i.
func (g Generator) Event(i uint64) Event {
	rng := rand.New(rand.NewPCG(g.Seed, i))

	tags := make([]string, rng.IntN(4))
	for j := range tags {
		tags[j] = tagPool[rng.IntN(len(tagPool))]
	}

	score := columnar.None[float64]()
	if rng.IntN(4) != 0 {
		score = columnar.Some(rng.Float64() * 100)
	}

	var outcome Outcome
	switch rng.IntN(10) {
	case 0, 1:
		outcome = Rejected(reasons[rng.IntN(len(reasons))])
	case 2:
		outcome = Pending()
	default:
		outcome = Accepted(uint32(200 + rng.IntN(8)))
	}

	return Event{
		ID:      i,
		Name:    fmt.Sprintf("%s-%d", names[rng.IntN(len(names))], rng.IntN(1000)),
		Tags:    tags,
		Score:   score,
		Outcome: outcome,
		Status:  Status(rng.IntN(len(statusNames))),
		Took:    time.Duration(rng.Int64N(int64(5 * time.Second))),
	}
}

// Build generates n events split across shards goroutines, each filling
// its own container, then concatenates the shards in order with
// ExtendFromSelf. shards <= 0 means NumCPU.
func (g Generator) Build(ctx context.Context, n, shards int) (*Events, error) {
	if n < 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "event count must not be negative").WithDetail("count", n)
	}
	if shards <= 0 {
		shards = runtime.NumCPU()
	}
	if shards > n {
		shards = max(n, 1)
	}

	tracker := metrics.NewThroughputTracker("generate")
	parts := make([]*Events, shards)
	per := (n + shards - 1) / shards

	eg, ctx := errgroup.WithContext(ctx)
	for s := range parts {
		lo, hi := min(s*per, n), min((s+1)*per, n)
		eg.Go(func() error {
			part := New()
			for i := lo; i < hi; i++ {
				if i%4096 == 0 && ctx.Err() != nil {
					return errors.Wrap(ctx.Err(), errors.ErrorTypeTimeout, "generation cancelled")
				}
				part.Push(g.Event(uint64(i)))
			}
			tracker.Increment(int64(hi - lo))
			logger.WithContext(context.WithValue(ctx, logger.ShardKey, s)).
				Debug("built shard", zap.Int("events", hi-lo))
			parts[s] = part
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := New()
	for _, part := range parts {
		out.ExtendFromSelf(part, 0, part.Len())
	}
	logger.Info("generated events",
		zap.Int("events", out.Len()),
		zap.Int("shards", shards),
		zap.Float64("events_per_sec", tracker.GetAndReset()))
	return out, nil
}
