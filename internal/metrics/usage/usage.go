// Package usage counts analyzer and generator results per strength tier.
// Only the tier is recorded, never the password.
package usage

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/5w1tchy/passforge/internal/security/password"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Key is the Redis hash holding "<kind>:<tier>" -> count.
const Key = "usage:tiers"

const (
	KindAnalyze  = "analyze"
	KindGenerate = "generate"
)

type event struct {
	kind string
	tier password.Tier
}

// Recorder batches events in memory and flushes them with HINCRBY.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	rdb  *redis.Client
	log  *zap.Logger
	ch   chan event
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// Start spins up N workers with a buffered channel. Returns nil when rdb is nil.
// Suggested: buf=10000, workers=2
func Start(rdb *redis.Client, log *zap.Logger, buf, workers int) *Recorder {
	if rdb == nil {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	r := &Recorder{
		rdb:  rdb,
		log:  log,
		ch:   make(chan event, buf),
		done: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	return r
}

// Record queues one result without blocking.
// If the buffer is full, the event is dropped (acceptable for metrics).
func (r *Recorder) Record(kind string, tier password.Tier) {
	if r == nil {
		return
	}
	select {
	case r.ch <- event{kind: kind, tier: tier}:
	default:
		// buffer full; drop
	}
}

// Shutdown signals workers to stop, flushes remaining events, and waits.
func (r *Recorder) Shutdown() {
	if r == nil {
		return
	}
	r.once.Do(func() { close(r.done) })
	r.wg.Wait()
}

// --- internal ---

const (
	batchSize  = 100
	flushEvery = 250 * time.Millisecond
	writeTO    = 500 * time.Millisecond
)

func (r *Recorder) worker() {
	defer r.wg.Done()
	tk := time.NewTicker(flushEvery)
	defer tk.Stop()

	batch := make([]event, 0, batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := r.write(batch); err != nil {
			r.log.Warn("usage flush failed", zap.Int("events", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-r.done:
			// drain quickly then flush
			for {
				select {
				case ev := <-r.ch:
					batch = append(batch, ev)
					if len(batch) >= batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		case ev := <-r.ch:
			batch = append(batch, ev)
			if len(batch) >= batchSize {
				flush()
			}
		case <-tk.C:
			flush()
		}
	}
}

func (r *Recorder) write(batch []event) error {
	counts := make(map[string]int64, 8)
	for _, ev := range batch {
		counts[field(ev.kind, ev.tier)]++
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTO)
	defer cancel()
	_, err := r.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for f, n := range counts {
			p.HIncrBy(ctx, Key, f, n)
		}
		return nil
	})
	return err
}

func field(kind string, tier password.Tier) string {
	return kind + ":" + tier.String()
}

// Counts reads the totals as kind -> tier -> count. Every tier is present
// for each known kind, zero when never seen.
func Counts(ctx context.Context, rdb *redis.Client) (map[string]map[string]int64, error) {
	raw, err := rdb.HGetAll(ctx, Key).Result()
	if err != nil {
		return nil, err
	}
	out := map[string]map[string]int64{}
	for _, kind := range []string{KindAnalyze, KindGenerate} {
		out[kind] = map[string]int64{}
		for t := password.Weak; t <= password.VeryStrong; t++ {
			out[kind][t.String()] = 0
		}
	}
	for f, v := range raw {
		kind, tier, ok := strings.Cut(f, ":")
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		if out[kind] == nil {
			out[kind] = map[string]int64{}
		}
		out[kind][tier] = n
	}
	return out, nil
}
