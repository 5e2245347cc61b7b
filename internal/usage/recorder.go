// Package usage bumps destination search counters off the request path.
package usage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mr1hm/go-saferoute/internal/worker"
)

// Counter is the catalog method the recorder drives.
type Counter interface {
	IncrementSearchCount(ctx context.Context, ids ...int64) (int64, error)
}

type Recorder struct {
	counter Counter
	pool    *worker.Pool[[]int64]
}

func NewRecorder(counter Counter, workers, buffer int) *Recorder {
	r := &Recorder{counter: counter}
	r.pool = worker.NewPool("search-count", workers, buffer, r.process)
	return r
}

func (r *Recorder) Start(ctx context.Context) {
	r.pool.Start(ctx)
}

// Record queues a search-count bump for the given destinations. When the
// queue is full the bump is dropped and logged.
func (r *Recorder) Record(ids ...int64) {
	if len(ids) == 0 {
		return
	}
	if !r.pool.TrySubmit(ids) {
		slog.Warn("search count queue full, dropping update", "ids", ids)
	}
}

func (r *Recorder) process(ctx context.Context, ids []int64) error {
	if _, err := r.counter.IncrementSearchCount(ctx, ids...); err != nil {
		return fmt.Errorf("error recording search count: %w", err)
	}
	return nil
}

// Stop waits for queued updates to be written.
func (r *Recorder) Stop() {
	r.pool.Stop()
}
