package bench

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wesleyorama2/courier/host"
)

// ErrInvalidOptions is returned by Run for unusable options.
var ErrInvalidOptions = errors.New("bench: invalid options")

// Options controls a run.
type Options struct {
	// Requests is the total number of requests to send.
	Requests int
	// Concurrency is the number of workers sending in parallel.
	Concurrency int
	// Rate caps request starts per second across all workers. Zero means
	// as fast as the workers go.
	Rate float64
	// OnResult, if set, is called after every request from the worker that
	// sent it.
	OnResult func(i int, res host.Resolved, latency time.Duration)
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.Requests <= 0 {
		return fmt.Errorf("%w: requests must be positive (got: %d)", ErrInvalidOptions, o.Requests)
	}
	if o.Concurrency <= 0 {
		return fmt.Errorf("%w: concurrency must be positive (got: %d)", ErrInvalidOptions, o.Concurrency)
	}
	if o.Rate < 0 {
		return fmt.Errorf("%w: rate cannot be negative (got: %g)", ErrInvalidOptions, o.Rate)
	}
	return nil
}

// Run sends opts.Requests requests built by next across opts.Concurrency
// workers. A Request runs only once, so next is called for every iteration.
// A request counts as a success when it resolves with a 2xx status.
// Cancelling ctx stops handing out work; in-flight requests are aborted.
func Run(ctx context.Context, opts Options, next func(i int) *host.Request) (Snapshot, error) {
	if err := opts.Validate(); err != nil {
		return Snapshot{}, err
	}

	concurrency := opts.Concurrency
	if concurrency > opts.Requests {
		concurrency = opts.Requests
	}

	rec := NewRecorder()
	pacer := NewPacer(opts.Rate)
	var issued atomic.Int64
	var wg sync.WaitGroup

	// Start workers
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(issued.Add(1)) - 1
				if i >= opts.Requests || pacer.Wait(ctx) != nil {
					return
				}

				start := time.Now()
				res := next(i).Resolved(ctx)
				latency := time.Since(start)

				var size int64
				if d, err := res.AsData().Resolve(); err == nil {
					size = int64(len(d.Body))
				}
				code := 0
				if res.State() != host.StateFailure {
					code = res.Status().Int()
				}
				ok := res.State() != host.StateFailure && res.Status().IsSuccess()
				rec.Record(latency, ok, size, code)

				if opts.OnResult != nil {
					opts.OnResult(i, res, latency)
				}
			}
		}()
	}

	wg.Wait()
	return rec.Snapshot(), ctx.Err()
}
