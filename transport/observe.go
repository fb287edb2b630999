package transport

import (
	"context"
	"time"
)

// Exchange is what an Observer sees for one completed call.
type Exchange struct {
	Out     Outgoing
	Body    []byte
	Meta    *Metadata
	Err     error
	Elapsed time.Duration
}

// Observer is told about every exchange after it completes and before the
// caller's completion runs.
type Observer func(Exchange)

// Observe wraps t so that fn sees each exchange. The triad is passed on
// unchanged.
func Observe(t Transport, fn Observer) Transport {
	return Func(func(ctx context.Context, out Outgoing, done Completion) {
		start := time.Now()
		t.Do(ctx, out, func(body []byte, meta *Metadata, err error) {
			fn(Exchange{Out: out, Body: body, Meta: meta, Err: err, Elapsed: time.Since(start)})
			done(body, meta, err)
		})
	})
}
