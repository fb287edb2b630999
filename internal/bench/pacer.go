package bench

import (
	"context"
	"sync"
	"time"
)

// Pacer spaces request starts at a fixed rate using a leaky bucket: each
// call to Next reserves the next slot, and a caller that falls behind
// schedule starts immediately without earning a burst.
type Pacer struct {
	interval time.Duration
	mu       sync.Mutex
	next     time.Time
}

// NewPacer creates a pacer for rate requests per second. The first slot is
// immediate. A non-positive rate yields nil, which never waits.
func NewPacer(rate float64) *Pacer {
	if rate <= 0 {
		return nil
	}
	return &Pacer{interval: time.Duration(float64(time.Second) / rate)}
}

// Next reserves a slot and returns when it starts. The result is in the
// past when the caller is behind schedule.
func (p *Pacer) Next() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if p.next.Before(now) {
		// Behind schedule: no catching up
		p.next = now
	}
	slot := p.next
	p.next = slot.Add(p.interval)
	return slot
}

// Wait blocks until the caller's slot starts or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return ctx.Err()
	}

	wait := time.Until(p.Next())
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
