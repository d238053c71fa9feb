package schedule

import (
	"context"
	"sync"
	"time"
)

// DefaultRefreshInterval is how often the dashboard refetches its entries.
const DefaultRefreshInterval = 5 * time.Minute

// Refresher calls a refetch function on a fixed cadence until stopped.
// Manual triggers share the same function and are never coalesced.
type Refresher struct {
	refetch  func(context.Context)
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// StartRefresher starts the ticker loop. The loop ends when ctx is
// cancelled or Stop is called, whichever comes first.
func StartRefresher(ctx context.Context, interval time.Duration, refetch func(context.Context)) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	r := &Refresher{
		refetch:  refetch,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *Refresher) loop() {
	defer close(r.done)
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-t.C:
			// Stop may race with a tick that is already buffered.
			if r.ctx.Err() != nil {
				return
			}
			r.refetch(r.ctx)
		}
	}
}

// Interval is the effective tick period.
func (r *Refresher) Interval() time.Duration { return r.interval }

// Trigger runs the refetch function once, right now, on its own goroutine.
// It is a no-op after Stop.
func (r *Refresher) Trigger() {
	if r.ctx.Err() != nil {
		return
	}
	go r.refetch(r.ctx)
}

// Stop cancels the ticker and waits for the loop to exit. A scheduled
// refetch that is already running finishes first. Safe to call twice.
func (r *Refresher) Stop() {
	r.once.Do(r.cancel)
	<-r.done
}

// Done is closed once the loop has exited.
func (r *Refresher) Done() <-chan struct{} { return r.done }
