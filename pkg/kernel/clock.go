package kernel

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Clock paces the virtual scheduler's tick rate so simulated time
// advances at a fixed, configurable cadence rather than as fast as the
// host CPU can spin: ticks come from a discrete clock source, not a busy
// loop. It wraps a token-bucket limiter rather than a bare time.Ticker so
// a future admission policy (e.g. temporarily speeding up simulated time
// for a test) can borrow burst capacity without restructuring callers.
type Clock struct {
	limiter *rate.Limiter
	ch      chan time.Time
	cancel  context.CancelFunc
}

// NewClock starts a clock ticking at hz ticks per second.
func NewClock(hz float64) *Clock {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Clock{
		limiter: rate.NewLimiter(rate.Limit(hz), 1),
		ch:      make(chan time.Time),
		cancel:  cancel,
	}
	go c.pump(ctx)
	return c
}

func (c *Clock) pump(ctx context.Context) {
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return
		}
		select {
		case c.ch <- time.Now():
		case <-ctx.Done():
			return
		}
	}
}

// C returns the channel a CPU loop receives one tick from.
func (c *Clock) C() <-chan time.Time { return c.ch }

// Stop halts the clock's background pump.
func (c *Clock) Stop() { c.cancel() }
