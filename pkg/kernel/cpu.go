package kernel

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// CPU is one simulated per-CPU scheduler loop (one scheduler loop per
// physical CPU in the original design; NCPU here is a config knob rather
// than a hardware fact). Each CPU independently calls Tick and, when it
// wins a task, lets that task's goroutine run for one quantum's
// wall-clock slice before yielding it back.
type CPU struct {
	id    int
	table *Table
	clock *Clock

	idleTicks int // ticks where Tick() found no runnable task; ps/metrics only.
}

// IdleTicks reports how many ticks this CPU found nothing runnable,
// supplementing a hardware hlt-loop idle spin with a number a metrics
// surface can read instead of a register-level halt state this
// simulation has no analogue for.
func (c *CPU) IdleTicks() int { return c.idleTicks }

// RunCPUs drives cfg.NCPU independent CPU loops against tb until ctx is
// canceled, using an errgroup so the first loop's unexpected error (none
// are expected in steady state; Tick never errors) cancels every sibling
// loop instead of leaking them, the same supervised-goroutine-group
// pattern the pack's platform loops use.
func RunCPUs(ctx context.Context, tb *Table, clock *Clock) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < tb.cfg.NCPU; i++ {
		cpu := &CPU{id: i, table: tb, clock: clock}
		g.Go(func() error { return cpu.run(ctx) })
	}
	return g.Wait()
}

// run repeatedly ticks the scheduler, sleeping on the clock between
// ticks so many simulated CPUs don't spin a host core each: dispatch is
// tick-driven, not free-running.
func (c *CPU) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.clock.C():
		}
		winner := c.table.Tick()
		if !winner.Found {
			c.idleTicks++
			continue
		}
		c.runWinnerOneQuantum(ctx, winner)
	}
}

// runWinnerOneQuantum lets the dispatched task's goroutine actually run
// by waking it (if parked on the table's cond) and giving it one
// quantum's worth of wall-clock time before reclaiming the CPU via
// Yield, if the task hasn't already exited or slept on its own.
func (c *CPU) runWinnerOneQuantum(ctx context.Context, w Winner) {
	c.table.mu.Lock()
	c.table.cond.Broadcast()
	c.table.mu.Unlock()

	quantum := time.Millisecond
	if w.Mode == Mlfq {
		quantum = time.Duration(c.table.cfg.Quantum[w.Task.mlfq.level]) * time.Millisecond
	}
	select {
	case <-ctx.Done():
	case <-time.After(quantum):
	}
	c.table.Yield(w.Task)
}
