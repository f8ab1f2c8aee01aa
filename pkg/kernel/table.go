package kernel

import (
	"sync"

	"tinykernel.dev/tinykernel/internal/kconfig"
)

// mlfqPseudoState is the MLFQ pool's bookkeeping as a single stride
// client (mlfq_pseudo).
type mlfqPseudoState struct {
	pass      float64
	cpuShare  int
	hpriority int
	totalTick int
}

// Table is the fixed-capacity task table plus the single spinlock that
// guards every state transition in it. In this simulation "spinlock" is
// an ordinary sync.Mutex: there is no busy-wait story to preserve once
// the context switch is opaque, only the single-lock-guards-everything
// discipline the lock enforces.
type Table struct {
	mu   sync.Mutex
	cond *sync.Cond // Wait()'d on tb.mu; broadcast by wakeupLocked.

	cfg kconfig.Config

	tasks []Task // len == cfg.NProc, indices are stable for process lifetime.

	nextPid int
	nextTid int

	mlfqPseudo mlfqPseudoState
	totalCPU   int

	ready *readySet

	initProc int32 // slot index of initproc, or noSlot before boot.

	cgroups *CgroupMirror // best-effort host mirror of admitted stride shares.

	globalTicks int // monotonic count of dispatch ticks, underlying uptime().

	// ticksChan is the wait channel every sleep(ticks) caller blocks on,
	// derived via ChanOf from the table's own tick counter: a concrete
	// instance of "an arbitrary address used as an opaque identity"
	// rather than a hand-picked magic constant.
	ticksChan WaitChannel
}

// Uptime returns the global tick count.
func (tb *Table) Uptime() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.globalTicks
}

// NewTable allocates an empty task table sized per cfg.
func NewTable(cfg kconfig.Config) *Table {
	tb := &Table{
		cfg:      cfg,
		tasks:    make([]Task, cfg.NProc),
		nextPid:  1,
		nextTid:  1,
		ready:    newReadySet(),
		initProc: noSlot,
		cgroups:  NewCgroupMirror(),
	}
	tb.cond = sync.NewCond(&tb.mu)
	tb.ticksChan = ChanOf(&tb.globalTicks)
	for i := range tb.tasks {
		tb.tasks[i].index = int32(i)
		tb.tasks[i].master = noSlot
		tb.tasks[i].parent = noSlot
	}
	// mlfq_pseudo starts with the entire CPU residual since no stride
	// client has been admitted yet (invariant 6).
	tb.mlfqPseudo.cpuShare = 100
	return tb
}

// removeFromReadySet and addToReadySet, together with setStridePass and
// setMlfqKey below, are the only code outside readyset.go that changes
// tb.ready (Tick and priorityBoostLocked only read it); every mutation
// of state/schedMode/stride.pass/mlfq.{level,priority} routes through the
// setState/setSchedMode/setStridePass/setMlfqKey helpers below so the
// indices never drift from the table they index.
func (tb *Table) removeFromReadySet(t *Task) {
	if t.schedMode == Stride {
		tb.ready.removeStrideBySlot(t.index, t.stride.pass)
	} else {
		tb.ready.removeMlfqBySlot(t.index, t.mlfq.level, t.mlfq.priority)
	}
}

func (tb *Table) addToReadySet(t *Task) {
	if t.schedMode == Stride {
		tb.ready.upsertStride(t.index, t.stride.pass)
	} else {
		tb.ready.upsertMlfq(t.index, t.mlfq.level, t.mlfq.priority)
	}
}

// setState transitions t to newState, keeping the ready-set indices in
// sync. Caller must hold tb.mu.
func (tb *Table) setState(t *Task, newState ProcState) {
	if t.state == Runnable {
		tb.removeFromReadySet(t)
	}
	t.state = newState
	if newState == Runnable {
		tb.addToReadySet(t)
	}
}

// setSchedMode switches t between Mlfq and Stride, keeping the ready-set
// indices in sync. Caller must hold tb.mu.
func (tb *Table) setSchedMode(t *Task, mode SchedMode) {
	runnable := t.state == Runnable
	if runnable {
		tb.removeFromReadySet(t)
	}
	t.schedMode = mode
	if runnable {
		tb.addToReadySet(t)
	}
}

// setStridePass updates t's stride pass, keeping the ready-set index in
// sync. Caller must hold tb.mu.
func (tb *Table) setStridePass(t *Task, pass float64) {
	runnable := t.state == Runnable && t.schedMode == Stride
	if runnable {
		tb.ready.removeStrideBySlot(t.index, t.stride.pass)
	}
	t.stride.pass = pass
	if runnable {
		tb.ready.upsertStride(t.index, t.stride.pass)
	}
}

// setMlfqKey updates t's (level, priority), keeping the ready-set index
// in sync. Caller must hold tb.mu.
func (tb *Table) setMlfqKey(t *Task, level MlfqLevel, priority int) {
	runnable := t.state == Runnable && t.schedMode == Mlfq
	if runnable {
		tb.ready.removeMlfqBySlot(t.index, t.mlfq.level, t.mlfq.priority)
	}
	t.mlfq.level = level
	t.mlfq.priority = priority
	if runnable {
		tb.ready.upsertMlfq(t.index, t.mlfq.level, t.mlfq.priority)
	}
}

// taskByPidMasterLocked finds the master slot (tid==0) for pid. Caller
// must hold tb.mu.
func (tb *Table) taskByPidMasterLocked(pid int) *Task {
	for i := range tb.tasks {
		t := &tb.tasks[i]
		if t.state != Unused && t.pid == pid && t.tid == 0 {
			return t
		}
	}
	return nil
}

// taskLocked returns the task at slot, or nil if slot is noSlot.
func (tb *Table) taskLocked(slot int32) *Task {
	if slot == noSlot {
		return nil
	}
	return &tb.tasks[slot]
}

// NProc returns the table's fixed capacity.
func (tb *Table) NProc() int { return len(tb.tasks) }

// TaskByPid returns the master task with the given pid, or nil.
func (tb *Table) TaskByPid(pid int) *Task {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.taskByPidMasterLocked(pid)
}

// TaskByTid returns the live slot with the given nonzero tid, for
// callers that hold the tid returned by ThreadCreate rather than a pid
// (threads share their master's pid, so pid alone cannot identify one).
func (tb *Table) TaskByTid(tid int) *Task {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.findThreadByTidLocked(tid)
}

// ForcePriorityBoost triggers an out-of-cycle MLFQ priority boost,
// exposed for the CLI's boost subcommand and for tests asserting boost
// behavior without waiting BoostFrequency ticks to elapse.
func (tb *Table) ForcePriorityBoost() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.priorityBoostLocked()
}

// Snapshot returns a point-in-time, lock-protected copy of every non-
// Unused slot's observable fields. This is the ps(1)-style debug dump
// (original source's procdump) supplemented in SPEC_FULL.md: a teaching
// kernel needs some way to look at the table.
type Snapshot struct {
	Pid, Tid int
	State    ProcState
	Mode     SchedMode
	Level    MlfqLevel
	Name     string
	Killed   bool
}

// Snapshot lists every live task slot.
func (tb *Table) Snapshot() []Snapshot {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	var out []Snapshot
	for i := range tb.tasks {
		t := &tb.tasks[i]
		if t.state == Unused {
			continue
		}
		out = append(out, Snapshot{
			Pid: t.pid, Tid: t.tid, State: t.state, Mode: t.schedMode,
			Level: t.mlfq.level, Name: t.name, Killed: t.killed,
		})
	}
	return out
}
