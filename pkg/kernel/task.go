package kernel

import (
	"github.com/sirupsen/logrus"

	"tinykernel.dev/tinykernel/internal/ktrace"
)

// noSlot is the sentinel slot index meaning "no such task" — used for
// master/parent back-references instead of pointers, an arena-plus-
// stable-indices design that sidesteps the owning-cycle problem parent/
// master/children back-references would otherwise create.
const noSlot int32 = -1

// WaitChannel is the opaque wait-channel identity: an arbitrary address
// used as an opaque rendezvous point between sleepers and wakers. Any
// comparable value works; callers typically pass the address of a stable
// object they own (a task, a struct field) converted with ChanOf.
type WaitChannel uintptr

// ChanOf derives a WaitChannel from the address of any addressable value,
// giving every would-be "wait on this object" call site a stable,
// collision-free identity without requiring the caller to mint one by
// hand.
func ChanOf(p any) WaitChannel {
	return WaitChannel(ptrOf(p))
}

// mlfqState is the per-task MLFQ bookkeeping (mlfq).
type mlfqState struct {
	level    MlfqLevel
	priority int
	ticks    int
}

// strideState is the per-task stride bookkeeping (stride). pass
// is a running cumulative virtual time; cpuShare is the admitted percent.
type strideState struct {
	pass     float64
	cpuShare int
}

// fileTable is a deliberately minimal stand-in for real open-file/cwd
// references. The filesystem is an external collaborator; all this
// implementation needs is the *sharing* semantics (dup on fork/
// thread_create, release on exit) that the rest of the kernel core
// actually depends on.
type fileTable struct {
	files []string // opaque file identities; dup'd by value
	cwd   string
}

func (f *fileTable) dup() *fileTable {
	if f == nil {
		return &fileTable{}
	}
	files := make([]string, len(f.files))
	copy(files, f.files)
	return &fileTable{files: files, cwd: f.cwd}
}

func (f *fileTable) close() {
	f.files = nil
	f.cwd = ""
}

// Task is one task-table slot. All fields are protected by the owning
// Table's lock except pid/tid/kstack after the Embryo→Runnable
// transition.
type Task struct {
	index int32 // stable slot index into Table.tasks; never changes.

	state ProcState
	pid   int
	tid   int // 0 for the master, nonzero for a slave.

	master int32 // slot index of the master, or noSlot if self is master.
	parent int32 // slot index of the creating master, or noSlot.

	addrSpace *AddrSpace
	size      uint64 // authoritative on the master; mirrored on slaves.
	vabase    uint64 // slave's stack base within the shared address space.

	// blankRegions is master-only: a LIFO of vabase values left behind
	// by exited, joined slaves (thread_create/cleanup_thread).
	blankRegions []uint64

	kstack []byte // opaque kernel stack region.

	chanValid bool
	chan_     WaitChannel

	killed     bool
	exitStatus int

	files *fileTable

	schedMode SchedMode
	mlfq      mlfqState
	stride    strideState

	tmpRetval    any
	tmpRetvalSet bool

	name string

	log *logrus.Entry
}

// Pid returns the task's process id.
func (t *Task) Pid() int { return t.pid }

// Tid returns the task's thread id (0 for the master).
func (t *Task) Tid() int { return t.tid }

// IsMaster reports whether this task is the master of its process.
func (t *Task) IsMaster() bool { return t.master == noSlot }

// State returns the task's current state.
func (t *Task) State() ProcState { return t.state }

// Killed reports the sticky kill flag.
func (t *Task) Killed() bool { return t.killed }

// Name returns the task's debug name.
func (t *Task) Name() string { return t.name }

// Level returns the task's current MLFQ level (meaningful only when
// SchedMode() == Mlfq).
func (t *Task) Level() MlfqLevel { return t.mlfq.level }

// SchedMode returns whether the task is in MLFQ or stride mode.
func (t *Task) SchedMode() SchedMode { return t.schedMode }

// CPUShare returns the task's admitted stride share (0 if not Stride
// mode).
func (t *Task) CPUShare() int { return t.stride.cpuShare }

// ExitStatus returns the status passed to Exit, meaningful only once
// State() == Zombie.
func (t *Task) ExitStatus() int { return t.exitStatus }

// Size returns the task's own size field. On a master this is the
// authoritative address-space size; on a slave it is the mirror copy set
// by ThreadCreate and by a Grow the slave itself makes, and it is not
// updated when the master's size later changes by other calls.
func (t *Task) Size() uint64 { return t.size }

func (t *Task) infof(format string, args ...any) {
	if t.log == nil {
		t.log = ktrace.For(logrus.Fields{"pid": t.pid, "tid": t.tid})
	}
	t.log.Infof(format, args...)
}

func (t *Task) warningf(format string, args ...any) {
	if t.log == nil {
		t.log = ktrace.For(logrus.Fields{"pid": t.pid, "tid": t.tid})
	}
	t.log.Warningf(format, args...)
}
