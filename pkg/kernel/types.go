// Package kernel implements the task table, scheduler, and lifecycle
// primitives of the teaching kernel core: a hybrid MLFQ/stride scheduler,
// an LWP thread model layered on the task table, and the sleep/wakeup/kill
// coordination primitives, all serialized by a single table-wide lock.
package kernel

// ProcState is the task state enum. It is a closed sum type: the field
// set that is meaningful depends on the variant (chan is only meaningful
// in Sleeping, for instance).
type ProcState int

const (
	// Unused marks a free slot, available to allocate.
	Unused ProcState = iota
	// Embryo marks a slot allocated but not yet ready to run. Embryo
	// slots are visible to allocation (so they are never double-
	// allocated) but are never picked by the scheduler.
	Embryo
	// Sleeping marks a task blocked on a wait channel.
	Sleeping
	// Runnable marks a task eligible for dispatch.
	Runnable
	// Running marks the task currently dispatched on some CPU.
	Running
	// Zombie marks an exited task retaining its resources until a
	// reaper (wait/thread_join) reclaims it.
	Zombie
	// Parked is not part of the original six-state lifecycle. A killed
	// sibling collected during exec is coerced into this explicit
	// un-schedulable state rather than overloading Sleeping with a
	// zero channel (invariant 4 requires a Sleeping task to carry a
	// non-zero chan); wakeup_except promotes it back to Runnable. See
	// exec.go.
	Parked
)

// SchedMode selects which of the two scheduling classes a task belongs
// to. MLFQ is the default; Stride is entered only through SetCPUShare
// admission.
type SchedMode int

const (
	// Mlfq is the default scheduling mode: multi-level feedback queue.
	Mlfq SchedMode = iota
	// Stride is the proportional-share mode entered via SetCPUShare.
	Stride
)

// MlfqLevel is one of the three MLFQ priority levels, L0 highest.
type MlfqLevel int

const (
	L0 MlfqLevel = iota
	L1
	L2
)
