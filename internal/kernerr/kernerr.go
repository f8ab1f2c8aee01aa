// Package kernerr defines the sentinel error values the kernel core
// surfaces to its callers. Callers compare these directly with
// errors.Is rather than pattern-matching on wrapped error text.
package kernerr

import "errors"

var (
	// NoSlot is returned when the task table is full (fork, thread_create).
	NoSlot = errors.New("kernel: no free task slot")

	// NoMemory is returned when address-space allocation fails. Callers
	// that observe this must have already reverted any partially
	// allocated slot to Unused.
	NoMemory = errors.New("kernel: address space allocation failed")

	// BadArg is returned for an invalid user pointer or integer argument.
	BadArg = errors.New("kernel: invalid argument")

	// NotMaster is returned when thread_join is attempted by a slave, or
	// for a tid whose master is not the caller.
	NotMaster = errors.New("kernel: caller is not the thread's master")

	// NoSuchChild is returned by wait when the caller has no children, or
	// was killed while waiting.
	NoSuchChild = errors.New("kernel: no such child")

	// AdmissionDenied is returned when set_cpu_share would push total
	// admitted share over budget.
	AdmissionDenied = errors.New("kernel: cpu share admission denied")

	// Killed marks a task whose killed flag is set; it is not itself an
	// error returned across the syscall boundary; it is attached to
	// results by the sleep and thread_join call sites that need to
	// explain a -1.
	Killed = errors.New("kernel: task killed")

	// NoSuchTask is returned by kill(pid) when no master slot has that
	// pid, and by thread_join when no slot has the given tid at all
	// (distinct from NotMaster, which covers a tid that exists but
	// belongs to a different master).
	NoSuchTask = errors.New("kernel: no such task")
)
