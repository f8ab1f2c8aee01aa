package syscall

import "tinykernel.dev/tinykernel/pkg/kernel"

// Fork implements fork: no arguments, returns the child's pid or -1 on
// NoSlot/NoMemory.
func Fork(tb *kernel.Table, t *kernel.Task, args Arguments) (uintptr, error) {
	pid, err := tb.Fork(t)
	if err != nil {
		return badRet, err
	}
	return uintptr(pid), nil
}

// Exit implements exit: never returns to the caller in a real kernel;
// here it simply runs the exit sequence and the caller is expected not
// to use t again.
func Exit(tb *kernel.Table, t *kernel.Task, args Arguments) (uintptr, error) {
	status, err := args.Int(0)
	if err != nil {
		status = 0
	}
	tb.Exit(t, status)
	return 0, nil
}

// Wait implements wait: returns a reaped child's pid, or -1 with
// NoSuchChild.
func Wait(tb *kernel.Table, t *kernel.Task, args Arguments) (uintptr, error) {
	pid, err := tb.Wait(t)
	if err != nil {
		return badRet, err
	}
	return uintptr(pid), nil
}

// Kill implements kill(pid): returns 0, or -1 if no such master.
func Kill(tb *kernel.Table, t *kernel.Task, args Arguments) (uintptr, error) {
	pid, err := args.Int(0)
	if err != nil {
		return badRet, err
	}
	if err := tb.Kill(pid); err != nil {
		return badRet, err
	}
	return 0, nil
}

// Getpid implements getpid.
func Getpid(tb *kernel.Table, t *kernel.Task, args Arguments) (uintptr, error) {
	return uintptr(t.Pid()), nil
}

// Getppid implements getppid: pid of the caller's parent (resolved
// through the master if the caller is a slave thread, since tid/parent
// bookkeeping lives on the master).
func Getppid(tb *kernel.Table, t *kernel.Task, args Arguments) (uintptr, error) {
	pid := tb.ParentPid(t)
	return uintptr(pid), nil
}

// Gettid implements gettid: 0 for the master.
func Gettid(tb *kernel.Table, t *kernel.Task, args Arguments) (uintptr, error) {
	return uintptr(t.Tid()), nil
}

// Sbrk implements sbrk(n): grows (or shrinks, if n is negative) the
// caller's address space by n bytes, returning the old size or -1 on
// NoMemory.
func Sbrk(tb *kernel.Table, t *kernel.Task, args Arguments) (uintptr, error) {
	n, err := args.Int(0)
	if err != nil {
		return badRet, err
	}
	old, err := tb.Grow(t, n)
	if err != nil {
		return badRet, err
	}
	return uintptr(old), nil
}

// Uptime implements uptime: the global tick count.
func Uptime(tb *kernel.Table, t *kernel.Task, args Arguments) (uintptr, error) {
	return uintptr(tb.Uptime()), nil
}

// Getlev implements getlev: the caller's current MLFQ level.
func Getlev(tb *kernel.Table, t *kernel.Task, args Arguments) (uintptr, error) {
	return uintptr(t.Level()), nil
}

// badRet is the uniform "-1" failure return, expressed as the uintptr a
// syscall frame would actually carry (the caller's trapframe
// reinterprets it as the signed sentinel).
const badRet = ^uintptr(0)
