// Package syscall implements the kernel core's external interface: one
// function per system call, each taking a caller task and a decoded
// Arguments value and returning a single uintptr result. A real
// implementation keys this table by a numeric syscall number decoded
// from a trapframe; this kernel has no trapframe of its own, so the
// table is keyed by name instead.
package syscall

import (
	"tinykernel.dev/tinykernel/internal/kernerr"
	"tinykernel.dev/tinykernel/pkg/kernel"
)

// Arg is one decoded system-call argument. Real argument marshaling off
// a trapframe is outside this kernel's scope (there is no real trapframe
// here); callers construct Arg values directly from interpreted-code
// operands, but the accessor names mirror argint/argptr's contract:
// invalid input decodes to an error rather than a value.
type Arg struct {
	asInt   int
	asPtr   any
	ptrOK   bool
	present bool
}

// IntArg constructs a present integer argument.
func IntArg(v int) Arg { return Arg{asInt: v, present: true} }

// PtrArg constructs a present pointer-valued (out-parameter) argument.
func PtrArg(v any) Arg { return Arg{asPtr: v, ptrOK: v != nil, present: true} }

// Arguments is the decoded operand list for one system call, indexed
// positionally like arch.SyscallArguments.
type Arguments []Arg

// Int decodes argument i as an integer, mirroring argint's contract:
// returns BadArg if i is out of range.
func (a Arguments) Int(i int) (int, error) {
	if i < 0 || i >= len(a) || !a[i].present {
		return 0, kernerr.BadArg
	}
	return a[i].asInt, nil
}

// Ptr decodes argument i as a non-nil pointer-valued out-parameter,
// mirroring argptr's contract: returns BadArg if i is out of range or
// the pointer is nil.
func (a Arguments) Ptr(i int) (any, error) {
	if i < 0 || i >= len(a) || !a[i].present || !a[i].ptrOK {
		return nil, kernerr.BadArg
	}
	return a[i].asPtr, nil
}

// Func is the shape every syscall implementation has: decode args
// against the caller's task and table, return the single uintptr result
// (or an error the caller translates to -1).
type Func func(tb *kernel.Table, t *kernel.Task, args Arguments) (uintptr, error)

// Table maps syscall name to implementation. A numeric syscall number
// would index this more cheaply, but there's no trapframe here to carry
// one, so name is the key.
var Table = map[string]Func{
	"fork":           Fork,
	"exit":           Exit,
	"wait":           Wait,
	"kill":           Kill,
	"getpid":         Getpid,
	"getppid":        Getppid,
	"gettid":         Gettid,
	"sbrk":           Sbrk,
	"sleep":          Sleep,
	"uptime":         Uptime,
	"yield":          Yield,
	"getlev":         Getlev,
	"set_cpu_share":  SetCPUShare,
	"thread_create":  ThreadCreate,
	"thread_exit":    ThreadExit,
	"thread_join":    ThreadJoin,
}

// Invoke looks up name in Table and calls it, returning BadArg if no
// such call is registered (mirrors an invalid sysno trapping to -1
// rather than panicking).
func Invoke(tb *kernel.Table, t *kernel.Task, name string, args Arguments) (uintptr, error) {
	fn, ok := Table[name]
	if !ok {
		return 0, kernerr.BadArg
	}
	return fn(tb, t, args)
}
