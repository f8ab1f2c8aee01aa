package syscall

import (
	"tinykernel.dev/tinykernel/internal/kernerr"
	"tinykernel.dev/tinykernel/pkg/kernel"
)

// ThreadCreate implements thread_create(out_tid, start_routine, arg):
// spawns a slave thread, writes its tid through the out_tid
// out-parameter, and returns 0, or -1 on NoSlot/NoMemory/NotMaster. arg
// is accepted for interface fidelity with the three-argument call but
// this kernel has no user calling convention to pass it through, so
// only start_routine's address is retained.
func ThreadCreate(tb *kernel.Table, t *kernel.Task, args Arguments) (uintptr, error) {
	outTid, err := args.Ptr(0)
	if err != nil {
		return badRet, err
	}
	start, err := args.Int(1)
	if err != nil {
		return badRet, err
	}
	out, ok := outTid.(*int)
	if !ok || out == nil {
		return badRet, kernerr.BadArg
	}

	tid, err := tb.ThreadCreate(t, uintptr(start))
	if err != nil {
		return badRet, err
	}
	*out = tid
	return 0, nil
}

// ThreadExit implements thread_exit(retval): never returns to the
// caller.
func ThreadExit(tb *kernel.Table, t *kernel.Task, args Arguments) (uintptr, error) {
	retval, _ := args.Int(0)
	_ = tb.ThreadExit(t, retval)
	return 0, nil
}

// ThreadJoin implements thread_join(tid, *out_retval): master only,
// blocks until tid exits, writes its retval through the out-parameter,
// returns 0 or -1 on NotMaster/NoSuchTask/Killed.
func ThreadJoin(tb *kernel.Table, t *kernel.Task, args Arguments) (uintptr, error) {
	tid, err := args.Int(0)
	if err != nil {
		return badRet, err
	}
	outRetval, err := args.Ptr(1)
	if err != nil {
		return badRet, err
	}
	out, ok := outRetval.(*int)
	if !ok || out == nil {
		return badRet, kernerr.BadArg
	}

	retval, err := tb.ThreadJoin(t, tid)
	if err != nil {
		return badRet, err
	}
	if rv, ok := retval.(int); ok {
		*out = rv
	}
	return 0, nil
}
