package syscall

import (
	"tinykernel.dev/tinykernel/internal/kernerr"
	"tinykernel.dev/tinykernel/pkg/kernel"
)

// Sleep implements sleep(ticks): blocks the caller for approximately
// ticks dispatch ticks, sleeping on the table's shared ticks wait
// channel (woken on every Tick) and re-checking
// the deadline on every wakeup rather than waiting on an absolute
// timer. Returns -1 with Killed if the caller is killed before ticks
// elapse.
func Sleep(tb *kernel.Table, t *kernel.Task, args Arguments) (uintptr, error) {
	ticks, err := args.Int(0)
	if err != nil {
		return badRet, err
	}
	if ticks <= 0 {
		return 0, nil
	}
	if err := tb.SleepTicks(t, ticks); err != nil {
		return badRet, err
	}
	return 0, nil
}

// Yield implements yield: always succeeds.
func Yield(tb *kernel.Table, t *kernel.Task, args Arguments) (uintptr, error) {
	tb.Yield(t)
	return 0, nil
}

// SetCPUShare implements set_cpu_share(pct): admits the caller's
// process into stride scheduling at pct percent, or returns -1 with
// AdmissionDenied/BadArg.
func SetCPUShare(tb *kernel.Table, t *kernel.Task, args Arguments) (uintptr, error) {
	pct, err := args.Int(0)
	if err != nil {
		return badRet, err
	}
	if !t.IsMaster() {
		return badRet, kernerr.BadArg
	}
	if err := tb.SetCPUShare(t, pct); err != nil {
		return badRet, err
	}
	return 0, nil
}
