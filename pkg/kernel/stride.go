package kernel

import "tinykernel.dev/tinykernel/internal/kernerr"

// strideTicket is the unit every stride call-for-service advances pass
// by: 100 / cpuShare, scaled by the number of threads sharing that share,
// since a cpu share is admitted per process and split evenly across the
// process's own live threads at dispatch time. Dividing at dispatch
// time rather than baking the divisor into cpuShare at admission means a
// thread_create or thread_exit immediately changes every sibling's
// ticket size without having to walk the table re-writing admitted
// shares.
func strideTicket(cpuShare, nThreads int) float64 {
	if nThreads < 1 {
		nThreads = 1
	}
	return 100.0 / float64(cpuShare) / float64(nThreads)
}

// SetCPUShare admits every task sharing t's pid into stride scheduling at
// the given percentage, or returns AdmissionDenied if doing so would push
// total admitted share (plus the MLFQ pool's guaranteed minimum) over
// 100. A task already in Stride mode is first given back its old share
// before the new request is checked, so
// lowering one's own share never spuriously fails. Admission resets every
// stride pass in the table, including the MLFQ pseudo-client's, to 0: a
// freshly admitted client neither receives an instant burst from
// inheriting a low pass nor is starved by carrying forward prior
// accumulation, and this reset is unconditional so the second of two
// identical set_cpu_share(c) calls still re-levels the field.
func (tb *Table) SetCPUShare(t *Task, percent int) error {
	if percent <= 0 || percent > 100 {
		return kernerr.BadArg
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	prior := 0
	if t.schedMode == Stride {
		prior = t.stride.cpuShare
	}
	if tb.totalCPU-prior+percent > 100-tb.cfg.MLFQMinPortion {
		return kernerr.AdmissionDenied
	}

	tb.totalCPU = tb.totalCPU - prior + percent
	for i := range tb.tasks {
		s := &tb.tasks[i]
		if s.state == Unused || s.pid != t.pid {
			continue
		}
		s.stride.cpuShare = percent
		tb.setSchedMode(s, Stride)
	}
	for i := range tb.tasks {
		s := &tb.tasks[i]
		if s.state != Unused && s.schedMode == Stride {
			tb.setStridePass(s, 0)
		}
	}
	tb.mlfqPseudo.pass = 0
	tb.mlfqPseudo.cpuShare = 100 - tb.totalCPU

	tb.cgroups.Mirror(t.pid, percent)
	return nil
}

// threadCountLocked returns the number of live (non-Unused, non-Zombie)
// threads belonging to the process whose master is at masterIdx,
// including the master itself. Caller must hold tb.mu.
func (tb *Table) threadCountLocked(masterIdx int32) int {
	n := 0
	for i := range tb.tasks {
		t := &tb.tasks[i]
		if t.state == Unused || t.state == Zombie {
			continue
		}
		if t.index == masterIdx || t.master == masterIdx {
			n++
		}
	}
	if n == 0 {
		n = 1
	}
	return n
}

// advanceStride charges t one ticket's worth of virtual time for the
// dispatch it just received: pass += stride after every dispatch.
func (tb *Table) advanceStride(t *Task) {
	masterIdx := t.index
	if t.master != noSlot {
		masterIdx = t.master
	}
	nThreads := tb.threadCountLocked(masterIdx)
	ticket := strideTicket(t.stride.cpuShare, nThreads)
	tb.setStridePass(t, t.stride.pass+ticket)
}
