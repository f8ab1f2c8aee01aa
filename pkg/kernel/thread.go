package kernel

import "tinykernel.dev/tinykernel/internal/kernerr"

// ThreadCreate spawns a slave thread sharing curr's (the master's)
// address space. The new thread's stack is carved out of a two-page
// region — one guard page, one stack page — at the most recently freed
// blank region left behind by a joined thread, or else grown at the top of the
// address space. curr must be a master. Returns the new thread's tid
// (the identifier thread_join actually keys on; pid is shared with
// curr, since every thread of a process references the same address
// space).
func (tb *Table) ThreadCreate(curr *Task, start uintptr) (int, error) {
	if !curr.IsMaster() {
		return -1, kernerr.NotMaster
	}

	slave, err := tb.Allocate(curr.name)
	if err != nil {
		return -1, err
	}

	tb.mu.Lock()
	tb.nextPid-- // threads share pid; undo allocate()'s throwaway increment.
	var vabase uint64
	n := len(curr.blankRegions)
	if n > 0 {
		vabase = curr.blankRegions[n-1]
		curr.blankRegions = curr.blankRegions[:n-1]
	} else {
		vabase = curr.size
		curr.size += 2 * tb.cfg.PageSize
	}
	masterIdx := curr.index
	tb.mu.Unlock()

	curr.addrSpace.AllocPages(vabase, 2, tb.cfg.PageSize, true)

	tb.mu.Lock()
	tid := tb.nextTid
	tb.nextTid++
	slave.tid = tid
	slave.pid = curr.pid // threads of one process share pid.
	slave.master = masterIdx
	slave.parent = masterIdx
	slave.vabase = vabase
	slave.addrSpace = curr.addrSpace
	slave.size = curr.size
	slave.files = curr.files
	slave.tmpRetval = start // stashed entry point; nothing reads it back, and ThreadExit overwrites it.

	// Inherit the master's scheduling mode. A stride process's share is
	// re-divided the moment a new thread joins, so every sibling's pass
	// (and the new thread's) is reset to zero here rather than left to
	// carry forward a now-stale per-thread ticket.
	if curr.schedMode == Stride {
		slave.stride.cpuShare = curr.stride.cpuShare
		tb.setSchedMode(slave, Stride)
		for i := range tb.tasks {
			s := &tb.tasks[i]
			if s.state != Unused && s.pid == slave.pid {
				tb.setStridePass(s, 0)
			}
		}
	}
	tb.setState(slave, Runnable)
	tb.mu.Unlock()

	return tid, nil
}

// ThreadExit terminates the calling slave, stashing retval for a future
// ThreadJoin and waking the master if it is waiting on this thread's
// exit. t must be a slave.
func (tb *Table) ThreadExit(t *Task, retval any) error {
	if t.IsMaster() {
		return kernerr.NotMaster
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	t.tmpRetval = retval
	t.tmpRetvalSet = true
	tb.setState(t, Zombie)
	master := tb.taskLocked(t.master)
	if master != nil {
		tb.wakeupLocked(selfChan(master))
	}
	tb.cond.Broadcast()
	return nil
}

// ThreadJoin blocks curr (a master) until the slave identified by tid
// exits, returning its stashed retval and recycling its stack region for
// reuse by a future ThreadCreate. Returns NotMaster if tid belongs to a
// different master, NoSuchTask if no slot has that tid at all.
func (tb *Table) ThreadJoin(curr *Task, tid int) (any, error) {
	if !curr.IsMaster() {
		return nil, kernerr.NotMaster
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	for {
		s := tb.findThreadByTidLocked(tid)
		if s == nil {
			return nil, kernerr.NoSuchTask
		}
		if s.master != curr.index {
			return nil, kernerr.NotMaster
		}
		if s.state == Zombie {
			retval := s.tmpRetval
			tb.cleanupThreadLocked(s)
			return retval, nil
		}
		if curr.killed {
			return nil, kernerr.Killed
		}
		tb.sleepLocked(curr, selfChan(curr))
	}
}

func (tb *Table) findThreadByTidLocked(tid int) *Task {
	for i := range tb.tasks {
		t := &tb.tasks[i]
		if t.state != Unused && t.tid == tid {
			return t
		}
	}
	return nil
}

// cleanupThreadLocked reclaims a Zombie slave's table slot and returns
// its two-page stack region to the master's blank-region freelist for
// reuse by the next ThreadCreate. Caller must hold tb.mu.
func (tb *Table) cleanupThreadLocked(s *Task) {
	master := tb.taskLocked(s.master)
	if master != nil {
		master.blankRegions = append(master.blankRegions, s.vabase)
	}
	s.tid = 0
	s.master = noSlot
	s.parent = noSlot
	s.addrSpace = nil
	s.size = 0
	s.vabase = 0
	s.kstack = nil
	s.files = nil
	s.pid = 0
	s.name = ""
	s.killed = false
	s.tmpRetval = nil
	s.tmpRetvalSet = false
	s.log = nil
	tb.setState(s, Unused)
}
