package kernel

import "tinykernel.dev/tinykernel/internal/kernerr"

// selfChan derives the wait-channel identity a task sleeps on when it
// waits on "itself" (both Wait and the master's slave-reaping loop in
// Exit sleep on their own task). Slot indices are stable for the
// table's lifetime, so this is a perfectly good, allocation-free
// substitute for an address-of-task identity; it carries the same
// "arbitrary but stable and unique" property a real chan value needs.
func selfChan(t *Task) WaitChannel { return WaitChannel(t.index + 1) }

// Allocate scans for an Unused slot, marks it Embryo, assigns a pid, and
// zeroes every per-scheduler field. The returned task is Embryo:
// invisible to the scheduler until the caller transitions it to
// Runnable.
func (tb *Table) Allocate(name string) (*Task, error) {
	tb.mu.Lock()
	var slot *Task
	for i := range tb.tasks {
		if tb.tasks[i].state == Unused {
			slot = &tb.tasks[i]
			break
		}
	}
	if slot == nil {
		tb.mu.Unlock()
		return nil, kernerr.NoSlot
	}
	slot.state = Embryo
	slot.pid = tb.nextPid
	tb.nextPid++
	tb.mu.Unlock()

	// Allocate the kernel stack and address space with the table lock
	// released. Neither allocation reports failure here, so there is no
	// path that reverts the slot to Unused.
	kstack := make([]byte, 4096)
	addrSpace := NewAddrSpace()

	tb.mu.Lock()
	defer tb.mu.Unlock()
	slot.kstack = kstack
	slot.master = noSlot
	slot.parent = noSlot
	slot.addrSpace = addrSpace
	slot.size = 0
	slot.vabase = 0
	slot.blankRegions = nil
	slot.chanValid = false
	slot.chan_ = 0
	slot.killed = false
	slot.exitStatus = 0
	slot.files = &fileTable{}
	slot.schedMode = Mlfq
	slot.mlfq = mlfqState{}
	slot.stride = strideState{}
	slot.tmpRetval = nil
	slot.tmpRetvalSet = false
	slot.tid = 0
	slot.name = name
	slot.log = nil
	return slot, nil
}

// Boot allocates the very first process (userinit/initproc) and marks
// it Runnable directly, bypassing fork. It becomes the reparent target
// for every orphaned descendant.
func (tb *Table) Boot(name string) (*Task, error) {
	t, err := tb.Allocate(name)
	if err != nil {
		return nil, err
	}
	t.addrSpace.AllocPages(0, 1, tb.cfg.PageSize, false)
	t.size = tb.cfg.PageSize

	tb.mu.Lock()
	tb.setState(t, Runnable)
	tb.initProc = t.index
	tb.mu.Unlock()
	return t, nil
}

// SleepTicks blocks t until at least n further global ticks have
// elapsed or t is killed, sleeping on tb.ticksChan (woken on every
// scheduler Tick) and rechecking the deadline, a "sleep on &ticks,
// recheck on wakeup" loop that polls ticks rather than waiting on an
// absolute timer. Caller must not hold tb.mu.
func (tb *Table) SleepTicks(t *Task, n int) error {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	deadline := tb.globalTicks + n
	for tb.globalTicks < deadline {
		if t.killed {
			return kernerr.Killed
		}
		tb.sleepLocked(t, tb.ticksChan)
	}
	return nil
}

// ParentPid returns the pid of t's parent, resolved through the master
// if t is a slave: parent bookkeeping lives only on the master slot.
func (tb *Table) ParentPid(t *Task) int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	master := t
	if t.master != noSlot {
		master = &tb.tasks[t.master]
	}
	if master.parent == noSlot {
		return -1
	}
	return tb.tasks[master.parent].pid
}

// Grow adjusts the address-space size by n bytes, returning the prior
// size or NoMemory if n is negative and would shrink below zero (sbrk's
// growproc-style bookkeeping). The original's growproc always resizes
// the *master's* sz even when called from a slave thread
// (original_source/xv6-public/proc.c:189-190): a slave's own size is
// only a mirror, so a slave caller's growth is applied to its master's
// authoritative size, and the slave's mirror is updated to match
// afterward.
func (tb *Table) Grow(t *Task, n int) (uint64, error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	master := t
	if t.master != noSlot {
		master = &tb.tasks[t.master]
	}

	old := master.size
	if n >= 0 {
		master.addrSpace.AllocPages(old, (n+int(tb.cfg.PageSize)-1)/int(tb.cfg.PageSize), tb.cfg.PageSize, false)
		master.size += uint64(n)
	} else {
		shrink := uint64(-n)
		if shrink > old {
			return 0, kernerr.NoMemory
		}
		newSize := old - shrink
		master.addrSpace.FreePages(newSize, int(shrink/tb.cfg.PageSize), tb.cfg.PageSize)
		master.size = newSize
	}
	t.size = master.size
	return old, nil
}

// Fork clones curr's address space and file table into a new task. If
// curr is a slave thread, the clone is sized to the master's
// authoritative size, so the child's address space includes all of
// curr's thread group's stacks.
func (tb *Table) Fork(curr *Task) (int, error) {
	child, err := tb.Allocate(curr.name)
	if err != nil {
		return -1, err
	}

	tb.mu.Lock()
	srcSize := curr.size
	if curr.master != noSlot {
		srcSize = tb.tasks[curr.master].size
	}
	parent := curr.index
	if curr.master != noSlot {
		parent = curr.master
	}
	files := curr.files
	killed := curr.killed
	tb.mu.Unlock()

	child.addrSpace = curr.addrSpace.Clone()
	child.size = srcSize

	tb.mu.Lock()
	child.parent = parent
	child.files = files.dup()
	_ = killed // fork proceeds even if the parent is mid-kill; child is independent.
	tb.setState(child, Runnable)
	pid := child.pid
	tb.mu.Unlock()

	return pid, nil
}

// Sleep puts t to sleep on ch, releasing the table lock while blocked.
// This implementation's single table lock plays the role of both "the
// table lock" and "the caller's own lock" a general sleep primitive
// distinguishes, since no resource in this kernel core has a lock of
// its own — every caller already serializes through the table lock by
// construction. Returns once woken.
func (tb *Table) Sleep(t *Task, ch WaitChannel) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.sleepLocked(t, ch)
}

func (tb *Table) sleepLocked(t *Task, ch WaitChannel) {
	t.chan_ = ch
	t.chanValid = true
	tb.setState(t, Sleeping)
	for t.state == Sleeping {
		tb.cond.Wait()
	}
	t.chanValid = false
}

// Wakeup marks every task sleeping on ch Runnable. Every eligible
// sleeper is marked before this returns, and before any newly-Runnable
// task can next be observed by a scheduler pass, since both are
// serialized by the same lock.
func (tb *Table) Wakeup(ch WaitChannel) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.wakeupLocked(ch)
}

func (tb *Table) wakeupLocked(ch WaitChannel) {
	for i := range tb.tasks {
		s := &tb.tasks[i]
		if s.state == Sleeping && s.chanValid && s.chan_ == ch {
			tb.setState(s, Runnable)
		}
	}
	tb.cond.Broadcast()
}

// Kill sets pid's master killed flag, promoting it to Runnable if it
// was Sleeping. The actual exit happens when the task reaches a kill
// check; Kill itself never blocks.
func (tb *Table) Kill(pid int) error {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	m := tb.taskByPidMasterLocked(pid)
	if m == nil {
		return kernerr.NoSuchTask
	}
	m.killed = true
	if m.state == Sleeping {
		tb.setState(m, Runnable)
	}
	tb.cond.Broadcast()
	return nil
}

// Yield gives up the remainder of t's quantum: t must already be Running
// for this to have any effect, after which it becomes Runnable again.
func (tb *Table) Yield(t *Task) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if t.state == Running {
		tb.setState(t, Runnable)
	}
}

// Wait reaps a Zombie master-level child of t, or returns NoSuchChild if
// t has no children or is killed while waiting. Thread descendants are
// reaped via ThreadJoin, not Wait.
func (tb *Table) Wait(t *Task) (int, error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	for {
		haveKids := false
		for i := range tb.tasks {
			c := &tb.tasks[i]
			if c.state == Unused || c.tid != 0 || c.parent != t.index {
				continue
			}
			haveKids = true
			if c.state == Zombie {
				pid := c.pid
				tb.reclaimLocked(c)
				return pid, nil
			}
		}
		if !haveKids || t.killed {
			return -1, kernerr.NoSuchChild
		}
		tb.sleepLocked(t, selfChan(t))
	}
}

func (tb *Table) reclaimLocked(c *Task) {
	c.kstack = nil
	c.addrSpace = nil
	c.pid = 0
	c.parent = noSlot
	c.master = noSlot
	c.name = ""
	c.killed = false
	c.exitStatus = 0
	c.tid = 0
	c.size = 0
	c.vabase = 0
	c.blankRegions = nil
	c.files = nil
	c.tmpRetval = nil
	c.tmpRetvalSet = false
	c.log = nil
	tb.setState(c, Unused)
}

// Exit runs the master exit sequence: wait out every slave thread,
// close resources, wake the parent, reparent descendants to initproc,
// subtract the exiting task's cpu share, and become Zombie. Exit blocks
// until every slave has been collected; it must be called only on a
// master (use ThreadExit for a slave).
func (tb *Table) Exit(t *Task, status int) {
	if !t.IsMaster() {
		panic("kernel: Exit called on a slave thread; use ThreadExit")
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	// Step 1: kill and wait out every slave, cleaning up any that are
	// already Zombie as we go. This loop is a fixed point: it relies on
	// a woken, killed slave reaching ThreadExit promptly.
	for {
		pending := 0
		for i := range tb.tasks {
			s := &tb.tasks[i]
			if s.state == Unused || s.master != t.index {
				continue
			}
			if s.state == Zombie {
				tb.cleanupThreadLocked(s)
				continue
			}
			pending++
			s.killed = true
			tb.wakeupLocked(selfChan(s))
		}
		if pending == 0 {
			break
		}
		tb.sleepLocked(t, selfChan(t))
	}

	// Step 2: close resources.
	t.files.close()

	// Step 3: wake the parent, which may be in wait().
	if t.parent != noSlot {
		tb.wakeupLocked(selfChan(&tb.tasks[t.parent]))
	}

	// Step 4: reparent children (and thread descendants whose parent
	// pointer names this master) to initproc.
	for i := range tb.tasks {
		c := &tb.tasks[i]
		if c.state == Unused || c.parent != t.index {
			continue
		}
		c.parent = tb.initProc
		if c.state == Zombie && tb.initProc != noSlot {
			tb.wakeupLocked(selfChan(&tb.tasks[tb.initProc]))
		}
	}

	// Step 5: give back the exiting task's admitted cpu share.
	if t.schedMode == Stride {
		tb.totalCPU -= t.stride.cpuShare
		tb.mlfqPseudo.cpuShare = 100 - tb.totalCPU
	}
	tb.cgroups.Release(t.pid)

	// Step 6: zombie forever.
	t.exitStatus = status
	tb.setState(t, Zombie)
	tb.cond.Broadcast()
}
