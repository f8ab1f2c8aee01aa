package kernel

// KillExcept kills every task in the table that is not a member of the
// exempted process (the one exec'ing, keyed by its master's slot index)
// and coerces it into the Parked state regardless of its prior state, so
// it cannot be picked by the scheduler nor satisfy an ordinary wakeup
// while exec is in flight. This is the targeted abuse spec.md's open
// questions flag the original as performing with Sleeping+chan==0;
// Parked is the distinct state invariant 4 ("Sleeping implies chan!=0")
// is preserved by introducing instead.
//
// This is exec's "kill every other thread group member" primitive, used
// when one process's exec must not disturb its own thread group while
// every other process's threads are swept off the scheduler.
func (tb *Table) KillExcept(exceptMasterIdx int32) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	for i := range tb.tasks {
		t := &tb.tasks[i]
		if t.state == Unused {
			continue
		}
		master := t.index
		if t.master != noSlot {
			master = t.master
		}
		if master == exceptMasterIdx {
			continue
		}
		t.killed = true
		tb.setState(t, Parked)
	}
	tb.cond.Broadcast()
}

// WakeupExcept undoes KillExcept's sweep: every Parked task not belonging
// to the exempted process is restored to Runnable (so it can reach its
// own kill check and exit promptly), and any live child of such a task is
// reparented to the exempted process's master so that process can wait()
// them as part of collecting its former siblings.
func (tb *Table) WakeupExcept(exceptMasterIdx int32) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	var woken []int32
	for i := range tb.tasks {
		t := &tb.tasks[i]
		if t.state != Parked {
			continue
		}
		master := t.index
		if t.master != noSlot {
			master = t.master
		}
		if master == exceptMasterIdx {
			continue
		}
		tb.setState(t, Runnable)
		woken = append(woken, t.index)
	}
	for i := range tb.tasks {
		c := &tb.tasks[i]
		if c.state == Unused {
			continue
		}
		for _, idx := range woken {
			if c.parent == idx {
				c.parent = exceptMasterIdx
				if c.state == Zombie {
					tb.wakeupLocked(selfChan(&tb.tasks[exceptMasterIdx]))
				}
				break
			}
		}
	}
	tb.cond.Broadcast()
}

// Park moves t aside into the Parked state, exempting it from any
// concurrent ordinary wakeup/scheduling pass; Unpark restores it to
// Runnable. A caller implementing a narrower exemption than
// KillExcept/WakeupExcept's whole-process scope (parking a single task
// directly) uses these.
func (tb *Table) Park(t *Task) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.setState(t, Parked)
}

// Unpark restores a Parked task to Runnable.
func (tb *Table) Unpark(t *Task) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if t.state == Parked {
		tb.setState(t, Runnable)
	}
}
