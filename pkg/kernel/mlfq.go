package kernel

// advanceMlfq accounts for one dispatch tick spent running t, applying
// the quantum/allotment demotion rule: within-level priority advances
// each time a full quantum is consumed, and once the level's allotment
// of ticks is exhausted the task demotes a level (L2 has no allotment —
// it never demotes further). Caller must hold tb.mu.
func (tb *Table) advanceMlfq(t *Task, ticksRun int) {
	t.mlfq.ticks += ticksRun
	tb.mlfqPseudo.totalTick += ticksRun

	level := t.mlfq.level
	allotment := tb.cfg.Allotment[level]
	quantum := tb.cfg.Quantum[level]
	priority := t.mlfq.priority

	demoted := false
	if allotment > 0 && t.mlfq.ticks >= allotment {
		t.mlfq.ticks = 0
		if level < L2 {
			level++
			priority = 0
		}
		demoted = true
	}
	if !demoted && quantum > 0 && t.mlfq.ticks%quantum == 0 {
		tb.mlfqPseudo.hpriority++
		priority = tb.mlfqPseudo.hpriority
	}
	tb.setMlfqKey(t, level, priority)

	if tb.mlfqPseudo.totalTick >= tb.cfg.BoostFrequency {
		tb.priorityBoostLocked()
	}
}

// priorityBoostLocked resets every runnable MLFQ task to L0 with zero
// ticks consumed, the starvation countermeasure applied every
// BoostFrequency total ticks. Caller must hold tb.mu.
func (tb *Table) priorityBoostLocked() {
	var slots []int32
	tb.ready.forEachMlfqRunnable(func(slot int32) { slots = append(slots, slot) })
	for _, slot := range slots {
		t := &tb.tasks[slot]
		t.mlfq.ticks = 0
		tb.setMlfqKey(t, L0, 0)
	}
	for i := range tb.tasks {
		t := &tb.tasks[i]
		if t.state == Unused || t.state == Zombie || t.schedMode != Mlfq {
			continue
		}
		if t.state == Runnable {
			continue // already reset above via the ready-set walk.
		}
		t.mlfq.level = L0
		t.mlfq.priority = 0
		t.mlfq.ticks = 0
	}
	tb.mlfqPseudo.hpriority = 0
	tb.mlfqPseudo.totalTick = 0
}

// advanceMlfqPseudo charges the MLFQ pool one ticket's worth of virtual
// stride time, mirroring advanceStride but for the pseudo-client: the
// MLFQ pool participates in the top-level stride race as a single
// client. Caller must hold tb.mu.
func (tb *Table) advanceMlfqPseudo() {
	share := tb.mlfqPseudo.cpuShare
	if share <= 0 {
		share = 1
	}
	tb.mlfqPseudo.pass += 100.0 / float64(share)
}
