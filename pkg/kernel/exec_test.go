package kernel

import "testing"

func TestKillExceptParksOtherProcesses(t *testing.T) {
	tb := newTestTable(t)
	survivor, _ := tb.Boot("survivor")
	otherPid, _ := tb.Fork(survivor)
	other := tb.TaskByPid(otherPid)

	tb.KillExcept(survivor.index)

	if other.State() != Parked {
		t.Errorf("other.State() = %v, want Parked", other.State())
	}
	if !other.Killed() {
		t.Errorf("other.Killed() = false, want true")
	}
	if survivor.State() == Parked {
		t.Errorf("survivor.State() = Parked, want unaffected")
	}
	if survivor.Killed() {
		t.Errorf("survivor.Killed() = true, want false")
	}
}

func TestKillExceptSpansThreadGroup(t *testing.T) {
	tb := newTestTable(t)
	survivor, _ := tb.Boot("survivor")
	tid, _ := tb.ThreadCreate(survivor, 0)
	slaveOfSurvivor := tb.TaskByTid(tid)

	otherMaster, _ := tb.Boot("other")
	otherTid, _ := tb.ThreadCreate(otherMaster, 0)
	otherSlave := tb.TaskByTid(otherTid)

	tb.KillExcept(survivor.index)

	if slaveOfSurvivor.State() == Parked {
		t.Errorf("slave of exempted master was parked")
	}
	if otherMaster.State() != Parked {
		t.Errorf("otherMaster.State() = %v, want Parked", otherMaster.State())
	}
	if otherSlave.State() != Parked {
		t.Errorf("otherSlave.State() = %v, want Parked", otherSlave.State())
	}
}

func TestWakeupExceptRestoresAndReparents(t *testing.T) {
	tb := newTestTable(t)
	survivor, _ := tb.Boot("survivor")
	otherPid, _ := tb.Fork(survivor)
	other := tb.TaskByPid(otherPid)
	grandchildPid, _ := tb.Fork(other)
	grandchild := tb.TaskByPid(grandchildPid)

	tb.KillExcept(survivor.index)
	tb.WakeupExcept(survivor.index)

	if other.State() != Runnable {
		t.Errorf("other.State() = %v, want Runnable", other.State())
	}
	if tb.ParentPid(grandchild) != survivor.pid {
		t.Errorf("grandchild reparented to pid %d, want survivor pid %d", tb.ParentPid(grandchild), survivor.pid)
	}
}

func TestParkUnpark(t *testing.T) {
	tb := newTestTable(t)
	task, _ := tb.Boot("init")

	tb.Park(task)
	if task.State() != Parked {
		t.Fatalf("task.State() = %v, want Parked", task.State())
	}

	tb.Unpark(task)
	if task.State() != Runnable {
		t.Errorf("task.State() = %v, want Runnable", task.State())
	}
}
