package kernel

import (
	"testing"

	"tinykernel.dev/tinykernel/internal/kernerr"
	"tinykernel.dev/tinykernel/internal/kconfig"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	return NewTable(kconfig.Default())
}

func TestBootAssignsInitProc(t *testing.T) {
	tb := newTestTable(t)
	init, err := tb.Boot("init")
	if err != nil {
		t.Fatalf("Boot: %v", err)
	}
	if init.State() != Runnable {
		t.Errorf("init.State() = %v, want Runnable", init.State())
	}
	if tb.initProc != init.index {
		t.Errorf("tb.initProc = %d, want %d", tb.initProc, init.index)
	}
}

func TestGrowByMasterResizesAddrSpace(t *testing.T) {
	tb := newTestTable(t)
	master, _ := tb.Boot("init")
	before := master.Size()

	old, err := tb.Grow(master, 4096)
	if err != nil {
		t.Fatalf("Grow: %v", err)
	}
	if old != before {
		t.Errorf("Grow() old size = %d, want %d", old, before)
	}
	if master.Size() != before+4096 {
		t.Errorf("master.Size() = %d, want %d", master.Size(), before+4096)
	}
}

func TestGrowByShrinkingBelowZeroFails(t *testing.T) {
	tb := newTestTable(t)
	master, _ := tb.Boot("init")

	if _, err := tb.Grow(master, -int(master.Size())-1); err != kernerr.NoMemory {
		t.Errorf("Grow(shrink past zero) err = %v, want NoMemory", err)
	}
}

func TestGrowBySlaveResizesMasterSize(t *testing.T) {
	tb := newTestTable(t)
	master, _ := tb.Boot("init")
	tid, _ := tb.ThreadCreate(master, 0)
	slave := tb.TaskByTid(tid)
	before := master.Size()

	old, err := tb.Grow(slave, 4096)
	if err != nil {
		t.Fatalf("Grow(slave): %v", err)
	}
	if old != before {
		t.Errorf("Grow(slave) old size = %d, want %d", old, before)
	}
	if master.Size() != before+4096 {
		t.Errorf("master.Size() after slave Grow = %d, want %d", master.Size(), before+4096)
	}
	if slave.Size() != master.Size() {
		t.Errorf("slave.Size() = %d, want mirrored master.Size() = %d", slave.Size(), master.Size())
	}
}

func TestForkAssignsChildToParent(t *testing.T) {
	tb := newTestTable(t)
	parent, _ := tb.Boot("init")

	pid, err := tb.Fork(parent)
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}
	child := tb.TaskByPid(pid)
	if child == nil {
		t.Fatalf("TaskByPid(%d) = nil", pid)
	}
	if tb.ParentPid(child) != parent.pid {
		t.Errorf("ParentPid(child) = %d, want %d", tb.ParentPid(child), parent.pid)
	}
	if child.State() != Runnable {
		t.Errorf("child.State() = %v, want Runnable", child.State())
	}
}

func TestForkExhaustsTable(t *testing.T) {
	cfg := kconfig.Default()
	cfg.NProc = 2
	tb := NewTable(cfg)
	parent, _ := tb.Boot("init")

	if _, err := tb.Fork(parent); err != nil {
		t.Fatalf("first Fork: %v", err)
	}
	if _, err := tb.Fork(parent); err != kernerr.NoSlot {
		t.Errorf("second Fork err = %v, want NoSlot", err)
	}
}

func TestWaitReapsZombieChild(t *testing.T) {
	tb := newTestTable(t)
	parent, _ := tb.Boot("init")
	childPid, _ := tb.Fork(parent)
	child := tb.TaskByPid(childPid)

	done := make(chan struct{})
	go func() {
		tb.Exit(child, 7)
		close(done)
	}()
	<-done

	gotPid, err := tb.Wait(parent)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if gotPid != childPid {
		t.Errorf("Wait() pid = %d, want %d", gotPid, childPid)
	}
}

func TestWaitNoChildrenReturnsNoSuchChild(t *testing.T) {
	tb := newTestTable(t)
	parent, _ := tb.Boot("init")
	if _, err := tb.Wait(parent); err != kernerr.NoSuchChild {
		t.Errorf("Wait() err = %v, want NoSuchChild", err)
	}
}

func TestWaitBlocksUntilChildExits(t *testing.T) {
	tb := newTestTable(t)
	parent, _ := tb.Boot("init")
	childPid, _ := tb.Fork(parent)
	child := tb.TaskByPid(childPid)

	result := make(chan int, 1)
	go func() {
		pid, err := tb.Wait(parent)
		if err != nil {
			t.Errorf("Wait: %v", err)
		}
		result <- pid
	}()

	tb.Exit(child, 0)

	pid := <-result
	if pid != childPid {
		t.Errorf("Wait() pid = %d, want %d", pid, childPid)
	}
}

func TestKillWakesSleepingTask(t *testing.T) {
	tb := newTestTable(t)
	parent, _ := tb.Boot("init")
	childPid, _ := tb.Fork(parent)
	child := tb.TaskByPid(childPid)

	asleep := make(chan struct{})
	woke := make(chan struct{})
	go func() {
		tb.mu.Lock()
		tb.setState(child, Sleeping)
		child.chan_ = WaitChannel(12345)
		child.chanValid = true
		close(asleep)
		for child.state == Sleeping {
			tb.cond.Wait()
		}
		tb.mu.Unlock()
		close(woke)
	}()
	<-asleep

	if err := tb.Kill(childPid); err != nil {
		t.Fatalf("Kill: %v", err)
	}
	<-woke

	if !child.Killed() {
		t.Errorf("child.Killed() = false, want true")
	}
	if child.State() != Runnable {
		t.Errorf("child.State() = %v, want Runnable", child.State())
	}
}

func TestKillUnknownPid(t *testing.T) {
	tb := newTestTable(t)
	if err := tb.Kill(999); err != kernerr.NoSuchTask {
		t.Errorf("Kill(999) err = %v, want NoSuchTask", err)
	}
}

func TestReclaimedSlotIsReusable(t *testing.T) {
	tb := newTestTable(t)
	parent, _ := tb.Boot("init")
	childPid, _ := tb.Fork(parent)
	child := tb.TaskByPid(childPid)
	tb.Exit(child, 0)
	if _, err := tb.Wait(parent); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if child.State() != Unused {
		t.Errorf("child.State() after reap = %v, want Unused", child.State())
	}

	// The freed slot should be available to a subsequent fork.
	if _, err := tb.Fork(parent); err != nil {
		t.Errorf("Fork after reap: %v", err)
	}
}
