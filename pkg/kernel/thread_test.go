package kernel

import (
	"testing"

	"tinykernel.dev/tinykernel/internal/kernerr"
)

func TestThreadCreateSharesAddressSpace(t *testing.T) {
	tb := newTestTable(t)
	master, _ := tb.Boot("init")

	tid, err := tb.ThreadCreate(master, 0x1000)
	if err != nil {
		t.Fatalf("ThreadCreate: %v", err)
	}
	slave := tb.TaskByTid(tid)
	if slave == nil {
		t.Fatalf("TaskByTid(%d) = nil", tid)
	}
	if slave.addrSpace != master.addrSpace {
		t.Errorf("slave.addrSpace != master.addrSpace")
	}
	if slave.master != master.index {
		t.Errorf("slave.master = %d, want %d", slave.master, master.index)
	}
	if slave.pid != master.pid {
		t.Errorf("slave.pid = %d, want master.pid = %d", slave.pid, master.pid)
	}
}

func TestThreadCreateInheritsStrideModeAndResetsPasses(t *testing.T) {
	tb := newTestTable(t)
	master, _ := tb.Boot("init")
	if err := tb.SetCPUShare(master, 50); err != nil {
		t.Fatalf("SetCPUShare: %v", err)
	}

	tb.mu.Lock()
	tb.setStridePass(master, 3.5)
	tb.mu.Unlock()

	tid, err := tb.ThreadCreate(master, 0)
	if err != nil {
		t.Fatalf("ThreadCreate: %v", err)
	}
	slave := tb.TaskByTid(tid)

	if slave.SchedMode() != Stride {
		t.Errorf("slave.SchedMode() = %v, want Stride", slave.SchedMode())
	}
	if slave.CPUShare() != 50 {
		t.Errorf("slave.CPUShare() = %d, want 50 (inherited from master)", slave.CPUShare())
	}
	if master.stride.pass != 0 {
		t.Errorf("master.stride.pass = %v, want 0 after sibling thread_create", master.stride.pass)
	}
	if slave.stride.pass != 0 {
		t.Errorf("slave.stride.pass = %v, want 0", slave.stride.pass)
	}
}

func TestThreadCreateBySlaveIsNotMaster(t *testing.T) {
	tb := newTestTable(t)
	master, _ := tb.Boot("init")
	tid, _ := tb.ThreadCreate(master, 0)
	slave := tb.TaskByTid(tid)

	if _, err := tb.ThreadCreate(slave, 0); err != kernerr.NotMaster {
		t.Errorf("ThreadCreate(slave, ...) err = %v, want NotMaster", err)
	}
}

func TestThreadJoinReturnsRetvalAndRecyclesStack(t *testing.T) {
	tb := newTestTable(t)
	master, _ := tb.Boot("init")
	tid, _ := tb.ThreadCreate(master, 0)
	slave := tb.TaskByTid(tid)
	vabase := slave.vabase

	done := make(chan struct{})
	go func() {
		tb.ThreadExit(slave, 42)
		close(done)
	}()
	<-done

	retval, err := tb.ThreadJoin(master, tid)
	if err != nil {
		t.Fatalf("ThreadJoin: %v", err)
	}
	if retval != 42 {
		t.Errorf("ThreadJoin() retval = %v, want 42", retval)
	}

	if n := len(master.blankRegions); n != 1 || master.blankRegions[0] != vabase {
		t.Errorf("master.blankRegions = %v, want [%d]", master.blankRegions, vabase)
	}
}

func TestThreadCreateReusesBlankRegion(t *testing.T) {
	tb := newTestTable(t)
	master, _ := tb.Boot("init")

	tid1, _ := tb.ThreadCreate(master, 0)
	s1 := tb.TaskByTid(tid1)
	vabase1 := s1.vabase

	done := make(chan struct{})
	go func() { tb.ThreadExit(s1, 0); close(done) }()
	<-done
	if _, err := tb.ThreadJoin(master, tid1); err != nil {
		t.Fatalf("ThreadJoin: %v", err)
	}

	tid2, _ := tb.ThreadCreate(master, 0)
	s2 := tb.TaskByTid(tid2)
	if s2.vabase != vabase1 {
		t.Errorf("second thread vabase = %d, want reused %d", s2.vabase, vabase1)
	}
}

func TestThreadJoinByNonMasterFails(t *testing.T) {
	tb := newTestTable(t)
	master, _ := tb.Boot("init")
	tid, _ := tb.ThreadCreate(master, 0)
	slave := tb.TaskByTid(tid)

	if _, err := tb.ThreadJoin(slave, tid); err != kernerr.NotMaster {
		t.Errorf("ThreadJoin(slave, ...) err = %v, want NotMaster", err)
	}
}

func TestThreadJoinUnknownTid(t *testing.T) {
	tb := newTestTable(t)
	master, _ := tb.Boot("init")
	if _, err := tb.ThreadJoin(master, 99999); err != kernerr.NoSuchTask {
		t.Errorf("ThreadJoin(unknown) err = %v, want NoSuchTask", err)
	}
}
