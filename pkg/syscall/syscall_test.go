package syscall

import (
	"testing"

	"tinykernel.dev/tinykernel/internal/kconfig"
	"tinykernel.dev/tinykernel/internal/kernerr"
	"tinykernel.dev/tinykernel/pkg/kernel"
)

func newTestKernel(t *testing.T) (*kernel.Table, *kernel.Task) {
	t.Helper()
	tb := kernel.NewTable(kconfig.Default())
	init, err := tb.Boot("init")
	if err != nil {
		t.Fatalf("Boot: %v", err)
	}
	return tb, init
}

func TestGetpidGetppidGettid(t *testing.T) {
	tb, init := newTestKernel(t)

	if ret, err := Getpid(tb, init, nil); err != nil || int(ret) != init.Pid() {
		t.Errorf("Getpid() = (%d, %v), want (%d, nil)", ret, err, init.Pid())
	}
	if ret, err := Gettid(tb, init, nil); err != nil || ret != 0 {
		t.Errorf("Gettid() on master = (%d, %v), want (0, nil)", ret, err)
	}
	childPid, _ := tb.Fork(init)
	child := tb.TaskByPid(childPid)
	if ret, err := Getppid(tb, child, nil); err != nil || int(ret) != init.Pid() {
		t.Errorf("Getppid() on child = (%d, %v), want (%d, nil)", ret, err, init.Pid())
	}
}

func TestForkThenWait(t *testing.T) {
	tb, init := newTestKernel(t)

	ret, err := Fork(tb, init, nil)
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}
	childPid := int(ret)
	child := tb.TaskByPid(childPid)
	if child == nil {
		t.Fatalf("no task with pid %d after fork", childPid)
	}

	done := make(chan struct{})
	go func() {
		Exit(tb, child, Arguments{IntArg(3)})
		close(done)
	}()
	<-done

	ret, err = Wait(tb, init, nil)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if int(ret) != childPid {
		t.Errorf("Wait() = %d, want %d", ret, childPid)
	}
}

func TestKillUnknownPidReturnsBadRet(t *testing.T) {
	tb, init := newTestKernel(t)
	ret, err := Kill(tb, init, Arguments{IntArg(99999)})
	if err != kernerr.NoSuchTask {
		t.Errorf("Kill(unknown) err = %v, want NoSuchTask", err)
	}
	if ret != badRet {
		t.Errorf("Kill(unknown) ret = %d, want badRet", ret)
	}
}

func TestIntArgOutOfRangeIsBadArg(t *testing.T) {
	var args Arguments
	if _, err := args.Int(0); err != kernerr.BadArg {
		t.Errorf("Int(0) on empty Arguments err = %v, want BadArg", err)
	}
}

func TestSetCPUShareBySlaveIsBadArg(t *testing.T) {
	tb, init := newTestKernel(t)
	tid, err := tb.ThreadCreate(init, 0)
	if err != nil {
		t.Fatalf("ThreadCreate: %v", err)
	}
	slave := tb.TaskByTid(tid)

	if _, err := SetCPUShare(tb, slave, Arguments{IntArg(10)}); err != kernerr.BadArg {
		t.Errorf("SetCPUShare(slave) err = %v, want BadArg", err)
	}
}

func TestInvokeUnknownSyscallIsBadArg(t *testing.T) {
	tb, init := newTestKernel(t)
	if _, err := Invoke(tb, init, "no_such_call", nil); err != kernerr.BadArg {
		t.Errorf("Invoke(unknown) err = %v, want BadArg", err)
	}
}
