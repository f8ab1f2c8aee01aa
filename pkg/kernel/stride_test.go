package kernel

import (
	"math"
	"testing"

	"tinykernel.dev/tinykernel/internal/kernerr"
)

func TestSetCPUShareAdmitsWithinBudget(t *testing.T) {
	tb := newTestTable(t)
	master, _ := tb.Boot("init")

	if err := tb.SetCPUShare(master, 50); err != nil {
		t.Fatalf("SetCPUShare(50): %v", err)
	}
	if master.SchedMode() != Stride {
		t.Errorf("master.SchedMode() = %v, want Stride", master.SchedMode())
	}
	if master.CPUShare() != 50 {
		t.Errorf("master.CPUShare() = %d, want 50", master.CPUShare())
	}
	if tb.totalCPU != 50 {
		t.Errorf("tb.totalCPU = %d, want 50", tb.totalCPU)
	}
	if tb.mlfqPseudo.cpuShare != 50 {
		t.Errorf("tb.mlfqPseudo.cpuShare = %d, want 50", tb.mlfqPseudo.cpuShare)
	}
}

func TestSetCPUShareDeniedOverBudget(t *testing.T) {
	tb := newTestTable(t)
	master, _ := tb.Boot("init")
	childPid, _ := tb.Fork(master)
	child := tb.TaskByPid(childPid)

	if err := tb.SetCPUShare(master, 70); err != nil {
		t.Fatalf("SetCPUShare(master, 70): %v", err)
	}
	// Budget is 100 - MLFQMinPortion(20) = 80; 70 already admitted, 20 more
	// would exceed it.
	if err := tb.SetCPUShare(child, 20); err != kernerr.AdmissionDenied {
		t.Errorf("SetCPUShare(child, 20) err = %v, want AdmissionDenied", err)
	}
	if err := tb.SetCPUShare(child, 10); err != nil {
		t.Errorf("SetCPUShare(child, 10): %v", err)
	}
}

func TestSetCPUShareRevisionNeverSpuriouslyFails(t *testing.T) {
	tb := newTestTable(t)
	master, _ := tb.Boot("init")
	if err := tb.SetCPUShare(master, 80); err != nil {
		t.Fatalf("first SetCPUShare: %v", err)
	}
	if err := tb.SetCPUShare(master, 10); err != nil {
		t.Errorf("lowering own share failed: %v", err)
	}
}

func TestStrideTicketHalvesAcrossTwoThreads(t *testing.T) {
	solo := strideTicket(50, 1)
	shared := strideTicket(50, 2)
	if math.Abs(shared-solo/2) > 1e-9 {
		t.Errorf("strideTicket(50,2) = %v, want half of strideTicket(50,1) = %v", shared, solo)
	}
}

func TestAdvanceStrideFairnessRatio(t *testing.T) {
	tb := newTestTable(t)
	a, _ := tb.Boot("a")
	bPid, _ := tb.Fork(a)
	b := tb.TaskByPid(bPid)

	if err := tb.SetCPUShare(a, 60); err != nil {
		t.Fatalf("SetCPUShare(a): %v", err)
	}
	if err := tb.SetCPUShare(b, 20); err != nil {
		t.Fatalf("SetCPUShare(b): %v", err)
	}

	const rounds = 100
	for i := 0; i < rounds; i++ {
		tb.mu.Lock()
		tb.advanceStride(a)
		tb.advanceStride(b)
		tb.mu.Unlock()
	}

	// Equal rounds of dispatch should have advanced each pass by
	// rounds*ticket; the ratio of accumulated pass should track the
	// inverse ratio of cpu_share (a's share is 3x b's, so a's ticket is
	// 1/3rd of b's, and a's total accumulated pass should be about a
	// third of b's).
	ratio := a.stride.pass / b.stride.pass
	want := 20.0 / 60.0
	if math.Abs(ratio-want) > 0.05 {
		t.Errorf("pass ratio = %v, want approximately %v", ratio, want)
	}
}
