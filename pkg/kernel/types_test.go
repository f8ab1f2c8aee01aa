package kernel

import "testing"

func TestProcStateStringCoversAllVariants(t *testing.T) {
	cases := map[ProcState]string{
		Unused: "Unused", Embryo: "Embryo", Sleeping: "Sleeping",
		Runnable: "Runnable", Running: "Running", Zombie: "Zombie", Parked: "Parked",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("ProcState(%d).String() = %q, want %q", state, got, want)
		}
	}
}

func TestProcStateStringOutOfRange(t *testing.T) {
	if got := ProcState(99).String(); got != "ProcState(99)" {
		t.Errorf("ProcState(99).String() = %q, want %q", got, "ProcState(99)")
	}
}

func TestSchedModeString(t *testing.T) {
	if Mlfq.String() != "Mlfq" || Stride.String() != "Stride" {
		t.Errorf("SchedMode strings = (%q,%q), want (Mlfq,Stride)", Mlfq.String(), Stride.String())
	}
}

func TestMlfqLevelOrdering(t *testing.T) {
	if !(L0 < L1 && L1 < L2) {
		t.Errorf("MlfqLevel ordering broken: L0=%d L1=%d L2=%d", L0, L1, L2)
	}
}
