package kernel

import (
	"context"

	"github.com/sirupsen/logrus"

	"tinykernel.dev/tinykernel/internal/kconfig"
	"tinykernel.dev/tinykernel/internal/ktrace"
)

// Kernel is the top-level handle a caller boots and drives: a task
// table, a tick source, and the NCPU scheduler loops reading from it
// ("a hybrid MLFQ/stride scheduler... an LWP thread model...
// sleep/wakeup/kill"). cmd/tinykernel wraps this in a CLI; tests drive
// it directly.
type Kernel struct {
	Table *Table
	clock *Clock
	cfg   kconfig.Config
}

// New constructs a Kernel from cfg but does not start its CPU loops or
// boot an init process; call Boot and then Run.
func New(cfg kconfig.Config) *Kernel {
	return &Kernel{
		Table: NewTable(cfg),
		clock: NewClock(float64(ticksPerSecond)),
		cfg:   cfg,
	}
}

// ticksPerSecond is the simulated clock's cadence. A teaching kernel's
// clock rate is a presentation choice, not a scheduling-correctness one,
// so it is a constant rather than threaded through Config.
const ticksPerSecond = 1000

// Boot allocates and starts the first process (userinit), the ancestor
// every orphan is reparented to.
func (k *Kernel) Boot(name string) (*Task, error) {
	ktrace.Base().Infof("booting %s", name)
	return k.Table.Boot(name)
}

// Run drives the kernel's CPU loops until ctx is canceled. It blocks;
// callers typically run it in its own goroutine or as the last call in
// a cmd/tinykernel subcommand.
func (k *Kernel) Run(ctx context.Context) error {
	ktrace.Base().WithFields(logrus.Fields{"ncpu": k.cfg.NCPU}).Info("starting scheduler loops")
	defer k.clock.Stop()
	return RunCPUs(ctx, k.Table, k.clock)
}
