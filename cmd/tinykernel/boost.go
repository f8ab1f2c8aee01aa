package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// Boost implements subcommands.Command for the "boost" command:
// enqueues an out-of-cycle MLFQ priority boost, useful for
// demonstrating starvation recovery without waiting BoostFrequency
// ticks.
type Boost struct{}

// Name implements subcommands.Command.Name.
func (*Boost) Name() string { return "boost" }

// Synopsis implements subcommands.Command.Synopsis.
func (*Boost) Synopsis() string { return "force an MLFQ priority boost" }

// Usage implements subcommands.Command.Usage.
func (*Boost) Usage() string { return "boost\n" }

// SetFlags implements subcommands.Command.SetFlags.
func (*Boost) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Boost) Execute(_ context.Context, _ *flag.FlagSet, args ...any) subcommands.ExitStatus {
	cfg := args[0].(*globalConfig)
	if err := enqueueCommand(cfg.statePath, command{Op: "boost"}); err != nil {
		fmt.Println("enqueuing boost:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
