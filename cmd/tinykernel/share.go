package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"
)

// Share implements subcommands.Command for the "share" command:
// enqueues a set_cpu_share(pct) admission request against pid's master.
type Share struct{}

// Name implements subcommands.Command.Name.
func (*Share) Name() string { return "share" }

// Synopsis implements subcommands.Command.Synopsis.
func (*Share) Synopsis() string { return "admit a pid into stride scheduling at a cpu percentage" }

// Usage implements subcommands.Command.Usage.
func (*Share) Usage() string { return "share <pid> <percent>\n" }

// SetFlags implements subcommands.Command.SetFlags.
func (*Share) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Share) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	cfg := args[0].(*globalConfig)
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	pid, err := strconv.Atoi(f.Arg(0))
	if err != nil {
		fmt.Println("invalid pid:", err)
		return subcommands.ExitUsageError
	}
	pct, err := strconv.Atoi(f.Arg(1))
	if err != nil {
		fmt.Println("invalid percent:", err)
		return subcommands.ExitUsageError
	}
	if err := enqueueCommand(cfg.statePath, command{Op: "share", Pid: pid, Percent: pct}); err != nil {
		fmt.Println("enqueuing share:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
