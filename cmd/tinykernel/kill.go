package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"
)

// Kill implements subcommands.Command for the "kill" command: enqueues
// a kill(pid) request for the running daemon to apply.
type Kill struct{}

// Name implements subcommands.Command.Name.
func (*Kill) Name() string { return "kill" }

// Synopsis implements subcommands.Command.Synopsis.
func (*Kill) Synopsis() string { return "kill a pid known to the running daemon" }

// Usage implements subcommands.Command.Usage.
func (*Kill) Usage() string { return "kill <pid>\n" }

// SetFlags implements subcommands.Command.SetFlags.
func (*Kill) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Kill) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	cfg := args[0].(*globalConfig)
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	pid, err := strconv.Atoi(f.Arg(0))
	if err != nil {
		fmt.Println("invalid pid:", err)
		return subcommands.ExitUsageError
	}
	if err := enqueueCommand(cfg.statePath, command{Op: "kill", Pid: pid}); err != nil {
		fmt.Println("enqueuing kill:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
