package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// Ps implements subcommands.Command for the "ps" command: a point-in-
// time dump of the task table, the teaching-kernel analogue of the
// original source's procdump.
type Ps struct{}

// Name implements subcommands.Command.Name.
func (*Ps) Name() string { return "ps" }

// Synopsis implements subcommands.Command.Synopsis.
func (*Ps) Synopsis() string { return "list tasks known to the running daemon" }

// Usage implements subcommands.Command.Usage.
func (*Ps) Usage() string { return "ps\n" }

// SetFlags implements subcommands.Command.SetFlags.
func (*Ps) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Ps) Execute(_ context.Context, _ *flag.FlagSet, args ...any) subcommands.ExitStatus {
	cfg := args[0].(*globalConfig)
	snap, err := readSnapshot(cfg.statePath)
	if err != nil {
		fmt.Println("no running daemon, or no snapshot yet:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%-6s %-6s %-8s %-6s %-5s %s\n", "PID", "TID", "STATE", "MODE", "LEV", "NAME")
	for _, s := range snap {
		fmt.Printf("%-6d %-6d %-8d %-6d %-5d %s\n", s.Pid, s.Tid, s.State, s.Mode, s.Level, s.Name)
	}
	return subcommands.ExitSuccess
}
