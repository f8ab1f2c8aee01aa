package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/cenkalti/backoff"
	"github.com/google/subcommands"

	"tinykernel.dev/tinykernel/pkg/kernel"
)

// Wait implements subcommands.Command for the "wait" command: polls the
// daemon's snapshot file until pid becomes a Zombie (or disappears,
// already reaped), the client-side analogue of wait()/thread_join
// since this CLI has no blocking RPC to the daemon. Polling uses an
// exponential backoff rather than a fixed-interval sleep loop, so a
// long-lived process isn't hammered every tick once the first few
// checks come back empty.
type Wait struct{}

// Name implements subcommands.Command.Name.
func (*Wait) Name() string { return "wait" }

// Synopsis implements subcommands.Command.Synopsis.
func (*Wait) Synopsis() string { return "wait for a pid to become a zombie" }

// Usage implements subcommands.Command.Usage.
func (*Wait) Usage() string { return "wait <pid>\n" }

// SetFlags implements subcommands.Command.SetFlags.
func (*Wait) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Wait) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
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

	b := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)

	var found *kernel.Snapshot
	op := func() error {
		snap, err := readSnapshot(cfg.statePath)
		if err != nil {
			return err
		}
		for i := range snap {
			if snap[i].Pid == pid && snap[i].Tid == 0 {
				if snap[i].State != kernel.Zombie {
					return fmt.Errorf("pid %d still running", pid)
				}
				found = &snap[i]
				return nil
			}
		}
		// Not present at all: already reaped by its parent.
		return nil
	}

	if err := backoff.Retry(op, b); err != nil {
		fmt.Println("waiting:", err)
		return subcommands.ExitFailure
	}
	if found == nil {
		fmt.Printf("pid %d already reaped\n", pid)
		return subcommands.ExitSuccess
	}
	fmt.Printf("pid %d exited\n", pid)
	return subcommands.ExitSuccess
}
