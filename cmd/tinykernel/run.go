package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/google/subcommands"
	specs "github.com/opencontainers/runtime-spec/specs-go"

	"tinykernel.dev/tinykernel/internal/ktrace"
)

// Run implements subcommands.Command for the "run" command: boots and
// drives the kernel daemon, taking its init process's identity from an
// OCI-process-shaped JSON file, the same specs.Process fragment runsc's
// "do" and "spec" subcommands build up for a container's entry process
// (trimmed here to the one field this kernel's init process actually
// has: its debug name, read from Args[0]).
type Run struct {
	procSpecPath string
}

// Name implements subcommands.Command.Name.
func (*Run) Name() string { return "run" }

// Synopsis implements subcommands.Command.Synopsis.
func (*Run) Synopsis() string { return "boot and run the kernel daemon" }

// Usage implements subcommands.Command.Usage.
func (*Run) Usage() string { return "run [-process spec.json]\n" }

// SetFlags implements subcommands.Command.SetFlags.
func (r *Run) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.procSpecPath, "process", "", "path to an OCI process.json naming the init process")
}

// Execute implements subcommands.Command.Execute.
func (r *Run) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	cfg := args[0].(*globalConfig)

	initName := "init"
	if r.procSpecPath != "" {
		proc, err := loadProcessSpec(r.procSpecPath)
		if err != nil {
			ktrace.Base().Errorf("loading process spec: %v", err)
			return subcommands.ExitFailure
		}
		if len(proc.Args) > 0 {
			initName = proc.Args[0]
		}
	}

	if err := runDaemon(ctx, cfg.statePath, initName); err != nil {
		ktrace.Base().Errorf("daemon exited: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func loadProcessSpec(path string) (*specs.Process, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var proc specs.Process
	if err := json.Unmarshal(b, &proc); err != nil {
		return nil, err
	}
	return &proc, nil
}
