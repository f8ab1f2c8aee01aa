// Command tinykernel drives the teaching kernel core as a standalone
// daemon plus a set of client subcommands, the same split runsc uses
// between its long-running sandbox process and its control-plane
// subcommands (ps, kill, wait, ...).
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"tinykernel.dev/tinykernel/internal/ktrace"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&Run{}, "")
	subcommands.Register(&Ps{}, "")
	subcommands.Register(&Kill{}, "")
	subcommands.Register(&Share{}, "")
	subcommands.Register(&Wait{}, "")
	subcommands.Register(&Boost{}, "")

	debug := flag.Bool("debug", false, "enable debug-level logging")
	statePath := flag.String("state", "/var/run/tinykernel", "daemon state directory (lock file, snapshot, command inbox)")
	flag.Parse()

	if *debug {
		ktrace.SetLevel(logrus.DebugLevel)
	}

	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx, &globalConfig{statePath: *statePath})))
}

// globalConfig is threaded through every subcommand's Execute as the
// single args[0] value, mirroring runsc's *config.Config plumbing.
type globalConfig struct {
	statePath string
}
