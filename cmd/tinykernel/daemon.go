package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"tinykernel.dev/tinykernel/internal/kconfig"
	"tinykernel.dev/tinykernel/internal/ktrace"
	"tinykernel.dev/tinykernel/pkg/kernel"
)

// daemonState is what runDaemon exposes to the other subcommands once
// running: a single locked instance, a control-command inbox directory,
// and a snapshot file the read-only subcommands (ps, wait) poll.
type daemonState struct {
	lock *flock.Flock
	dir  string
}

func lockPath(statePath string) string     { return filepath.Join(statePath, "tinykernel.lock") }
func snapshotPath(statePath string) string { return filepath.Join(statePath, "snapshot.json") }
func commandsDir(statePath string) string  { return filepath.Join(statePath, "commands") }

// acquireSingleton takes an exclusive, non-blocking flock on the state
// directory's lock file, so two daemons never race over the same task
// table, the same discipline runsc's sandbox process uses over its own
// state directory.
func acquireSingleton(statePath string) (*flock.Flock, error) {
	if err := os.MkdirAll(statePath, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}
	if err := os.MkdirAll(commandsDir(statePath), 0o755); err != nil {
		return nil, fmt.Errorf("creating commands dir: %w", err)
	}
	lk := flock.New(lockPath(statePath))
	ok, err := lk.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", lockPath(statePath), err)
	}
	if !ok {
		return nil, fmt.Errorf("another tinykernel daemon already holds %s", lockPath(statePath))
	}
	return lk, nil
}

// runDaemon boots a Kernel and drives it until ctx is canceled: the
// scheduler's own CPU loops, a snapshot writer other subcommands poll,
// a command-inbox poller applying kill/share/boost requests, and a
// SIGALRM handler that forces one extra dispatch tick on demand — a
// debugging aid for stepping the simulation deterministically from
// outside the process, the signal-driven tick source other platform
// loops in this codebase's lineage use for their own external event
// sources.
func runDaemon(ctx context.Context, statePath string, initName string) error {
	lk, err := acquireSingleton(statePath)
	if err != nil {
		return err
	}
	defer lk.Unlock()

	cfg := kconfig.Default()
	k := kernel.New(cfg)
	if _, err := k.Boot(initName); err != nil {
		return fmt.Errorf("booting init process: %w", err)
	}

	alarm := make(chan os.Signal, 1)
	signal.Notify(alarm, unix.SIGALRM)
	defer signal.Stop(alarm)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return k.Run(ctx) })
	g.Go(func() error { return snapshotLoop(ctx, k.Table, statePath) })
	g.Go(func() error { return commandLoop(ctx, k.Table, statePath) })
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-alarm:
				k.Table.Tick()
			}
		}
	})

	ktrace.Base().WithFields(logrus.Fields{"state": statePath}).Info("tinykernel daemon running")
	return g.Wait()
}

func snapshotLoop(ctx context.Context, tb *kernel.Table, statePath string) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			writeSnapshot(tb, statePath)
		}
	}
}

func writeSnapshot(tb *kernel.Table, statePath string) {
	snap := tb.Snapshot()
	f, err := os.CreateTemp(statePath, "snapshot-*.json")
	if err != nil {
		return
	}
	enc := json.NewEncoder(f)
	err = enc.Encode(snap)
	f.Close()
	if err != nil {
		os.Remove(f.Name())
		return
	}
	os.Rename(f.Name(), snapshotPath(statePath))
}

func readSnapshot(statePath string) ([]kernel.Snapshot, error) {
	b, err := os.ReadFile(snapshotPath(statePath))
	if err != nil {
		return nil, err
	}
	var snap []kernel.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, err
	}
	return snap, nil
}
