package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"tinykernel.dev/tinykernel/pkg/kernel"
)

// command is one control-plane request dropped into the daemon's
// commands directory by a client subcommand and picked up by
// commandLoop. File-based rather than socket-based: this is a teaching
// kernel, and a plain directory the daemon polls is the simplest
// faithful stand-in for the unix-socket control plane runsc's container
// package maintains over its state directory.
type command struct {
	Op      string `json:"op"`
	Pid     int    `json:"pid,omitempty"`
	Percent int    `json:"percent,omitempty"`
}

func enqueueCommand(statePath string, c command) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	name := filepath.Join(commandsDir(statePath), time.Now().UTC().Format("20060102T150405.000000000")+".json")
	return os.WriteFile(name, b, 0o644)
}

// commandLoop polls the commands directory and applies each file in
// lexical (== chronological, given the timestamped names) order.
func commandLoop(ctx context.Context, tb *kernel.Table, statePath string) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			drainCommands(tb, statePath)
		}
	}
}

func drainCommands(tb *kernel.Table, statePath string) {
	dir := commandsDir(statePath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(dir, name)
		b, err := os.ReadFile(path)
		if err == nil {
			var c command
			if json.Unmarshal(b, &c) == nil {
				applyCommand(tb, c)
			}
		}
		os.Remove(path)
	}
}

func applyCommand(tb *kernel.Table, c command) {
	switch c.Op {
	case "kill":
		_ = tb.Kill(c.Pid)
	case "share":
		if t := findMasterByPid(tb, c.Pid); t != nil {
			_ = tb.SetCPUShare(t, c.Percent)
		}
	case "boost":
		tb.ForcePriorityBoost()
	}
}

func findMasterByPid(tb *kernel.Table, pid int) *kernel.Task {
	for _, s := range tb.Snapshot() {
		if s.Pid == pid && s.Tid == 0 {
			return tb.TaskByPid(pid)
		}
	}
	return nil
}
