// Package kconfig loads the kernel's boot-time tunables from an optional
// TOML file: a defaulted struct literal overlaid with whatever the file
// sets, field by field, via struct tags. There's no per-invocation
// command line at this layer, so a declarative file stands in for flags
// until cmd/tinykernel wraps it.
package kconfig

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// MLFQLevels is the number of MLFQ priority levels (L0..L2).
const MLFQLevels = 3

// Config holds every boot-time tunable. Zero value is invalid; always
// construct via Default() or Load().
type Config struct {
	// NProc is the fixed capacity of the task table.
	NProc int `toml:"nproc"`

	// NCPU is the number of simulated per-CPU scheduler loops.
	NCPU int `toml:"ncpu"`

	// PageSize in bytes, used to size slave guard+stack pairs.
	PageSize uint64 `toml:"page_size"`

	// BoostFrequency is the MLFQ total-tick count that triggers a
	// priority boost.
	BoostFrequency int `toml:"boost_frequency"`

	// MLFQMinPortion is the CPU percentage the MLFQ pseudo-client is
	// always guaranteed, regardless of how much stride admission requests.
	MLFQMinPortion int `toml:"mlfq_min_portion"`

	// Quantum[level] is the tick allowance of one dispatch at that MLFQ
	// level; Allotment[level] is the cumulative tick budget before a task
	// is demoted out of it. An allotment of 0 means unbounded (L2).
	Quantum   [MLFQLevels]int `toml:"quantum"`
	Allotment [MLFQLevels]int `toml:"allotment"`
}

// Default returns the stock tuning used when no boot file is given.
func Default() Config {
	return Config{
		NProc:          64,
		NCPU:           4,
		PageSize:       4096,
		BoostFrequency: 100,
		MLFQMinPortion: 20,
		Quantum:        [MLFQLevels]int{1, 2, 4},
		Allotment:      [MLFQLevels]int{5, 10, 0},
	}
}

// Load reads a TOML boot file and overlays it on Default(). A missing
// file is not an error: the defaults stand alone.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("kconfig: decoding %s: %w", path, err)
	}
	return cfg, nil
}
