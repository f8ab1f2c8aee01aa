// Package ktrace backs the kernel's Infof/Warningf/Debugf call shape
// with github.com/sirupsen/logrus instead of a hand-rolled logger.
package ktrace

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	once sync.Once
	base *logrus.Logger
)

// Base returns the process-wide logger, configured once on first use.
func Base() *logrus.Logger {
	once.Do(func() {
		base = logrus.New()
		base.SetOutput(os.Stderr)
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	})
	return base
}

// SetLevel adjusts the base logger's verbosity. Exposed so cmd/tinykernel
// can wire a --debug flag straight through.
func SetLevel(level logrus.Level) {
	Base().SetLevel(level)
}

// For returns an entry pre-tagged with the given fields, meant to be held
// for the lifetime of a task or CPU and reused on every log call so every
// line is attributable without repeating itself at each call site.
func For(fields logrus.Fields) *logrus.Entry {
	return Base().WithFields(fields)
}
