//go:build tools

// Package tools pins dev-time code generators in go.mod without pulling
// them into the build. pkg/kernel/state_string.go is checked in as the
// exact output `stringer` would produce for ProcState/SchedMode/MlfqLevel;
// this file is what makes `go run golang.org/x/tools/cmd/stringer`
// reproducible from a clean checkout when the toolchain is available to
// run it (it is not, in this environment).
package tools

import (
	_ "golang.org/x/tools/cmd/stringer"
)
