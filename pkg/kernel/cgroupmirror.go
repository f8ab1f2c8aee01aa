package kernel

import (
	"fmt"
	"sync"

	"github.com/containerd/cgroups"
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// CgroupMirror best-effort mirrors a stride client's admitted cpu share
// onto a real Linux cgroup's cpu.shares, so a process using this kernel
// as its scheduling model can be observed (and rate-limited by the real
// kernel) with the same proportions this simulation computes. This is
// host-level observability supplementing the simulation, modeled on how
// a container runtime mirrors sandbox resource limits onto real cgroups.
//
// Every method tolerates a nil receiver and a cgroups v1 hierarchy that
// is unavailable (not running as root, not on Linux, cgroup v2 only):
// mirroring is inherently best-effort and must never fail an admission
// decision in stride.go.
type CgroupMirror struct {
	mu     sync.Mutex
	groups map[int]cgroups.Cgroup // pid -> cgroup
}

// NewCgroupMirror returns a mirror ready to track admitted stride
// clients by pid.
func NewCgroupMirror() *CgroupMirror {
	return &CgroupMirror{groups: make(map[int]cgroups.Cgroup)}
}

// sharesFor converts a 1-100 admitted percentage into the cpu.shares
// unit cgroups v1 expects (1024 is the kernel's "normal" baseline).
func sharesFor(percent int) uint64 {
	return uint64(percent) * 1024 / 100
}

// Mirror creates or updates the cgroup for pid to reflect percent's
// worth of cpu.shares. Errors are swallowed silently, without logging:
// a host without cgroup support must not break the simulation.
func (m *CgroupMirror) Mirror(pid int, percent int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	shares := sharesFor(percent)
	res := &specs.LinuxResources{
		CPU: &specs.LinuxCPU{Shares: &shares},
	}

	if cg, ok := m.groups[pid]; ok {
		_ = cg.Update(res)
		return
	}

	path := cgroups.StaticPath(fmt.Sprintf("/tinykernel/%d", pid))
	cg, err := cgroups.New(cgroups.V1, path, res)
	if err != nil {
		// No usable cgroup v1 hierarchy on this host; give up quietly,
		// the simulated admission accounting in stride.go still holds.
		return
	}
	m.groups[pid] = cg
}

// Release deletes pid's mirrored cgroup, called from Exit when pid's
// master gives back its cpu share, just before it becomes a Zombie.
func (m *CgroupMirror) Release(pid int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if cg, ok := m.groups[pid]; ok {
		_ = cg.Delete()
		delete(m.groups, pid)
	}
}
