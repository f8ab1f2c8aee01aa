package kernel

import (
	"sync"

	"github.com/mohae/deepcopy"
)

// AddrSpace is the opaque page-table handle shared by all threads of one
// process: invariant 2 requires every thread of a pid to reference the
// same *AddrSpace. Virtual-memory allocation policy and page-table
// contents are out of scope, so this models the address space as a
// sparse map of page-sized regions — enough to let fork/thread_create/
// Grow exercise real allocate/copy/free calls without pretending to
// implement an MMU.
type AddrSpace struct {
	mu sync.Mutex
	// pages maps a page-aligned base address to its backing bytes.
	// Slave guard pages are present with a nil value (inaccessible);
	// stack pages carry a zeroed byte slice.
	pages map[uint64][]byte
}

// NewAddrSpace returns a fresh, empty address space, as task allocation
// does before userinit/exec populate it.
func NewAddrSpace() *AddrSpace {
	return &AddrSpace{pages: make(map[uint64][]byte)}
}

// AllocPages maps npages page-sized, zeroed regions starting at base. The
// first page, when guard is true, is left unmapped (nil) to model the
// inaccessible guard page beneath a slave's stack.
func (a *AddrSpace) AllocPages(base uint64, npages int, pageSize uint64, guard bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := 0; i < npages; i++ {
		addr := base + uint64(i)*pageSize
		if guard && i == 0 {
			a.pages[addr] = nil
			continue
		}
		a.pages[addr] = make([]byte, pageSize)
	}
}

// FreePages unmaps npages starting at base, the dealloc_uvm half of the
// opaque allocator service.
func (a *AddrSpace) FreePages(base uint64, npages int, pageSize uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := 0; i < npages; i++ {
		delete(a.pages, base+uint64(i)*pageSize)
	}
}

// Clone deep-copies the address space for fork's "full copy-on-write or
// deep copy" step. This takes the deep-copy branch of that disjunction
// literally, using mohae/deepcopy the way a copyuvm-style routine
// deep-copies page contents rather than chasing real copy-on-write
// bookkeeping.
func (a *AddrSpace) Clone() *AddrSpace {
	a.mu.Lock()
	defer a.mu.Unlock()
	cloned := deepcopy.Copy(a.pages)
	pages, ok := cloned.(map[uint64][]byte)
	if !ok {
		// deepcopy.Copy never changes the dynamic type of a map value;
		// this would only trip if that contract breaks.
		pages = make(map[uint64][]byte, len(a.pages))
		for k, v := range a.pages {
			cp := make([]byte, len(v))
			copy(cp, v)
			pages[k] = cp
		}
	}
	return &AddrSpace{pages: pages}
}

// PageCount reports how many pages are currently mapped, used by the
// address-space tests asserting page accounting.
func (a *AddrSpace) PageCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pages)
}
