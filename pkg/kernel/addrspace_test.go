package kernel

import "testing"

func TestAllocPagesGuardPageIsNil(t *testing.T) {
	a := NewAddrSpace()
	a.AllocPages(0, 2, 4096, true)
	if a.pages[0] != nil {
		t.Errorf("guard page at base 0 = %v, want nil", a.pages[0])
	}
	if a.pages[4096] == nil {
		t.Errorf("stack page at base 4096 = nil, want allocated")
	}
	if got := a.PageCount(); got != 2 {
		t.Errorf("PageCount() = %d, want 2", got)
	}
}

func TestFreePagesRemovesMappings(t *testing.T) {
	a := NewAddrSpace()
	a.AllocPages(0, 3, 4096, false)
	a.FreePages(4096, 1, 4096)
	if got := a.PageCount(); got != 2 {
		t.Errorf("PageCount() after free = %d, want 2", got)
	}
	if _, ok := a.pages[4096]; ok {
		t.Errorf("page at 4096 still present after FreePages")
	}
}

func TestCloneIsIndependentCopy(t *testing.T) {
	a := NewAddrSpace()
	a.AllocPages(0, 1, 4096, false)
	a.pages[0][0] = 0xAB

	b := a.Clone()
	b.pages[0][0] = 0xCD

	if a.pages[0][0] != 0xAB {
		t.Errorf("original mutated through clone: got %x, want 0xAB", a.pages[0][0])
	}
	if b.pages[0][0] != 0xCD {
		t.Errorf("clone page = %x, want 0xCD", b.pages[0][0])
	}
}
