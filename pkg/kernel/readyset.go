package kernel

import "github.com/google/btree"

// readySet maintains ordered indices over the Runnable subset of the task
// table so winner selection is an O(log n) tree lookup rather than a
// hand-written O(NPROC) scan re-derived at every dispatch. It must always
// be kept in sync with each task's (state, schedMode, stride.pass,
// mlfq.level, mlfq.priority) by the Table methods that mutate those
// fields; readySet itself never touches Task state.
//
// This is the one place google/btree is used, standing in for the
// "Runnable stride slot with the lowest pass" / "Runnable MLFQ slot with
// the lowest (level,priority)" scans a naive scheduler would re-run from
// scratch on every tick.
type readySet struct {
	stride *btree.BTree
	mlfq   *btree.BTree
}

func newReadySet() *readySet {
	const degree = 8
	return &readySet{
		stride: btree.New(degree),
		mlfq:   btree.New(degree),
	}
}

type strideItem struct {
	pass float64
	slot int32
}

func (a strideItem) Less(than btree.Item) bool {
	b := than.(strideItem)
	if a.pass != b.pass {
		return a.pass < b.pass
	}
	return a.slot < b.slot
}

type mlfqItem struct {
	level    MlfqLevel
	priority int
	slot     int32
}

func (a mlfqItem) Less(than btree.Item) bool {
	b := than.(mlfqItem)
	if a.level != b.level {
		return a.level < b.level
	}
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.slot < b.slot
}

// removeStrideBySlot removes the stride item for slot, keyed by its last
// known pass, if present. Used whenever a key (pass) changes and the entry must be
// re-inserted under its new key, since btree items are immutable once
// inserted.
func (r *readySet) removeStrideBySlot(slot int32, lastKnownPass float64) {
	r.stride.Delete(strideItem{pass: lastKnownPass, slot: slot})
}

func (r *readySet) upsertStride(slot int32, pass float64) {
	r.stride.ReplaceOrInsert(strideItem{pass: pass, slot: slot})
}

func (r *readySet) minStride() (int32, bool) {
	item := r.stride.Min()
	if item == nil {
		return 0, false
	}
	return item.(strideItem).slot, true
}

func (r *readySet) removeMlfqBySlot(slot int32, lastKnownLevel MlfqLevel, lastKnownPriority int) {
	r.mlfq.Delete(mlfqItem{level: lastKnownLevel, priority: lastKnownPriority, slot: slot})
}

func (r *readySet) upsertMlfq(slot int32, level MlfqLevel, priority int) {
	r.mlfq.ReplaceOrInsert(mlfqItem{level: level, priority: priority, slot: slot})
}

func (r *readySet) minMlfq() (int32, bool) {
	item := r.mlfq.Min()
	if item == nil {
		return 0, false
	}
	return item.(mlfqItem).slot, true
}

// forEachMlfqRunnable visits every Runnable MLFQ slot index, used by the
// priority boost, which must touch every one of them.
func (r *readySet) forEachMlfqRunnable(f func(slot int32)) {
	r.mlfq.Ascend(func(item btree.Item) bool {
		f(item.(mlfqItem).slot)
		return true
	})
}
