package kernel

import "reflect"

// ptrOf returns the address a pointer refers to as a uintptr, giving
// ChanOf a stable identity to key a wait channel on without requiring
// unsafe at call sites. p must be a non-nil pointer; callers pass the
// address of some object they own (&task, &someField).
func ptrOf(p any) uintptr {
	v := reflect.ValueOf(p)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		panic("kernel: ChanOf requires a non-nil pointer")
	}
	return v.Pointer()
}
