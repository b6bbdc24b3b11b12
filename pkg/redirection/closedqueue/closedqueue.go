// Package closedqueue implements the fixed-capacity closed-handle ring
// buffer described in spec.md §5 and §9. The close-handle interceptor that
// writes into it runs on thread-teardown paths and cannot enter managed
// code or trigger a GC transition (that interceptor itself, along with the
// assembly trampoline that installs it, is explicitly out of scope per
// spec.md §1); this package provides the plain, fixed-layout buffer it
// writes into and the CAS-serialized drain that every other hook entry
// uses to consume it. The layout spec.md §9 specifies is
// `{capacity, currentThread, numItems, items[]}`, which this type mirrors
// directly as its fields.
package closedqueue

import "sync/atomic"

// Queue is a fixed-capacity buffer of closed native handle values.
type Queue struct {
	capacity int
	items    []uintptr

	// numItems is the number of valid entries currently pushed; also
	// serves as the next write index since the queue is append-only
	// between drains.
	numItems int32

	// currentThread serializes Drain across threads via CAS: 0 means no
	// thread is currently draining.
	currentThread uint32
}

// New returns an empty Queue with room for capacity handle values.
func New(capacity int) *Queue {
	return &Queue{capacity: capacity, items: make([]uintptr, capacity)}
}

// Capacity returns the queue's fixed capacity.
func (q *Queue) Capacity() int {
	return q.capacity
}

// Push records a newly closed handle value. It is safe to call
// concurrently from any thread (the close-handle interceptor may run on
// any thread at any time) and never blocks. It returns false if the queue
// is full; a full queue means the draining hooks aren't keeping up, and the
// rejected handle is not recorded anywhere, so no later drain sees it —
// callers on the real interceptor path have no fallback but to drop the
// notification, since they cannot block or allocate.
func (q *Queue) Push(handle uintptr) bool {
	idx := atomic.AddInt32(&q.numItems, 1) - 1
	if int(idx) >= q.capacity {
		atomic.AddInt32(&q.numItems, -1)
		return false
	}
	q.items[idx] = handle
	return true
}

// Drain removes and returns every currently queued handle, serialized so
// only one thread drains at a time. If another thread is already
// draining, Drain returns (nil, false) immediately rather than blocking,
// matching spec.md §5's "operations may NOT suspend" rule.
func (q *Queue) Drain(threadID uint32) ([]uintptr, bool) {
	if !atomic.CompareAndSwapUint32(&q.currentThread, 0, threadID) {
		return nil, false
	}
	defer atomic.StoreUint32(&q.currentThread, 0)

	n := atomic.SwapInt32(&q.numItems, 0)
	if n <= 0 {
		return nil, true
	}
	if int(n) > q.capacity {
		n = int32(q.capacity)
	}

	drained := make([]uintptr, n)
	copy(drained, q.items[:n])
	return drained, true
}
