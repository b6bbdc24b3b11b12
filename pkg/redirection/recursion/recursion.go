// Package recursion implements the per-thread, per-syscall-family
// recursion guards described in spec.md §5 and §9: since some NT calls
// layer on others, a hooked syscall can re-enter itself on the same
// thread, and that nested entry must bypass redirection rather than
// redirect twice or deadlock. The guard stores the owning native thread id
// in an atomic word (no thread-locals, matching spec.md §9's "obtain the
// native thread id ... store it in an atomic word with a sentinel for
// unlocked; acquire via CAS, release via plain store").
package recursion

import "sync/atomic"

// unlocked is the sentinel stored when no thread holds the guard. Native
// Windows thread ids are always nonzero, so 0 is safe to use here.
const unlocked = 0

// Guard is a single per-syscall-family recursion latch.
type Guard struct {
	owner uint32
}

// TryEnter attempts to acquire the guard for threadID. It succeeds
// (returns true) if the guard was unlocked, in which case the caller now
// owns it and must call Release when done. It returns false whenever the
// guard is held, including when threadID itself already owns it — callers
// use IsOwner directly to detect that reentrant case without attempting a
// second acquire.
func (g *Guard) TryEnter(threadID uint32) bool {
	return atomic.CompareAndSwapUint32(&g.owner, unlocked, threadID)
}

// IsOwner reports whether threadID currently holds the guard.
func (g *Guard) IsOwner(threadID uint32) bool {
	return atomic.LoadUint32(&g.owner) == threadID
}

// Release frees the guard. Only the owning thread may call this; callers
// are expected to pair every successful TryEnter with exactly one Release.
func (g *Guard) Release() {
	atomic.StoreUint32(&g.owner, unlocked)
}

// Family identifies one of the hooked NT syscall families that shares a
// single recursion guard (spec.md §5: "create, open, delete,
// query-directory (shared between standard and extended), query-attrs,
// query-full-attrs").
type Family int

const (
	Create Family = iota
	Open
	Delete
	QueryDirectory
	QueryAttributes
	QueryFullAttributes

	numFamilies
)

// GuardSet holds one Guard per Family.
type GuardSet struct {
	guards [numFamilies]Guard
}

// NewGuardSet returns a GuardSet with every guard unlocked.
func NewGuardSet() *GuardSet {
	return &GuardSet{}
}

// TryEnter attempts to acquire the guard for family on behalf of
// threadID.
func (s *GuardSet) TryEnter(family Family, threadID uint32) bool {
	return s.guards[family].TryEnter(threadID)
}

// IsOwner reports whether threadID holds the guard for family.
func (s *GuardSet) IsOwner(family Family, threadID uint32) bool {
	return s.guards[family].IsOwner(threadID)
}

// Release frees the guard for family.
func (s *GuardSet) Release(family Family) {
	s.guards[family].Release()
}
