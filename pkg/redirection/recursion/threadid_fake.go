//go:build !windows

package recursion

// CurrentThreadID is a reference stand-in for non-Windows builds, where
// there is no equivalent of GetCurrentThreadId in this guard's sense. It
// always returns the same fixed, nonzero id: off Windows this package is
// exercised only by tests, which drive Guard/GuardSet directly with
// explicit synthetic thread ids rather than relying on this function.
func CurrentThreadID() uint32 {
	return 1
}
