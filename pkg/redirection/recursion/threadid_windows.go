//go:build windows

package recursion

import "golang.org/x/sys/windows"

// CurrentThreadID returns the native OS thread id of the calling thread,
// used to stamp a Guard's owner field.
func CurrentThreadID() uint32 {
	return windows.GetCurrentThreadId()
}
