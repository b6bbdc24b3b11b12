package redirection

import (
	"github.com/pkg/errors"

	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection/internal/overlay"
	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection/internal/pathkey"
)

// Outcome classifies the result of a single hook decision (spec.md §7). It
// is the vehicle for the error taxonomy: rather than the core throwing
// across the syscall boundary, every decision point returns one of these
// values and the caller (the hook glue, not this package) decides what
// native call to make or skip.
type Outcome uint

const (
	// OutcomeNotFound means the path matched no redirect; the caller
	// issues the original syscall unchanged. This is the common case, not
	// an error.
	OutcomeNotFound Outcome = iota
	// OutcomeRedirected means a replacement path was found; the caller
	// substitutes it before issuing the original syscall.
	OutcomeRedirected
	// OutcomeUnderlyingNativeError means the original syscall (attempted
	// by the caller before or after consulting the engine, depending on
	// the hook) returned a non-success status that must be propagated
	// verbatim.
	OutcomeUnderlyingNativeError
	// OutcomeDirectoryNeedsFallback means a directory open failed with
	// "not found" against the real path, but the engine has a redirect
	// for it, so the caller should retry the open against the redirected
	// path.
	OutcomeDirectoryNeedsFallback
	// OutcomeBufferTooSmall means enumeration splicing ran out of space
	// mid-merge; the caller returns what was written along with
	// morePending and calls again with the same handle state.
	OutcomeBufferTooSmall
	// OutcomeInternalInvariant means an assertion inside the engine
	// failed. The caller must treat this exactly like OutcomeNotFound
	// (fall back to the original syscall, unredirected) rather than
	// propagate a crash.
	OutcomeInternalInvariant
)

// String provides a human-readable representation of an Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNotFound:
		return "not-found"
	case OutcomeRedirected:
		return "redirected"
	case OutcomeUnderlyingNativeError:
		return "underlying-native-error"
	case OutcomeDirectoryNeedsFallback:
		return "directory-needs-fallback"
	case OutcomeBufferTooSmall:
		return "buffer-too-small"
	case OutcomeInternalInvariant:
		return "internal-invariant"
	default:
		return "unknown"
	}
}

// ErrInternalInvariant is logged (wrapped with context) by ResolveFileOpen
// and ResolveDirectoryOpen when a panic is recovered from inside the
// engine. Neither function returns it; they report
// OutcomeInternalInvariant instead, and the error only reaches the
// manager's log.
var ErrInternalInvariant = errors.New("redirection: internal invariant violated")

// ResolveFileOpen is the decision function a file-open hook calls before
// issuing the original syscall (spec.md §7). It never panics: any
// recovered panic inside TryGetFile is converted to
// OutcomeInternalInvariant, matching "asserts only; in release it falls
// back to the original syscall without redirection rather than crashing
// the host process."
func (m *Manager) ResolveFileOpen(path string) (redirectedPath string, outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error(errors.Wrapf(ErrInternalInvariant, "panic resolving %s: %v", path, r))
			redirectedPath = ""
			outcome = OutcomeInternalInvariant
		}
	}()

	target, ok := m.TryGetFile(path)
	if !ok {
		return "", OutcomeNotFound
	}
	return joinTarget(target), OutcomeRedirected
}

// ResolveDirectoryOpen is ResolveFileOpen's counterpart for directory
// handles. nativeNotFound reports whether the caller's attempt to open
// originalPath against the real filesystem already failed with
// STATUS_OBJECT_NAME_NOT_FOUND; when it has, and the engine has a
// redirect for the same path, the caller is told to retry against
// redirectedPath (spec.md §7's DIRECTORY_NEEDS_FALLBACK).
func (m *Manager) ResolveDirectoryOpen(path string, nativeNotFound bool) (redirectedPath string, outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error(errors.Wrapf(ErrInternalInvariant, "panic resolving directory %s: %v", path, r))
			redirectedPath = ""
			outcome = OutcomeInternalInvariant
		}
	}()

	target, ok := m.TryGetFile(path)
	if !ok {
		if nativeNotFound {
			return "", OutcomeUnderlyingNativeError
		}
		return "", OutcomeNotFound
	}
	if nativeNotFound {
		return joinTarget(target), OutcomeDirectoryNeedsFallback
	}
	return joinTarget(target), OutcomeRedirected
}

func joinTarget(target overlay.Target) string {
	return pathkey.Join(target.Directory, target.FileName)
}
