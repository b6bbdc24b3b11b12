// Package pathkey normalizes NT paths into the canonical form every other
// package in pkg/redirection stores and compares against: invariant-case
// uppercase, a single separator, and the `\??\` device prefix stripped.
//
// Grounded on the normalization idiom in filesystem/normalize.go and
// filesystem/case.go from the teacher repo, adapted from POSIX
// tilde-expansion + symlink resolution to NT device-prefix handling.
package pathkey

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Separator is the single canonical path separator used by every stored
// path in this module.
const Separator = '\\'

// DevicePrefix is the NT object-manager namespace prefix. It is stripped on
// input and reapplied only when a path is handed back across the syscall
// boundary (spec.md §3).
const DevicePrefix = `\??\`

// upperCaser performs invariant-culture (locale-independent) uppercasing,
// matching .NET's CultureInfo.InvariantCulture.ToUpper used by the
// original engine: the same byte sequence always maps to the same result
// regardless of host locale.
var upperCaser = cases.Upper(language.Und)

// Normalize strips a leading device prefix (if present) and uppercases the
// remainder using invariant case-folding. It does not otherwise touch
// separators: callers are expected to already use backslashes, per
// spec.md's "expects Windows paths canonicalized with \" environment note.
func Normalize(path string) string {
	path = StripDevicePrefix(path)
	return upperCaser.String(path)
}

// StripDevicePrefix removes a leading `\??\` if present, returning path
// unchanged otherwise.
func StripDevicePrefix(path string) string {
	if strings.HasPrefix(path, DevicePrefix) {
		return path[len(DevicePrefix):]
	}
	return path
}

// ReapplyDevicePrefix prepends the NT device prefix, for use when handing a
// normalized path back across the syscall boundary.
func ReapplyDevicePrefix(path string) string {
	return DevicePrefix + path
}

// SplitSegments splits a normalized (separator-canonical) path into its
// path segments, discarding empty segments produced by a leading or
// trailing separator.
func SplitSegments(path string) []string {
	raw := strings.Split(path, string(Separator))
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// LastSeparatorIndex returns the index of the last separator in path, or
// -1 if path contains none. Used by RedirectionTree.AddFile to split a
// target path into its containing directory and file name.
func LastSeparatorIndex(path string) int {
	return strings.LastIndexByte(path, Separator)
}

// Join joins two normalized path segments with the canonical separator.
// Either side may be empty; Join("", "B") == "B" and Join("A", "") == "A".
func Join(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + string(Separator) + b
}

// TrimTrailingSeparator removes one trailing separator from path, if
// present.
func TrimTrailingSeparator(path string) string {
	if n := len(path); n > 0 && path[n-1] == Separator {
		return path[:n-1]
	}
	return path
}
