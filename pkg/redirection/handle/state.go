// Package handle implements the per-open-handle enumeration state and the
// merger that splices overlay-injected directory records into a native
// QUERY_DIRECTORY result buffer (spec.md §4.7).
//
// A directory handle that the caller enumerates through the redirector
// carries one State for its lifetime, created when the handle is opened and
// discarded when it's closed. Grounded on the teacher's per-session
// transition state (pkg/synchronization/session, which tracks one mutable
// struct across a sequence of calls keyed by a handle-like identifier)
// adapted here to the enumeration restart/continuation rules NT's
// QUERY_DIRECTORY convention requires.
package handle

import (
	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection/internal/overlay"
	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection/internal/spandict"
)

// Item is a single overlay record available for injection into a
// directory's enumeration: the name the caller will see and the target it
// resolves to.
type Item struct {
	Name   string
	Target overlay.Target
}

// State tracks one open directory handle's enumeration progress across
// repeated QUERY_DIRECTORY calls.
type State struct {
	// FilePath is the normalized (uppercased, device-prefix stripped)
	// directory path this handle was opened against.
	FilePath string

	// QueryFileName is the filter pattern last supplied by the caller; NT
	// defaults this to "*" when a call omits it. Changing it mid-sequence
	// restarts the scan (spec.md §4.7).
	QueryFileName string

	// Items is the overlay's injectable records for FilePath, in a fixed
	// order established once at Populate time.
	Items []Item

	// AlreadyInjected tracks, by uppercased name, which overlay names have
	// already been written into a caller's buffer (Native-enumerated names
	// that collide with an overlay entry are marked here too, so the
	// overlay copy is skipped rather than duplicated).
	AlreadyInjected *spandict.SpanDict[bool]

	// CurrentItem is the index into Items of the next overlay record to
	// inject.
	CurrentItem int

	// NumInjectedItems counts overlay records written across the handle's
	// whole lifetime, for diagnostics.
	NumInjectedItems int

	// ForceRestartScan is set whenever the filter pattern changes or the
	// state is otherwise reset; the next Advance call passes restart=true
	// to the native query and clears it.
	ForceRestartScan bool
}

// NewState returns a fresh State for a directory handle opened against
// filePath, with the default "*" filter pattern and an empty dedup set.
func NewState(filePath string) *State {
	s := &State{
		FilePath:      filePath,
		QueryFileName: "*",
	}
	s.Reset()
	return s
}

// Reset clears per-scan progress (dedup set and item cursor) and forces the
// next Advance to restart the native scan. Items is left untouched: the
// overlay's contents for this directory don't change just because the scan
// restarts.
func (s *State) Reset() {
	s.AlreadyInjected = spandict.New[bool](8)
	s.CurrentItem = 0
	s.ForceRestartScan = true
}

// SetQueryFileName applies a new filter pattern, defaulting an empty
// pattern to "*". If the pattern differs from the one already recorded,
// the scan is reset per spec.md §4.7's "filter pattern changed" rule.
func (s *State) SetQueryFileName(pattern string) {
	if pattern == "" {
		pattern = "*"
	}
	if pattern == s.QueryFileName {
		return
	}
	s.QueryFileName = pattern
	s.Reset()
}

// Populate installs the overlay's injectable records for this directory,
// replacing any previous set and resetting scan progress.
func (s *State) Populate(items []Item) {
	s.Items = items
	s.Reset()
}
