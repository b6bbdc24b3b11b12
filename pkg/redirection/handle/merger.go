package handle

import (
	"path/filepath"

	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection/internal/pathkey"
	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection/ntadapter"
)

// NativeQueryFunc invokes the original NtQueryDirectoryFile (or
// NtQueryDirectoryFileEx) the hook intercepted, writing native results into
// buf. restart is the State's ForceRestartScan flag as Advance found it;
// Advance takes no restart request of its own from the hook, so a caller's
// RestartScan is not folded into it. The underlying syscall and its
// trampoline are out of scope (spec.md §1); this is the "function pointer
// to the original, and a way to call it" spec.md §6 describes.
type NativeQueryFunc func(buf []byte, restart bool) (bytesWritten int, morePending bool, err error)

// Merger splices a State's overlay records into the buffer a NativeQueryFunc
// fills, deduplicating by name and chaining NextEntryOffset across the
// combined native-then-overlay sequence.
type Merger struct {
	recordClass ntadapter.RecordClass
	adapter     ntadapter.Adapter
	query       NativeQueryFunc
}

// NewMerger builds a Merger for one FILE_*_DIR_INFORMATION layout, using
// adapter to resolve injected records' metadata and query to invoke the
// original syscall.
func NewMerger(recordClass ntadapter.RecordClass, adapter ntadapter.Adapter, query NativeQueryFunc) *Merger {
	return &Merger{recordClass: recordClass, adapter: adapter, query: query}
}

// Advance runs one enumeration step: it invokes the native query, marks
// every natively-returned name as already seen, then appends as many
// not-yet-seen overlay records from state as fit in the remainder of buf.
// morePending is true if either the native side has more records pending or
// state has overlay records left to inject; callers loop until it's false.
func (m *Merger) Advance(state *State, buf []byte) (bytesWritten int, morePending bool, err error) {
	restart := state.ForceRestartScan
	state.ForceRestartScan = false

	nativeBytes, nativeMorePending, err := m.query(buf, restart)
	if err != nil {
		return 0, false, err
	}

	lastNativeOffset, hadNative := m.markNativeNames(state, buf[:nativeBytes])

	writeOffset := nativeBytes
	firstInjectedOffset := -1
	previousInjectedOffset := -1

	for state.CurrentItem < len(state.Items) {
		item := state.Items[state.CurrentItem]
		upperName := pathkey.Normalize(item.Name)

		if seen, _ := state.AlreadyInjected.TryGetString(upperName); seen {
			state.CurrentItem++
			continue
		}

		recordSize := m.recordClass.RecordSize(ntadapter.NameLengthUTF16(item.Name))
		if writeOffset+recordSize > len(buf) {
			break
		}

		meta, metaErr := m.adapter.QueryMetadata(filepath.Join(item.Target.Directory, item.Target.FileName))
		if metaErr != nil {
			// The overlay's target has gone missing since configuration;
			// skip it rather than fail the whole enumeration call.
			state.AlreadyInjected.AddOrReplace(upperName, true)
			state.CurrentItem++
			continue
		}

		m.recordClass.PopulateFromHandle(buf, writeOffset, meta)
		m.recordClass.WriteFileAttributes(buf, writeOffset, meta.FileAttributes)
		m.recordClass.WriteName(buf, writeOffset, item.Name)
		m.recordClass.WriteNextEntryOffset(buf, writeOffset, 0)

		if previousInjectedOffset != -1 {
			m.recordClass.WriteNextEntryOffset(buf, previousInjectedOffset, writeOffset-previousInjectedOffset)
		} else {
			firstInjectedOffset = writeOffset
		}
		previousInjectedOffset = writeOffset

		state.AlreadyInjected.AddOrReplace(upperName, true)
		state.NumInjectedItems++
		state.CurrentItem++
		writeOffset += recordSize
	}

	if hadNative && firstInjectedOffset != -1 {
		m.recordClass.WriteNextEntryOffset(buf, lastNativeOffset, firstInjectedOffset-lastNativeOffset)
	}

	morePending = nativeMorePending || state.CurrentItem < len(state.Items)
	return writeOffset, morePending, nil
}

// markNativeNames walks the native-filled prefix of buf, recording each
// record's name in state.AlreadyInjected so the overlay pass below it
// skips any name the native filesystem already returned. It returns the
// offset of the last native record (needed to re-chain its NextEntryOffset
// once overlay records are appended after it) and whether there was one.
func (m *Merger) markNativeNames(state *State, nativeBuf []byte) (lastOffset int, hadAny bool) {
	offset := 0
	for offset < len(nativeBuf) {
		name := m.recordClass.ReadFileName(nativeBuf, offset)
		state.AlreadyInjected.AddOrReplace(pathkey.Normalize(name), true)
		hadAny = true
		lastOffset = offset

		next := m.recordClass.ReadNextEntryOffset(nativeBuf, offset)
		if next == 0 {
			break
		}
		offset += next
	}
	return lastOffset, hadAny
}
