package handle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection/internal/overlay"
	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection/ntadapter"
)

// writeOverlayFile creates a real file under a temp directory so the fake
// adapter's os.Stat-backed QueryMetadata can resolve it, and returns the
// Target pointing at it.
func writeOverlayFile(t *testing.T, name string) overlay.Target {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("contents"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return overlay.Target{Directory: dir, FileName: name}
}

func fakeAdapter(t *testing.T) ntadapter.Adapter {
	t.Helper()
	a := ntadapter.NewFakeAdapter()
	return a
}

func recordClass(t *testing.T) ntadapter.RecordClass {
	t.Helper()
	rc, err := ntadapter.NewFakeAdapter().RecordClassFor(ntadapter.FileNamesInformation)
	if err != nil {
		t.Fatalf("RecordClassFor: %v", err)
	}
	return rc
}

// nativeEmpty is a NativeQueryFunc that writes nothing and reports no more
// data pending, for tests that only care about overlay injection.
func nativeEmpty(buf []byte, restart bool) (int, bool, error) {
	return 0, false, nil
}

func TestAdvanceInjectsOverlayItemsWhenNativeEmpty(t *testing.T) {
	rc := recordClass(t)
	m := NewMerger(rc, fakeAdapter(t), nativeEmpty)

	state := NewState(`C:\GAME\DATA`)
	state.Populate([]Item{
		{Name: "MOD.TXT", Target: writeOverlayFile(t, "MOD.TXT")},
	})

	buf := make([]byte, 4096)
	n, more, err := m.Advance(state, buf)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if more {
		t.Fatalf("expected morePending=false once the only item is injected")
	}
	if n == 0 {
		t.Fatalf("expected a nonzero number of bytes written")
	}
	if state.NumInjectedItems != 1 {
		t.Fatalf("NumInjectedItems = %d; want 1", state.NumInjectedItems)
	}

	name := rc.ReadFileName(buf, 0)
	if name != "MOD.TXT" {
		t.Fatalf("ReadFileName = %q; want MOD.TXT", name)
	}
}

func TestAdvanceSkipsOverlayItemAlreadySeenNatively(t *testing.T) {
	rc := recordClass(t)

	// Build a native buffer containing a single FILE_NAMES_INFORMATION
	// record named "MOD.TXT" so the overlay's same-named item is deduped.
	nativeBuf := make([]byte, 64)
	rc.WriteName(nativeBuf, 0, "MOD.TXT")
	rc.WriteNextEntryOffset(nativeBuf, 0, 0)
	nativeLen := rc.RecordSize(ntadapter.NameLengthUTF16("MOD.TXT"))

	native := func(buf []byte, restart bool) (int, bool, error) {
		copy(buf, nativeBuf[:nativeLen])
		return nativeLen, false, nil
	}

	m := NewMerger(rc, fakeAdapter(t), native)
	state := NewState(`C:\GAME\DATA`)
	state.Populate([]Item{
		{Name: "MOD.TXT", Target: overlay.Target{Directory: `C:\MODS\DATA`, FileName: "MOD.TXT"}},
	})

	buf := make([]byte, 4096)
	n, more, err := m.Advance(state, buf)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if more {
		t.Fatalf("expected morePending=false")
	}
	if n != nativeLen {
		t.Fatalf("bytesWritten = %d; want %d (no overlay record should have been appended)", n, nativeLen)
	}
	if state.NumInjectedItems != 0 {
		t.Fatalf("NumInjectedItems = %d; want 0 (deduped against native result)", state.NumInjectedItems)
	}
}

func TestAdvanceStopsWhenBufferTooSmallAndResumesNextCall(t *testing.T) {
	rc := recordClass(t)
	m := NewMerger(rc, fakeAdapter(t), nativeEmpty)

	state := NewState(`C:\GAME\DATA`)
	state.Populate([]Item{
		{Name: "A.TXT", Target: writeOverlayFile(t, "A.TXT")},
		{Name: "B.TXT", Target: writeOverlayFile(t, "B.TXT")},
	})

	oneRecordSize := rc.RecordSize(ntadapter.NameLengthUTF16("A.TXT"))
	buf := make([]byte, oneRecordSize)

	n, more, err := m.Advance(state, buf)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !more {
		t.Fatalf("expected morePending=true: second item didn't fit")
	}
	if state.CurrentItem != 1 {
		t.Fatalf("CurrentItem = %d; want 1 (first item consumed, second pending)", state.CurrentItem)
	}
	if n != oneRecordSize {
		t.Fatalf("bytesWritten = %d; want %d", n, oneRecordSize)
	}

	biggerBuf := make([]byte, 4096)
	n2, more2, err := m.Advance(state, biggerBuf)
	if err != nil {
		t.Fatalf("second Advance: %v", err)
	}
	if more2 {
		t.Fatalf("expected morePending=false after second item is injected")
	}
	if n2 == 0 {
		t.Fatalf("expected nonzero bytes written on the resumed call")
	}
}

func TestAdvancePropagatesNativeQueryError(t *testing.T) {
	rc := recordClass(t)
	wantErr := errors.New("boom")
	native := func(buf []byte, restart bool) (int, bool, error) {
		return 0, false, wantErr
	}
	m := NewMerger(rc, fakeAdapter(t), native)

	state := NewState(`C:\GAME\DATA`)
	_, _, err := m.Advance(state, make([]byte, 64))
	if err != wantErr {
		t.Fatalf("Advance error = %v; want %v", err, wantErr)
	}
}

func TestSetQueryFileNameResetsOnChange(t *testing.T) {
	state := NewState(`C:\GAME\DATA`)
	state.Populate([]Item{
		{Name: "A.TXT", Target: overlay.Target{Directory: `C:\MODS\DATA`, FileName: "A.TXT"}},
	})
	state.CurrentItem = 1
	state.ForceRestartScan = false

	state.SetQueryFileName("*.TXT")

	if !state.ForceRestartScan {
		t.Fatalf("expected ForceRestartScan=true after filter pattern change")
	}
	if state.CurrentItem != 0 {
		t.Fatalf("CurrentItem = %d; want 0 after reset", state.CurrentItem)
	}
}

func TestSetQueryFileNameNoopWhenUnchanged(t *testing.T) {
	state := NewState(`C:\GAME\DATA`)
	state.ForceRestartScan = false
	state.CurrentItem = 3

	state.SetQueryFileName("*")

	if state.ForceRestartScan {
		t.Fatalf("expected no reset when the pattern is unchanged")
	}
	if state.CurrentItem != 3 {
		t.Fatalf("CurrentItem changed despite unchanged pattern")
	}
}

func TestSetQueryFileNameDefaultsEmptyToWildcard(t *testing.T) {
	state := NewState(`C:\GAME\DATA`)
	if state.QueryFileName != "*" {
		t.Fatalf("QueryFileName = %q; want \"*\"", state.QueryFileName)
	}
	state.ForceRestartScan = false
	state.SetQueryFileName("")
	if state.QueryFileName != "*" {
		t.Fatalf("QueryFileName = %q; want \"*\" after empty pattern", state.QueryFileName)
	}
	if state.ForceRestartScan {
		t.Fatalf("empty pattern normalizing to the existing \"*\" should not reset")
	}
}
