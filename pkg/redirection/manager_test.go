package redirection

import (
	"os"
	"path/filepath"
	"testing"
)

func mustWriteFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// E1: an empty manager misses on everything, even with a device prefix.
func TestE1EmptyManagerMisses(t *testing.T) {
	m := New()
	m.Optimise()

	if _, ok := m.TryGetFile(`\??\C:\GAME\DATA\A.BIN`); ok {
		t.Fatal("expected miss on empty manager")
	}
}

// E2: a single file redirect resolves case-insensitively after Optimise.
func TestE2SingleFileRedirect(t *testing.T) {
	m := New()
	m.AddRedirect(`C:\game\data\a.bin`, `C:\mod\a.bin`)
	m.Optimise()

	target, ok := m.TryGetFile(`C:\GAME\DATA\A.BIN`)
	if !ok {
		t.Fatal("expected hit")
	}
	if got := target.Directory + `\` + target.FileName; got != `C:\MOD\A.BIN` {
		t.Fatalf("got %s", got)
	}
}

// E3: a folder overlay covers every file scanned under its target, and
// nothing else.
func TestE3FolderOverlay(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "a.bin"), "a")
	mustWriteFile(t, filepath.Join(dir, "sub", "b.bin"), "b")

	m := New()
	if err := m.AddRedirectFolder(`C:\game\data`, dir); err != nil {
		t.Fatalf("AddRedirectFolder: %v", err)
	}
	m.Optimise()

	if _, ok := m.TryGetFile(`C:\GAME\DATA\A.BIN`); !ok {
		t.Fatal("expected hit for a.bin")
	}
	if _, ok := m.TryGetFile(`C:\GAME\DATA\SUB\B.BIN`); !ok {
		t.Fatal("expected hit for sub\\b.bin")
	}
	if _, ok := m.TryGetFile(`C:\GAME\DATA\C.BIN`); ok {
		t.Fatal("expected miss for c.bin")
	}
}

// E4: a file redirect added after a folder overlay wins over it for the
// same logical path.
func TestE4FileWinsOverFolder(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "a.bin"), "a")

	m := New()
	if err := m.AddRedirectFolder(`C:\game\data`, dir); err != nil {
		t.Fatalf("AddRedirectFolder: %v", err)
	}
	m.AddRedirect(`C:\game\data\a.bin`, `C:\other\a.bin`)
	m.Optimise()

	target, ok := m.TryGetFile(`C:\GAME\DATA\A.BIN`)
	if !ok {
		t.Fatal("expected hit")
	}
	if got := target.Directory + `\` + target.FileName; got != `C:\OTHER\A.BIN` {
		t.Fatalf("got %s, expected file redirect to win over folder overlay", got)
	}
}

// Invariant 1: TryGetFile is idempotent.
func TestInvariantIdempotentQuery(t *testing.T) {
	m := New()
	m.AddRedirect(`C:\game\data\a.bin`, `C:\mod\a.bin`)
	m.Optimise()

	first, okFirst := m.TryGetFile(`C:\GAME\DATA\A.BIN`)
	second, okSecond := m.TryGetFile(`C:\GAME\DATA\A.BIN`)
	if okFirst != okSecond || first != second {
		t.Fatalf("expected identical repeated results, got %+v/%v then %+v/%v", first, okFirst, second, okSecond)
	}
}

// Invariant 5: rebuild equivalence. Removing then re-adding produces the
// same answers as building the final set directly.
func TestInvariantRebuildEquivalence(t *testing.T) {
	direct := New()
	direct.AddRedirect(`C:\game\data\a.bin`, `C:\mod\a.bin`)
	direct.AddRedirect(`C:\game\data\b.bin`, `C:\mod\b.bin`)
	direct.Optimise()

	viaRemoval := New()
	viaRemoval.AddRedirect(`C:\game\data\a.bin`, `C:\mod\a.bin`)
	viaRemoval.AddRedirect(`C:\game\data\old.bin`, `C:\mod\old.bin`)
	viaRemoval.Optimise()
	viaRemoval.RemoveRedirect(`C:\game\data\old.bin`)
	viaRemoval.AddRedirect(`C:\game\data\b.bin`, `C:\mod\b.bin`)

	for _, p := range []string{`C:\GAME\DATA\A.BIN`, `C:\GAME\DATA\B.BIN`, `C:\GAME\DATA\OLD.BIN`} {
		wantTarget, wantOK := direct.TryGetFile(p)
		gotTarget, gotOK := viaRemoval.TryGetFile(p)
		if wantOK != gotOK || wantTarget != gotTarget {
			t.Fatalf("path %s: direct=%+v/%v rebuilt=%+v/%v", p, wantTarget, wantOK, gotTarget, gotOK)
		}
	}
}

// Disable suppresses all hits without discarding configuration.
func TestDisableSuppressesHitsWithoutDiscardingConfig(t *testing.T) {
	m := New()
	m.AddRedirect(`C:\game\data\a.bin`, `C:\mod\a.bin`)
	m.Optimise()

	m.Disable()
	if _, ok := m.TryGetFile(`C:\GAME\DATA\A.BIN`); ok {
		t.Fatal("expected miss while disabled")
	}

	m.Enable()
	if _, ok := m.TryGetFile(`C:\GAME\DATA\A.BIN`); !ok {
		t.Fatal("expected hit after re-enabling")
	}
}

// AddRedirect while already in query mode triggers an immediate rebuild,
// without requiring a second explicit Optimise call.
func TestAddRedirectAfterOptimiseRebuildsAutomatically(t *testing.T) {
	m := New()
	m.Optimise()

	m.AddRedirect(`C:\game\data\a.bin`, `C:\mod\a.bin`)

	if _, ok := m.TryGetFile(`C:\GAME\DATA\A.BIN`); !ok {
		t.Fatal("expected hit after post-optimise add")
	}
}

// AddRedirectFolder while already in query mode also rebuilds automatically
// (the Open Question resolution: folder adds always route through a
// rebuild, same as file adds).
func TestAddRedirectFolderAfterOptimiseRebuildsAutomatically(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "a.bin"), "a")

	m := New()
	m.Optimise()

	if err := m.AddRedirectFolder(`C:\game\data`, dir); err != nil {
		t.Fatalf("AddRedirectFolder: %v", err)
	}

	if _, ok := m.TryGetFile(`C:\GAME\DATA\A.BIN`); !ok {
		t.Fatal("expected hit after post-optimise folder add")
	}
}

func TestOverlayItemsForDirectoryListsInjectedNames(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "a.bin"), "a")
	mustWriteFile(t, filepath.Join(dir, "new.bin"), "n")

	m := New()
	if err := m.AddRedirectFolder(`C:\game\data`, dir); err != nil {
		t.Fatalf("AddRedirectFolder: %v", err)
	}
	m.Optimise()

	items := m.OverlayItemsForDirectory(`C:\GAME\DATA`)
	if len(items) != 2 {
		t.Fatalf("expected 2 overlay items, got %d", len(items))
	}
}

func TestResolveFileOpenReportsNotFoundAndRedirected(t *testing.T) {
	m := New()
	m.AddRedirect(`C:\game\data\a.bin`, `C:\mod\a.bin`)
	m.Optimise()

	if _, outcome := m.ResolveFileOpen(`C:\GAME\DATA\MISSING.BIN`); outcome != OutcomeNotFound {
		t.Fatalf("expected OutcomeNotFound, got %s", outcome)
	}

	path, outcome := m.ResolveFileOpen(`C:\GAME\DATA\A.BIN`)
	if outcome != OutcomeRedirected {
		t.Fatalf("expected OutcomeRedirected, got %s", outcome)
	}
	if path != `C:\MOD\A.BIN` {
		t.Fatalf("got %s", path)
	}
}

func TestResolveDirectoryOpenNeedsFallbackWhenNativeMissing(t *testing.T) {
	m := New()
	m.AddRedirect(`C:\game\data\overlaidDir`, `C:\mod\overlaidDir`)
	m.Optimise()

	path, outcome := m.ResolveDirectoryOpen(`C:\GAME\DATA\OVERLAIDDIR`, true)
	if outcome != OutcomeDirectoryNeedsFallback {
		t.Fatalf("expected OutcomeDirectoryNeedsFallback, got %s", outcome)
	}
	if path != `C:\MOD\OVERLAIDDIR` {
		t.Fatalf("got %s", path)
	}
}
