package tree

import (
	"testing"

	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection/internal/overlay"
)

func TestAddFileDescendsAndStoresTarget(t *testing.T) {
	rt := New()
	rt.AddFile(`C:\GAME\DATA\A.BIN`, `C:\MOD\A.BIN`, false)

	c, ok := rt.Root.Children.TryGetString("C:")
	if !ok {
		t.Fatalf("missing C: child")
	}
	game, ok := c.Children.TryGetString("GAME")
	if !ok {
		t.Fatalf("missing GAME child")
	}
	data, ok := game.Children.TryGetString("DATA")
	if !ok {
		t.Fatalf("missing DATA child")
	}
	target, ok := data.Files.TryGetString("A.BIN")
	if !ok {
		t.Fatalf("missing A.BIN file entry")
	}
	if target.Directory != `C:\MOD` || target.FileName != "A.BIN" {
		t.Fatalf("unexpected target: %+v", target)
	}
}

func TestAddFileOverwritesExisting(t *testing.T) {
	rt := New()
	rt.AddFile(`C:\GAME\A.BIN`, `C:\MOD1\A.BIN`, false)
	rt.AddFile(`C:\GAME\A.BIN`, `C:\MOD2\A.BIN`, false)

	game, _ := rt.Root.Children.TryGetString("C:")
	node, _ := game.Children.TryGetString("GAME")
	target, ok := node.Files.TryGetString("A.BIN")
	if !ok || target.Directory != `C:\MOD2` {
		t.Fatalf("expected overwrite to C:\\MOD2, got %+v, %v", target, ok)
	}
}

func TestAddFolderOverlayMergesSubfolders(t *testing.T) {
	rt := New()
	pool := overlay.NewStringPool()
	groups := []overlay.Group{
		{Subfolder: "", Files: []string{"A.BIN"}},
		{Subfolder: "SUB", Files: []string{"B.BIN"}},
	}
	fr := overlay.New(`C:\GAME\DATA`, `C:\MOD`, groups, pool)

	rt.AddFolderOverlay(`C:\GAME\DATA`, fr)

	c, _ := rt.Root.Children.TryGetString("C:")
	game, _ := c.Children.TryGetString("GAME")
	data, ok := game.Children.TryGetString("DATA")
	if !ok {
		t.Fatalf("missing DATA node")
	}
	if _, ok := data.Files.TryGetString("A.BIN"); !ok {
		t.Fatalf("missing A.BIN at root overlay level")
	}
	sub, ok := data.Children.TryGetString("SUB")
	if !ok {
		t.Fatalf("missing SUB child node")
	}
	if _, ok := sub.Files.TryGetString("B.BIN"); !ok {
		t.Fatalf("missing B.BIN under SUB")
	}
}

func TestFileRedirectWinsOverFolderOverlay(t *testing.T) {
	rt := New()
	pool := overlay.NewStringPool()
	groups := []overlay.Group{{Subfolder: "", Files: []string{"A.BIN"}}}
	fr := overlay.New(`C:\GAME\DATA`, `C:\MOD`, groups, pool)

	rt.AddFolderOverlay(`C:\GAME\DATA`, fr)
	rt.AddFile(`C:\GAME\DATA\A.BIN`, `C:\OTHER\A.BIN`, false)

	c, _ := rt.Root.Children.TryGetString("C:")
	game, _ := c.Children.TryGetString("GAME")
	data, _ := game.Children.TryGetString("DATA")
	target, ok := data.Files.TryGetString("A.BIN")
	if !ok || target.Directory != `C:\OTHER` {
		t.Fatalf("file redirect did not win: %+v, %v", target, ok)
	}
}

func TestWalkVisitsEveryNode(t *testing.T) {
	rt := New()
	rt.AddFile(`A\B\C.BIN`, `X\C.BIN`, false)

	visited := map[string]bool{}
	rt.Walk(func(segments []string, node *Node) {
		key := ""
		for _, s := range segments {
			key += s + "/"
		}
		visited[key] = true
	})

	for _, want := range []string{"", "A/", "A/B/"} {
		if !visited[want] {
			t.Fatalf("Walk missed segment path %q; visited=%v", want, visited)
		}
	}
}
