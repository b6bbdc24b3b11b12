// Package tree implements the RedirectionTree: the mutable, per-path-segment
// trie used while the engine is in build (configuration) mode. It is
// compiled into an immutable query-time LookupTree once configuration
// finishes (spec.md §4.2, §4.4).
//
// Grounded on the teacher's recursive content-map idiom
// (pkg/synchronization/core/entry.go's Contents map[string]*Entry, walked
// and mutated depth-first) adapted from a content-addressed sync tree to a
// path-segment trie of redirect targets.
package tree

import (
	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection/internal/overlay"
	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection/internal/pathkey"
	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection/internal/spandict"
)

const defaultNodeCapacity = 8

// Node is one path segment's worth of trie state: the children reachable
// from it, and the files it directly contains.
type Node struct {
	Children *spandict.SpanDict[*Node]
	Files    *spandict.SpanDict[overlay.Target]
}

func newNode() *Node {
	return &Node{
		Children: spandict.New[*Node](defaultNodeCapacity),
		Files:    spandict.New[overlay.Target](defaultNodeCapacity),
	}
}

// RedirectionTree is the mutable trie built during configuration. The zero
// value is not usable; use New.
type RedirectionTree struct {
	Root *Node
}

// New returns an empty RedirectionTree.
func New() *RedirectionTree {
	return &RedirectionTree{Root: newNode()}
}

// descend walks (creating as needed) the child chain for segments,
// returning the node at the end of the chain.
func descend(root *Node, segments []string) *Node {
	node := root
	for _, seg := range segments {
		child, ok := node.Children.TryGetString(seg)
		if !ok {
			child = newNode()
			node.Children.AddOrReplace(seg, child)
		}
		node = child
	}
	return node
}

// AddFile inserts a single file-level redirect. oldPath and newPath must
// already be normalized (uppercased, device-prefix stripped). When a file
// already exists at the same final segment, the new target replaces it —
// callers control override order (spec.md §4.2: "file-level redirections
// override folder overlays; among folder overlays, the most recently
// added wins").
func (t *RedirectionTree) AddFile(oldPath, newPath string, isDir bool) {
	segments := pathkey.SplitSegments(oldPath)
	if len(segments) == 0 {
		return
	}
	parent := descend(t.Root, segments[:len(segments)-1])
	leaf := segments[len(segments)-1]

	newDirIdx := pathkey.LastSeparatorIndex(newPath)
	var newDir, newFile string
	if newDirIdx == -1 {
		newDir, newFile = "", newPath
	} else {
		newDir, newFile = newPath[:newDirIdx], newPath[newDirIdx+1:]
	}

	parent.Files.AddOrReplace(leaf, overlay.Target{
		Directory:   newDir,
		FileName:    newFile,
		IsDirectory: isDir,
	})
}

// AddFolderOverlay merges every file group recorded in fr (already
// normalized by the caller) into the tree rooted at sourceDir. For each
// (relSub, files) pair in fr.SubfolderToFiles it resolves or creates the
// node at sourceDir\relSub and stores every file target there, replacing
// any file that already exists under the same name.
func (t *RedirectionTree) AddFolderOverlay(sourceDir string, fr *overlay.FolderRedirection) {
	sourceSegments := pathkey.SplitSegments(sourceDir)

	fr.SubfolderToFiles.Iterate(func(relSub string, targets *[]overlay.Target) bool {
		subSegments := pathkey.SplitSegments(relSub)
		allSegments := make([]string, 0, len(sourceSegments)+len(subSegments))
		allSegments = append(allSegments, sourceSegments...)
		allSegments = append(allSegments, subSegments...)

		node := descend(t.Root, allSegments)
		for _, target := range *targets {
			node.Files.AddOrReplace(target.FileName, target)
		}
		return true
	})
}

// Walk visits every node in the tree depth-first, passing the path
// segments leading to it. The lookup package's compiler does not use it;
// it walks Node.Children itself.
func (t *RedirectionTree) Walk(visit func(segments []string, node *Node)) {
	walk(t.Root, nil, visit)
}

func walk(node *Node, prefix []string, visit func(segments []string, node *Node)) {
	visit(prefix, node)
	node.Children.Iterate(func(seg string, child **Node) bool {
		childPrefix := make([]string, len(prefix)+1)
		copy(childPrefix, prefix)
		childPrefix[len(prefix)] = seg
		walk(*child, childPrefix, visit)
		return true
	})
}
