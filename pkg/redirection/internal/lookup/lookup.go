// Package lookup implements the LookupTree: the immutable, flattened form
// of a RedirectionTree compiled once configuration finishes, consulted on
// every intercepted syscall (spec.md §4.4, §4.5).
//
// Grounded on the teacher's fast root-relative path helpers
// (pkg/synchronization/core/path.go), adapted here from slash-joined sync
// paths to the prefix-compaction query structure this spec requires.
package lookup

import (
	"strings"

	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection/internal/overlay"
	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection/internal/pathkey"
	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection/internal/spandict"
	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection/internal/tree"
)

// maxStackPathLen bounds the stack-buffered uppercasing TryGetFile performs
// on its fast path; paths longer than this (or containing a non-ASCII
// byte) fall back to a heap-allocated uppercase copy. Per spec.md
// invariant 8 this is the boundary of the zero-allocation guarantee.
const maxStackPathLen = 512

// LookupTree is the compiled, query-time form of a RedirectionTree. It is
// never mutated after Compile returns; the Manager publishes new instances
// atomically on rebuild (spec.md §5).
type LookupTree struct {
	// Prefix is the longest directory path common to every entry, stored
	// uppercase with no trailing separator.
	Prefix string
	// SubfolderToFiles outer key is a subfolder path relative to Prefix
	// (empty string for files directly in Prefix); inner key is a file
	// name.
	SubfolderToFiles *spandict.SpanDict[*spandict.SpanDict[overlay.Target]]
}

// Compile flattens rt into a LookupTree, deduplicating every Target's
// directory string against pool so that Targets sharing a subfolder share
// one string instance (spec.md §4.4 step 4).
func Compile(rt *tree.RedirectionTree, pool *overlay.StringPool) *LookupTree {
	node := rt.Root
	var prefixSegments []string
	for node.Children.Count() == 1 && node.Files.Count() == 0 {
		seg, child, ok := node.Children.GetFirst()
		if !ok {
			break
		}
		prefixSegments = append(prefixSegments, seg)
		node = *child
	}
	prefix := strings.Join(prefixSegments, string(pathkey.Separator))

	subtreeSize := countNodes(node)
	outer := spandict.New[*spandict.SpanDict[overlay.Target]](subtreeSize)

	compileNode(node, nil, outer, pool)

	return &LookupTree{Prefix: prefix, SubfolderToFiles: outer}
}

func countNodes(node *tree.Node) int {
	count := 1
	node.Children.Iterate(func(_ string, child **tree.Node) bool {
		count += countNodes(*child)
		return true
	})
	return count
}

func compileNode(node *tree.Node, segments []string, outer *spandict.SpanDict[*spandict.SpanDict[overlay.Target]], pool *overlay.StringPool) {
	relSubfolder := strings.Join(segments, string(pathkey.Separator))

	inner := spandict.New[overlay.Target](node.Files.Count())
	node.Files.Iterate(func(name string, target *overlay.Target) bool {
		t := *target
		t.Directory = pool.Intern(t.Directory)
		inner.AddOrReplace(name, t)
		return true
	})
	outer.AddOrReplace(relSubfolder, inner)

	node.Children.Iterate(func(seg string, child **tree.Node) bool {
		childSegments := make([]string, len(segments)+1)
		copy(childSegments, segments)
		childSegments[len(segments)] = seg
		compileNode(*child, childSegments, outer, pool)
		return true
	})
}

// TryGetFolder looks up the subfolder map for a directory path that is
// already uppercased and separator-canonical (spec.md §4.5 precondition).
// It allocates nothing: every step is a slice or a SpanDict probe.
func (lt *LookupTree) TryGetFolder(path string) (*spandict.SpanDict[overlay.Target], bool) {
	prefix := lt.Prefix
	if !strings.HasPrefix(path, prefix) {
		return nil, false
	}

	hasTail := len(prefix) != len(path)
	rest := path[len(prefix):]
	if hasTail && len(prefix) > 0 {
		// Guard against prefix being a prefix of a longer segment name
		// rather than a true directory ancestor (e.g. prefix "...DATA"
		// matching a path through "...DATABASE").
		if len(rest) == 0 || rest[0] != pathkey.Separator {
			return nil, false
		}
		rest = rest[1:]
	}

	return lt.SubfolderToFiles.TryGetString(rest)
}

// TryGetFile is the public query entry point: it accepts a path of any
// case, uppercases it (stack-buffered for inputs up to maxStackPathLen
// ASCII bytes, so this allocates nothing for the common case), splits it
// at the last separator, and resolves the directory then the file name.
func (lt *LookupTree) TryGetFile(rawPath string) (overlay.Target, bool) {
	rawPath = pathkey.StripDevicePrefix(rawPath)

	var stackBuf [maxStackPathLen]byte
	upper, ok := fastUppercaseASCII(stackBuf[:], rawPath)
	if !ok {
		upper = []byte(pathkey.Normalize(rawPath))
	}

	sepIdx := lastIndexSeparator(upper)
	if sepIdx == -1 {
		return overlay.Target{}, false
	}

	inner, ok := lt.tryGetFolderBytes(upper[:sepIdx])
	if !ok {
		return overlay.Target{}, false
	}
	return inner.TryGet(upper[sepIdx+1:])
}

// tryGetFolderBytes mirrors TryGetFolder but over a borrowed byte slice,
// used by TryGetFile's stack-buffered fast path so it never needs to
// materialize a string.
func (lt *LookupTree) tryGetFolderBytes(path []byte) (*spandict.SpanDict[overlay.Target], bool) {
	prefix := lt.Prefix
	if len(path) < len(prefix) || !bytesHasStringPrefix(path, prefix) {
		return nil, false
	}

	hasTail := len(prefix) != len(path)
	rest := path[len(prefix):]
	if hasTail && len(prefix) > 0 {
		if len(rest) == 0 || rest[0] != pathkey.Separator {
			return nil, false
		}
		rest = rest[1:]
	}

	return lt.SubfolderToFiles.TryGet(rest)
}

func bytesHasStringPrefix(b []byte, s string) bool {
	if len(b) < len(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if b[i] != s[i] {
			return false
		}
	}
	return true
}

func lastIndexSeparator(b []byte) int {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] == pathkey.Separator {
			return i
		}
	}
	return -1
}

// fastUppercaseASCII writes the ASCII-uppercased bytes of src into dst and
// returns the written slice, or ok=false if src doesn't fit in dst or
// contains a non-ASCII byte — in both cases the caller falls back to the
// full invariant-culture uppercaser, which may allocate. Real game asset
// paths are overwhelmingly ASCII, so this covers the hot case; correctness
// for BMP characters is preserved by the fallback, just not the
// allocation-free guarantee.
func fastUppercaseASCII(dst []byte, src string) ([]byte, bool) {
	if len(src) > len(dst) {
		return nil, false
	}
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c >= 0x80 {
			return nil, false
		}
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		dst[i] = c
	}
	return dst[:len(src)], true
}
