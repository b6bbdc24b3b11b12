package overlay

// StringPool deduplicates directory-path strings so that every Target
// sharing a given subfolder references the same string instance, rather
// than a separate heap copy per file (spec.md §3: "Directory is stored
// once per subfolder and shared between all files under that subfolder").
//
// Not safe for concurrent use; each Manager owns one pool, shared by the
// FolderRedirection records it builds and by every LookupTree compile.
type StringPool struct {
	interned map[string]string
}

// NewStringPool returns an empty pool.
func NewStringPool() *StringPool {
	return &StringPool{interned: make(map[string]string)}
}

// Intern returns the pool's canonical instance of s, storing s as the
// canonical instance the first time it's seen.
func (p *StringPool) Intern(s string) string {
	if existing, ok := p.interned[s]; ok {
		return existing
	}
	p.interned[s] = s
	return s
}
