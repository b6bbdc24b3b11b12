package overlay

import (
	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection/internal/pathkey"
	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection/internal/spandict"
)

// FolderRedirection is a configuration record produced by scanning a
// target overlay directory on disk: it pairs the (source, target)
// directories with a pre-grouped map of every file found under target,
// keyed by its subfolder relative to target (spec.md §3).
type FolderRedirection struct {
	SourceFolder string
	TargetFolder string

	// SubfolderToFiles maps an uppercased subfolder path (relative to
	// TargetFolder, empty string for files directly inside it) to the
	// list of targets found there.
	SubfolderToFiles *spandict.SpanDict[[]Target]
}

// New builds a FolderRedirection from already-normalized source/target
// folders and a pool of DirectoryFilesGroup-shaped (subfolder, names)
// pairs, such as those produced by the scanner package. dirPool interns
// the directory strings so every Target in the same subfolder shares one
// string instance.
func New(sourceFolder, targetFolder string, groups []Group, dirPool *StringPool) *FolderRedirection {
	fr := &FolderRedirection{
		SourceFolder:     sourceFolder,
		TargetFolder:     targetFolder,
		SubfolderToFiles: spandict.New[[]Target](len(groups)),
	}

	for _, g := range groups {
		dir := dirPool.Intern(pathkey.Join(targetFolder, g.Subfolder))
		targets := make([]Target, 0, len(g.Files))
		for _, name := range g.Files {
			targets = append(targets, Target{
				Directory: dir,
				FileName:  name,
			})
		}
		fr.SubfolderToFiles.AddOrReplace(g.Subfolder, targets)
	}

	return fr
}

// Group is the input shape New expects per subfolder: a subfolder key
// (relative to the overlay root, empty for the root itself) and the file
// names found directly inside it. It mirrors scanner.DirectoryFilesGroup
// without importing the scanner package, since overlay is a dependency of
// scanner's downstream consumers, not the reverse.
type Group struct {
	Subfolder string
	Files     []string
}

// Equal reports structural equality on (SourceFolder, TargetFolder), per
// spec.md §3.
func (f *FolderRedirection) Equal(o *FolderRedirection) bool {
	if f == nil || o == nil {
		return f == o
	}
	return f.SourceFolder == o.SourceFolder && f.TargetFolder == o.TargetFolder
}
