// Package scanner walks an overlay directory on disk and groups its files
// by immediate containing directory, producing the input the overlay
// package needs to build a FolderRedirection (spec.md §4.3).
//
// Grounded on the teacher's filesystem scan shape (pkg/synchronization
// walks a content tree depth-first, accumulating per-directory state as it
// descends) adapted here to a flat filepath.WalkDir pass over a real
// directory rather than a virtual content tree.
package scanner

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection/internal/pathkey"
)

// DirectoryFilesGroup is one subfolder's worth of file names, as found on
// disk under an overlay root.
type DirectoryFilesGroup struct {
	// Subfolder is the uppercased path of this directory relative to the
	// overlay root, using Separator, with no leading or trailing
	// separator. Empty string if this is the overlay root itself.
	Subfolder string
	// Files holds the uppercased file names found directly inside
	// Subfolder (not recursively).
	Files []string
}

// Scan walks root and returns one DirectoryFilesGroup per directory that
// contains at least one regular file, including root itself (Subfolder ==
// ""). Directories containing no files directly (only subdirectories) are
// omitted, since they have nothing to contribute to a SubfolderToFiles map.
//
// root is expected to already be an absolute, existing directory; Scan
// does not normalize it beyond the relative-path computation described
// above. The Manager passes the overlay root as given and normalizes its
// own stored copy separately.
func Scan(root string) ([]DirectoryFilesGroup, error) {
	groups := make(map[string][]string)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(root, filepath.Dir(path))
		if relErr != nil {
			return relErr
		}
		subfolder := ""
		if rel != "." {
			subfolder = pathkey.Normalize(rel)
		}

		name := pathkey.Normalize(filepath.Base(path))
		groups[subfolder] = append(groups[subfolder], name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]DirectoryFilesGroup, 0, len(groups))
	for subfolder, files := range groups {
		sort.Strings(files)
		result = append(result, DirectoryFilesGroup{Subfolder: subfolder, Files: files})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Subfolder < result[j].Subfolder })

	return result, nil
}
