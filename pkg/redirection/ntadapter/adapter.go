package ntadapter

import "github.com/pkg/errors"

// ErrUnsupportedInformationClass is returned by Adapter.RecordClassFor when
// asked for a FILE_INFORMATION_CLASS this package doesn't implement. Per
// spec.md §1 the NT structure definitions themselves are out of scope; the
// four variants implemented here (FileDirectoryInformation,
// FileFullDirectoryInformation, FileBothDirectoryInformation,
// FileNamesInformation) demonstrate the tagged-dispatch pattern without
// claiming coverage of the remaining six.
var ErrUnsupportedInformationClass = errors.New("unsupported FILE_INFORMATION_CLASS")

// Adapter is the boundary the path-resolution core consumes to reach the
// live NT kernel (spec.md §6): resolving OBJECT_ATTRIBUTES-style inputs
// into a flat path, fetching metadata for an overlay file so a
// synthesized directory record can be populated, and selecting the right
// RecordClass for a FILE_INFORMATION_CLASS value.
type Adapter interface {
	// ResolvePath flattens an object-relative open into an absolute path.
	// rootDirectoryPath is the path already resolved for any root
	// directory handle supplied by the caller (empty if the open was
	// absolute); objectName is the NT UNICODE_STRING content.
	ResolvePath(rootDirectoryPath, objectName string) (string, error)

	// QueryMetadata retrieves on-disk metadata for path, used to populate
	// a synthesized directory record for an overlay file.
	QueryMetadata(path string) (FileMetadata, error)

	// RecordClassFor returns the RecordClass for class, or
	// ErrUnsupportedInformationClass if class isn't one of the
	// implemented variants.
	RecordClassFor(class FileInformationClass) (RecordClass, error)
}

// recordClassForAdapter is shared by every Adapter implementation so the
// tagged-dispatch table lives in one place.
func recordClassForAdapter(class FileInformationClass) (RecordClass, error) {
	rc, ok := recordClassFor(class)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedInformationClass, "class %d", class)
	}
	return rc, nil
}
