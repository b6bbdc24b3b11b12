//go:build windows

package ntadapter

import (
	"os"
	"path/filepath"

	winio "github.com/Microsoft/go-winio"
	"github.com/pkg/errors"
)

// windowsAdapter is the real Adapter, backed by live NT/Win32 calls. It is
// grounded on the teacher's filesystem/open_windows.go and
// filesystem/metadata_windows.go, which open a handle with
// FILE_FLAG_BACKUP_SEMANTICS and query it via GetFileInformationByHandle /
// GetFileInformationByHandleEx; here the equivalent query goes through
// go-winio's FileBasicInfo helper, which wraps the same Win32 call with a
// struct layout already matched to Windows' native alignment.
type windowsAdapter struct{}

// NewWindowsAdapter returns the production Adapter used on Windows.
func NewWindowsAdapter() Adapter {
	return windowsAdapter{}
}

func (windowsAdapter) ResolvePath(rootDirectoryPath, objectName string) (string, error) {
	if rootDirectoryPath == "" {
		return objectName, nil
	}
	return filepath.Join(rootDirectoryPath, objectName), nil
}

func (windowsAdapter) QueryMetadata(path string) (FileMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileMetadata{}, errors.Wrap(err, "unable to open overlay file")
	}
	defer f.Close()

	basic, err := winio.GetFileBasicInfo(f)
	if err != nil {
		return FileMetadata{}, errors.Wrap(err, "unable to query basic file info")
	}

	stat, err := f.Stat()
	if err != nil {
		return FileMetadata{}, errors.Wrap(err, "unable to stat overlay file")
	}

	// Filetime.Nanoseconds counts from the Unix epoch; shift back to the NT
	// epoch so the fields hold FILETIME ticks.
	const ntEpochToUnixEpoch100ns = 116444736000000000

	return FileMetadata{
		CreationTime:   basic.CreationTime.Nanoseconds()/100 + ntEpochToUnixEpoch100ns,
		LastAccessTime: basic.LastAccessTime.Nanoseconds()/100 + ntEpochToUnixEpoch100ns,
		LastWriteTime:  basic.LastWriteTime.Nanoseconds()/100 + ntEpochToUnixEpoch100ns,
		ChangeTime:     basic.ChangeTime.Nanoseconds()/100 + ntEpochToUnixEpoch100ns,
		EndOfFile:      stat.Size(),
		AllocationSize: stat.Size(),
		FileAttributes: basic.FileAttributes,
	}, nil
}

func (windowsAdapter) RecordClassFor(class FileInformationClass) (RecordClass, error) {
	return recordClassForAdapter(class)
}
