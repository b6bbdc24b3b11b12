//go:build !windows

package ntadapter

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// fakeAdapter is a reference Adapter usable off Windows, so the
// redirection engine's logic can be exercised in tests and non-Windows CI
// without a live NT kernel (SPEC_FULL.md §C). It answers metadata queries
// from the host's ordinary filesystem via os.Stat, translating what it can
// into the same FileMetadata shape the real Windows adapter produces.
type fakeAdapter struct{}

// NewFakeAdapter returns the reference Adapter used off Windows.
func NewFakeAdapter() Adapter {
	return fakeAdapter{}
}

func (fakeAdapter) ResolvePath(rootDirectoryPath, objectName string) (string, error) {
	if rootDirectoryPath == "" {
		return objectName, nil
	}
	return filepath.Join(rootDirectoryPath, objectName), nil
}

const ntEpochToUnixEpoch100ns = 116444736000000000

func (fakeAdapter) QueryMetadata(path string) (FileMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileMetadata{}, errors.Wrap(err, "unable to stat overlay file")
	}

	modTime := info.ModTime().UnixNano()/100 + ntEpochToUnixEpoch100ns

	var attrs uint32 = 0x80 // FILE_ATTRIBUTE_NORMAL
	if info.IsDir() {
		attrs = 0x10 // FILE_ATTRIBUTE_DIRECTORY
	}

	return FileMetadata{
		CreationTime:   modTime,
		LastAccessTime: modTime,
		LastWriteTime:  modTime,
		ChangeTime:     modTime,
		EndOfFile:      info.Size(),
		AllocationSize: info.Size(),
		FileAttributes: attrs,
	}, nil
}

func (fakeAdapter) RecordClassFor(class FileInformationClass) (RecordClass, error) {
	return recordClassForAdapter(class)
}
