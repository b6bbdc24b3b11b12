// Package ntadapter defines the small boundary interface the path
// resolution core consumes to talk to the live NT kernel: invoking the
// original syscall, flattening OBJECT_ATTRIBUTES, and synthesizing
// directory enumeration records for four of the ten FILE_*_DIR_INFORMATION
// wire layouts (spec.md §6, §9); the other six are not implemented. The structure definitions themselves are
// explicitly out of scope (spec.md §1); what's in scope is the tagged
// capability set selected by FILE_INFORMATION_CLASS at hook entry.
//
// Grounded on the teacher's Windows interop (filesystem/metadata_windows.go,
// filesystem/open_windows.go — GetFileInformationByHandle /
// GetFileInformationByHandleEx / unsafe.Pointer struct marshaling) and on
// the SMB2 QUERY_DIRECTORY record shape in the retrieval pack's
// other_examples (DirectoryEntry: FileName, FileIndex, timestamps,
// EndOfFile, AllocationSize, FileAttributes, EaSize, FileID, ShortName —
// the same fields the FILE_*_DIR_INFORMATION family carries).
package ntadapter

import (
	"encoding/binary"
	"unicode/utf16"
)

// FileInformationClass mirrors the subset of NT's FILE_INFORMATION_CLASS
// enum this package's RecordClass implementations understand.
type FileInformationClass uint32

const (
	FileDirectoryInformation     FileInformationClass = 1
	FileFullDirectoryInformation FileInformationClass = 2
	FileBothDirectoryInformation FileInformationClass = 3
	FileNamesInformation         FileInformationClass = 12
)

// FileMetadata is the fixed-size metadata PopulateFromHandle writes into a
// synthesized record. Timestamps are NT FILETIME ticks (100ns units since
// 1601-01-01), matching the wire format directly so no conversion is
// needed at write time.
type FileMetadata struct {
	CreationTime   int64
	LastAccessTime int64
	LastWriteTime  int64
	ChangeTime     int64
	EndOfFile      int64
	AllocationSize int64
	FileAttributes uint32
}

// RecordClass is the capability set spec.md §9 names: record sizing,
// next-entry-offset patching, file-attributes patching, name writing, and
// populating the fixed fields from a FileMetadata. One implementation
// exists per FILE_*_DIR_INFORMATION layout; the right one is selected by a
// tagged switch on FileInformationClass at hook entry — spec.md is
// explicit that no virtual dispatch is necessary beyond this, so the
// interface itself plays that "tagged switch" role in idiomatic Go.
type RecordClass interface {
	// RecordSize returns the byte size needed to encode a record whose
	// file name is nameLengthUTF16 UTF-16 code units long, rounded up to
	// NT's required 8-byte record alignment.
	RecordSize(nameLengthUTF16 int) int
	// WriteNextEntryOffset patches the NextEntryOffset field of the record
	// starting at buf[recordStart:]. offset is 0 for the last record in a
	// batch.
	WriteNextEntryOffset(buf []byte, recordStart, offset int)
	// WriteFileAttributes patches the FileAttributes field.
	WriteFileAttributes(buf []byte, recordStart int, attrs uint32)
	// WriteName encodes name as UTF-16 into the record's trailing
	// FileName field and patches the FileNameLength field (in bytes).
	// buf must have at least RecordSize(len(utf16.Encode([]rune(name))))
	// bytes available starting at recordStart.
	WriteName(buf []byte, recordStart int, name string)
	// PopulateFromHandle writes every fixed-size metadata field (not
	// FileName) from meta.
	PopulateFromHandle(buf []byte, recordStart int, meta FileMetadata)

	// ReadNextEntryOffset reads the NextEntryOffset field of the record at
	// buf[recordStart:]. Used to walk a buffer of natively-enumerated
	// records during dedup.
	ReadNextEntryOffset(buf []byte, recordStart int) int
	// ReadFileName decodes the record's FileName field back to a string.
	ReadFileName(buf []byte, recordStart int) string
}

func align8(n int) int {
	return (n + 7) &^ 7
}

// NameLengthUTF16 returns the number of UTF-16 code units name encodes to,
// the unit RecordSize expects for its nameLengthUTF16 parameter.
func NameLengthUTF16(name string) int {
	return utf16Len(name)
}

func utf16Len(name string) int {
	return len(utf16.Encode([]rune(name)))
}

func readUTF16Name(buf []byte, offset, lengthBytes int) string {
	units := make([]uint16, lengthBytes/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(buf[offset+i*2:])
	}
	return string(utf16.Decode(units))
}

func writeUTF16Name(buf []byte, offset int, name string) int {
	units := utf16.Encode([]rune(name))
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[offset+i*2:], u)
	}
	return len(units) * 2
}

// fileDirectoryInformationRecord implements FILE_DIRECTORY_INFORMATION.
type fileDirectoryInformationRecord struct{}

const fileDirectoryInformationHeaderSize = 64

func (fileDirectoryInformationRecord) RecordSize(nameLengthUTF16 int) int {
	return align8(fileDirectoryInformationHeaderSize + nameLengthUTF16*2)
}

func (fileDirectoryInformationRecord) WriteNextEntryOffset(buf []byte, recordStart, offset int) {
	binary.LittleEndian.PutUint32(buf[recordStart:], uint32(offset))
}

func (fileDirectoryInformationRecord) WriteFileAttributes(buf []byte, recordStart int, attrs uint32) {
	binary.LittleEndian.PutUint32(buf[recordStart+56:], attrs)
}

func (fileDirectoryInformationRecord) WriteName(buf []byte, recordStart int, name string) {
	n := writeUTF16Name(buf, recordStart+fileDirectoryInformationHeaderSize, name)
	binary.LittleEndian.PutUint32(buf[recordStart+60:], uint32(n))
}

func (fileDirectoryInformationRecord) PopulateFromHandle(buf []byte, recordStart int, meta FileMetadata) {
	binary.LittleEndian.PutUint64(buf[recordStart+8:], uint64(meta.CreationTime))
	binary.LittleEndian.PutUint64(buf[recordStart+16:], uint64(meta.LastAccessTime))
	binary.LittleEndian.PutUint64(buf[recordStart+24:], uint64(meta.LastWriteTime))
	binary.LittleEndian.PutUint64(buf[recordStart+32:], uint64(meta.ChangeTime))
	binary.LittleEndian.PutUint64(buf[recordStart+40:], uint64(meta.EndOfFile))
	binary.LittleEndian.PutUint64(buf[recordStart+48:], uint64(meta.AllocationSize))
	binary.LittleEndian.PutUint32(buf[recordStart+56:], meta.FileAttributes)
}

func (fileDirectoryInformationRecord) ReadNextEntryOffset(buf []byte, recordStart int) int {
	return int(binary.LittleEndian.Uint32(buf[recordStart:]))
}

func (fileDirectoryInformationRecord) ReadFileName(buf []byte, recordStart int) string {
	length := int(binary.LittleEndian.Uint32(buf[recordStart+60:]))
	return readUTF16Name(buf, recordStart+fileDirectoryInformationHeaderSize, length)
}

// fileFullDirectoryInformationRecord implements FILE_FULL_DIR_INFORMATION,
// which adds an EaSize field after FileNameLength.
type fileFullDirectoryInformationRecord struct{}

const fileFullDirectoryInformationHeaderSize = 68

func (fileFullDirectoryInformationRecord) RecordSize(nameLengthUTF16 int) int {
	return align8(fileFullDirectoryInformationHeaderSize + nameLengthUTF16*2)
}

func (fileFullDirectoryInformationRecord) WriteNextEntryOffset(buf []byte, recordStart, offset int) {
	binary.LittleEndian.PutUint32(buf[recordStart:], uint32(offset))
}

func (fileFullDirectoryInformationRecord) WriteFileAttributes(buf []byte, recordStart int, attrs uint32) {
	binary.LittleEndian.PutUint32(buf[recordStart+56:], attrs)
}

func (fileFullDirectoryInformationRecord) WriteName(buf []byte, recordStart int, name string) {
	n := writeUTF16Name(buf, recordStart+fileFullDirectoryInformationHeaderSize, name)
	binary.LittleEndian.PutUint32(buf[recordStart+60:], uint32(n))
}

func (fileFullDirectoryInformationRecord) PopulateFromHandle(buf []byte, recordStart int, meta FileMetadata) {
	binary.LittleEndian.PutUint64(buf[recordStart+8:], uint64(meta.CreationTime))
	binary.LittleEndian.PutUint64(buf[recordStart+16:], uint64(meta.LastAccessTime))
	binary.LittleEndian.PutUint64(buf[recordStart+24:], uint64(meta.LastWriteTime))
	binary.LittleEndian.PutUint64(buf[recordStart+32:], uint64(meta.ChangeTime))
	binary.LittleEndian.PutUint64(buf[recordStart+40:], uint64(meta.EndOfFile))
	binary.LittleEndian.PutUint64(buf[recordStart+48:], uint64(meta.AllocationSize))
	binary.LittleEndian.PutUint32(buf[recordStart+56:], meta.FileAttributes)
	binary.LittleEndian.PutUint32(buf[recordStart+64:], 0) // EaSize: overlay files carry no extended attributes.
}

func (fileFullDirectoryInformationRecord) ReadNextEntryOffset(buf []byte, recordStart int) int {
	return int(binary.LittleEndian.Uint32(buf[recordStart:]))
}

func (fileFullDirectoryInformationRecord) ReadFileName(buf []byte, recordStart int) string {
	length := int(binary.LittleEndian.Uint32(buf[recordStart+60:]))
	return readUTF16Name(buf, recordStart+fileFullDirectoryInformationHeaderSize, length)
}

// fileBothDirectoryInformationRecord implements FILE_BOTH_DIR_INFORMATION,
// which additionally carries a short (8.3) name. Overlay files never have
// one, so ShortNameLength is always written as 0.
type fileBothDirectoryInformationRecord struct{}

const fileBothDirectoryInformationHeaderSize = 94

func (fileBothDirectoryInformationRecord) RecordSize(nameLengthUTF16 int) int {
	return align8(fileBothDirectoryInformationHeaderSize + nameLengthUTF16*2)
}

func (fileBothDirectoryInformationRecord) WriteNextEntryOffset(buf []byte, recordStart, offset int) {
	binary.LittleEndian.PutUint32(buf[recordStart:], uint32(offset))
}

func (fileBothDirectoryInformationRecord) WriteFileAttributes(buf []byte, recordStart int, attrs uint32) {
	binary.LittleEndian.PutUint32(buf[recordStart+56:], attrs)
}

func (fileBothDirectoryInformationRecord) WriteName(buf []byte, recordStart int, name string) {
	n := writeUTF16Name(buf, recordStart+fileBothDirectoryInformationHeaderSize, name)
	binary.LittleEndian.PutUint32(buf[recordStart+60:], uint32(n))
	buf[recordStart+68] = 0 // ShortNameLength
}

func (fileBothDirectoryInformationRecord) PopulateFromHandle(buf []byte, recordStart int, meta FileMetadata) {
	binary.LittleEndian.PutUint64(buf[recordStart+8:], uint64(meta.CreationTime))
	binary.LittleEndian.PutUint64(buf[recordStart+16:], uint64(meta.LastAccessTime))
	binary.LittleEndian.PutUint64(buf[recordStart+24:], uint64(meta.LastWriteTime))
	binary.LittleEndian.PutUint64(buf[recordStart+32:], uint64(meta.ChangeTime))
	binary.LittleEndian.PutUint64(buf[recordStart+40:], uint64(meta.EndOfFile))
	binary.LittleEndian.PutUint64(buf[recordStart+48:], uint64(meta.AllocationSize))
	binary.LittleEndian.PutUint32(buf[recordStart+56:], meta.FileAttributes)
	binary.LittleEndian.PutUint32(buf[recordStart+64:], 0) // EaSize
}

func (fileBothDirectoryInformationRecord) ReadNextEntryOffset(buf []byte, recordStart int) int {
	return int(binary.LittleEndian.Uint32(buf[recordStart:]))
}

func (fileBothDirectoryInformationRecord) ReadFileName(buf []byte, recordStart int) string {
	length := int(binary.LittleEndian.Uint32(buf[recordStart+60:]))
	return readUTF16Name(buf, recordStart+fileBothDirectoryInformationHeaderSize, length)
}

// fileNamesInformationRecord implements FILE_NAMES_INFORMATION, the
// smallest layout: no metadata fields at all, just index and name.
type fileNamesInformationRecord struct{}

const fileNamesInformationHeaderSize = 12

func (fileNamesInformationRecord) RecordSize(nameLengthUTF16 int) int {
	return align8(fileNamesInformationHeaderSize + nameLengthUTF16*2)
}

func (fileNamesInformationRecord) WriteNextEntryOffset(buf []byte, recordStart, offset int) {
	binary.LittleEndian.PutUint32(buf[recordStart:], uint32(offset))
}

func (fileNamesInformationRecord) WriteFileAttributes(buf []byte, recordStart int, attrs uint32) {
	// FILE_NAMES_INFORMATION carries no attributes field; nothing to do.
}

func (fileNamesInformationRecord) WriteName(buf []byte, recordStart int, name string) {
	n := writeUTF16Name(buf, recordStart+fileNamesInformationHeaderSize, name)
	binary.LittleEndian.PutUint32(buf[recordStart+8:], uint32(n))
}

func (fileNamesInformationRecord) PopulateFromHandle(buf []byte, recordStart int, meta FileMetadata) {
	// No fixed metadata fields beyond name/index in this layout.
}

func (fileNamesInformationRecord) ReadNextEntryOffset(buf []byte, recordStart int) int {
	return int(binary.LittleEndian.Uint32(buf[recordStart:]))
}

func (fileNamesInformationRecord) ReadFileName(buf []byte, recordStart int) string {
	length := int(binary.LittleEndian.Uint32(buf[recordStart+8:]))
	return readUTF16Name(buf, recordStart+fileNamesInformationHeaderSize, length)
}

// recordClassFor is the tagged dispatch switch spec.md §9 calls for: no
// virtual/reflective lookup, just a direct mapping from the
// FILE_INFORMATION_CLASS value supplied at hook entry to its RecordClass.
func recordClassFor(class FileInformationClass) (RecordClass, bool) {
	switch class {
	case FileDirectoryInformation:
		return fileDirectoryInformationRecord{}, true
	case FileFullDirectoryInformation:
		return fileFullDirectoryInformationRecord{}, true
	case FileBothDirectoryInformation:
		return fileBothDirectoryInformationRecord{}, true
	case FileNamesInformation:
		return fileNamesInformationRecord{}, true
	default:
		return nil, false
	}
}
