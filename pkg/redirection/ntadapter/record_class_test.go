package ntadapter

import (
	"encoding/binary"
	"testing"
)

func TestRecordClassForDispatchesKnownVariants(t *testing.T) {
	cases := []FileInformationClass{
		FileDirectoryInformation,
		FileFullDirectoryInformation,
		FileBothDirectoryInformation,
		FileNamesInformation,
	}
	for _, class := range cases {
		if _, ok := recordClassFor(class); !ok {
			t.Errorf("recordClassFor(%d) not found", class)
		}
	}
}

func TestRecordClassForRejectsUnknownVariant(t *testing.T) {
	if _, ok := recordClassFor(FileInformationClass(999)); ok {
		t.Fatalf("expected unsupported class to be rejected")
	}
}

func TestFileDirectoryInformationRoundTrip(t *testing.T) {
	rc := fileDirectoryInformationRecord{}
	name := "A.BIN"
	size := rc.RecordSize(utf16Len(name))
	buf := make([]byte, size)

	rc.WriteNextEntryOffset(buf, 0, 0)
	rc.WriteFileAttributes(buf, 0, 0x20)
	rc.WriteName(buf, 0, name)
	rc.PopulateFromHandle(buf, 0, FileMetadata{EndOfFile: 1234, FileAttributes: 0x20})

	if got := binary.LittleEndian.Uint32(buf[56:]); got != 0x20 {
		t.Fatalf("FileAttributes = %#x; want 0x20", got)
	}
	if got := binary.LittleEndian.Uint32(buf[60:]); got != uint32(len(name)*2) {
		t.Fatalf("FileNameLength = %d; want %d", got, len(name)*2)
	}
	if got := binary.LittleEndian.Uint64(buf[40:]); got != 1234 {
		t.Fatalf("EndOfFile = %d; want 1234", got)
	}
}

func TestFileNamesInformationHasNoAttributesField(t *testing.T) {
	rc := fileNamesInformationRecord{}
	name := "B.BIN"
	buf := make([]byte, rc.RecordSize(utf16Len(name)))
	rc.WriteName(buf, 0, name)
	if got := binary.LittleEndian.Uint32(buf[8:]); got != uint32(len(name)*2) {
		t.Fatalf("FileNameLength = %d; want %d", got, len(name)*2)
	}
}

func TestRecordSizeAlignedTo8Bytes(t *testing.T) {
	for _, rc := range []RecordClass{
		fileDirectoryInformationRecord{},
		fileFullDirectoryInformationRecord{},
		fileBothDirectoryInformationRecord{},
		fileNamesInformationRecord{},
	} {
		if size := rc.RecordSize(3); size%8 != 0 {
			t.Errorf("%T RecordSize(3) = %d, not 8-byte aligned", rc, size)
		}
	}
}
