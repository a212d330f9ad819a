package gpt

import "fmt"

// fakeDisk is an in-memory BlockReader/CacheWriter for table-level tests,
// avoiding any dependency on internal/diskio.
type fakeDisk struct {
	data []byte
}

func newFakeDisk(size uint64) *fakeDisk {
	return &fakeDisk{data: make([]byte, size)}
}

func (f *fakeDisk) ReadAt(offset int64, length int) ([]byte, error) {
	if offset < 0 || int(offset)+length > len(f.data) {
		return nil, fmt.Errorf("fakeDisk: out of range read at %d len %d", offset, length)
	}
	buf := make([]byte, length)
	copy(buf, f.data[offset:int(offset)+length])
	return buf, nil
}

func (f *fakeDisk) Write(offset uint64, data []byte) error {
	if int(offset)+len(data) > len(f.data) {
		return fmt.Errorf("fakeDisk: out of range write at %d len %d", offset, len(data))
	}
	copy(f.data[offset:], data)
	return nil
}

// writeTableTo serializes t's header and entry blocks directly into the fake
// disk at its own CurrentLBA/PartitionLBA, for constructing fixtures that
// ReadTable/ReadList can then parse back.
func (f *fakeDisk) writeTableTo(t *Table) {
	bs := blockSizeOf(t.BlockShift)
	f.Write(t.Header.CurrentLBA*bs, t.HeaderBlock)
	f.Write(t.Header.PartitionLBA*bs, t.EntryBlocks)
}
