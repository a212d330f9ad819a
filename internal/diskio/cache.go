package diskio

import "fmt"

// region is one of the two staging buffers: a contiguous byte range of the
// disk that will be overwritten in one shot at commit time.
type region struct {
	start uint64
	buf   []byte
}

func (r *region) contains(offset uint64, length int) bool {
	return offset >= r.start && offset+uint64(length) <= r.start+uint64(len(r.buf))
}

func (r *region) put(offset uint64, data []byte) {
	copy(r.buf[offset-r.start:], data)
}

// Cache is the two-region write-through staging buffer described in spec.md
// §4.8/§5: every byte the engine writes is staged into one of two regions in
// memory; only Flush performs real disk writes, and only after every GPT and
// the protective MBR have been staged. This bounds the window in which a
// crash can produce a half-written disk to the two Flush writes themselves.
type Cache struct {
	regions [2]region
}

// NewCache pre-allocates the two regions: [0, primaryEnd) and
// [backupStart, diskSize).
func NewCache(diskSize, primaryEnd, backupStart uint64) *Cache {
	return &Cache{
		regions: [2]region{
			{start: 0, buf: make([]byte, primaryEnd)},
			{start: backupStart, buf: make([]byte, diskSize-backupStart)},
		},
	}
}

// Write routes data to the unique region that fully contains
// [offset, offset+len(data)). A write crossing a region boundary, or lying
// outside both regions, is a programming error in the caller (the layout
// calculator is responsible for never producing such an offset) and is
// reported rather than silently corrupting neighboring bytes.
func (c *Cache) Write(offset uint64, data []byte) error {
	for i := range c.regions {
		if c.regions[i].contains(offset, len(data)) {
			c.regions[i].put(offset, data)
			return nil
		}
	}
	return fmt.Errorf("diskio: cache write at [%d, %d) does not fit in either staged region", offset, offset+uint64(len(data)))
}

// Flush issues the two real disk writes, one per region, in order, followed
// by a durable fsync. Readers after a successful Flush see either both
// regions fully up to date or (if Flush never returns, e.g. the process is
// killed mid-write) the disk untouched for whichever region didn't complete
// — CRC validation on the next read detects any half-written region and
// refuses to load it, per spec.md §3/§5.
func (c *Cache) Flush(d *Disk) error {
	for i := range c.regions {
		if len(c.regions[i].buf) == 0 {
			continue
		}
		if err := d.WriteAt(int64(c.regions[i].start), c.regions[i].buf); err != nil {
			return err
		}
	}
	return d.Sync()
}
