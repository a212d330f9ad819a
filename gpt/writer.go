package gpt

// CacheWriter is the write side of the staging discipline from spec.md
// §4.8/§5: every byte the engine writes goes through Write, never straight
// to disk. diskio.Cache satisfies this.
type CacheWriter interface {
	Write(offset uint64, data []byte) error
}

// WriteList stages the protective MBR and every active GPT (primary and
// backup) into cache. It never touches the disk directly — Flush does that,
// separately, once every GPT has been staged.
//
// When two backup headers of different block sizes physically share a
// block (the --overlap default), writeTable stages only the HeaderSize bytes
// of each header, so the zero padding of a larger block never overwrites a
// smaller block size's header; this relies on CacheWriter composing
// independent sub-range writes into the same underlying buffer — true of
// diskio.Cache, whose regions are plain byte slices and whose Write only
// copies the bytes given.
func WriteList(cw CacheWriter, l *List) error {
	if err := cw.Write(0, l.PMBR[:512]); err != nil {
		return err
	}

	for shift := MinBlockShift; shift <= MaxBlockShift; shift++ {
		if err := writeTable(cw, l.Primary[idx(shift)]); err != nil {
			return err
		}
		if err := writeTable(cw, l.Backup[idx(shift)]); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(cw CacheWriter, t *Table) error {
	if t == nil || !t.OK {
		return nil
	}
	bs := blockSizeOf(t.BlockShift)
	if err := cw.Write(t.Header.CurrentLBA*bs, t.HeaderBlock[:HeaderSize]); err != nil {
		return err
	}
	if err := cw.Write(t.Header.PartitionLBA*bs, t.EntryBlocks); err != nil {
		return err
	}
	return nil
}
