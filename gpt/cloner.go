package gpt

// CloneAt produces a new Table for targetShift from g by rescaling every
// used entry's LBA range, per spec.md §4.4. The clone's header positions
// (CurrentLBA, BackupLBA, PartitionLBA, First/LastUsableLBA) and CRCs are
// not yet meaningful — the layout calculator fixes those once every active
// block size's placement is known.
//
// force controls what happens when a partition's byte range doesn't land on
// a target-block-size boundary: without force, CloneAt fails with
// MisalignedStartError/MisalignedEndError; with force, the boundary is
// rounded up to the next target block (a rounded-up end grows the
// partition slightly, a rounded-up start moves its beginning later).
func CloneAt(g *Table, targetShift int, force bool) (*Table, error) {
	srcEntries := g.Entries()
	dstEntries := make([]Entry, g.UsedEntries)

	for i := 0; i < g.UsedEntries; i++ {
		e := srcEntries[i]
		if e.Zero() || !e.Valid() {
			dstEntries[i] = e
			continue
		}

		startBytes := e.FirstLBA << uint(g.BlockShift)
		if startBytes%blockSizeOf(targetShift) != 0 {
			if !force {
				return nil, &MisalignedStartError{Index: i, BlockShift: targetShift}
			}
			startBytes = alignUp(startBytes, uint(targetShift))
		}

		endBytes := (e.LastLBA + 1) << uint(g.BlockShift)
		if endBytes%blockSizeOf(targetShift) != 0 {
			if !force {
				return nil, &MisalignedEndError{Index: i, BlockShift: targetShift}
			}
			endBytes = alignUp(endBytes, uint(targetShift))
		}

		e.FirstLBA = startBytes >> uint(targetShift)
		e.LastLBA = (endBytes >> uint(targetShift)) - 1
		dstEntries[i] = e
	}

	t := &Table{
		BlockShift:     targetShift,
		NextBlockShift: targetShift,
		OK:             true,
		Header: Header{
			Revision:           g.Header.Revision,
			HeaderSize:         HeaderSize,
			DiskGUID:           g.Header.DiskGUID,
			PartitionEntrySize: EntrySize,
			PartitionEntries:   g.Header.PartitionEntries,
		},
	}
	t.SetEntries(dstEntries)
	return t, nil
}
