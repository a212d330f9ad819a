package gpt

// LayoutOptions controls the behavior of CalculateLayout, mirroring the CLI
// flags in spec.md §6.
type LayoutOptions struct {
	// Entries is the requested partition-entry count. 0 means the default
	// of 128; it is always rounded up to at least List.UsedEntries and to
	// whatever alignment the largest active block size requires.
	Entries int
	// Overlap lets backup GPT headers of different block sizes physically
	// share the disk's last blocks at different in-block offsets (default
	// true). false keeps every backup header in its own, non-overlapping
	// block.
	Overlap bool
	// Align1M nudges the first usable LBA up to the next 1 MiB boundary
	// when doing so still leaves room for the existing used region.
	Align1M bool
}

// CalculateLayout is the core algorithm from spec.md §4.6: given every
// active GPT in l (Primary[*].OK / Backup[*].OK), place primary headers at
// LBA 1 of each active block size, interleave their entry arrays forward
// from the start, mirror the backup arrays and backup headers backward from
// the end, then compute the common first/last usable LBA. It mutates every
// active Table in l in place (header fields, entry/header blocks, CRCs) and
// returns the two staging-cache region boundaries writer.go needs.
func CalculateLayout(diskSize uint64, l *List, opts LayoutOptions) (primaryEnd, backupStart uint64, err error) {
	active := l.ActiveShifts()
	if len(active) == 0 {
		return 0, 0, nil
	}

	entries := opts.Entries
	if entries == 0 {
		entries = 128
	}
	if entries < l.UsedEntries {
		entries = l.UsedEntries
	}

	maxShift := active[len(active)-1]
	assignNextShifts(l, active)

	// Round entries up so entries*128 is a multiple of the largest active
	// block size; this guarantees it's also a multiple of every smaller
	// active block size.
	entries = int(alignUp(uint64(entries)<<7, uint(maxShift)) >> 7)

	// 1st: backup header placement, descending from the disk's end.
	tableEnd := diskSize
	for _, u := range active {
		if opts.Overlap {
			tableEnd = diskSize
		}
		tableEnd = alignDown(tableEnd, uint(u)) - blockSizeOf(u)
		l.Primary[idx(u)].Header.BackupLBA = tableEnd >> uint(u)
	}

	// 2nd: primary entry arrays ascending from the start, backup entry
	// arrays ascending (but physically descending) from where the backup
	// headers left off.
	tableOfs := uint64(2) << uint(maxShift)
	for _, u := range active {
		primary := l.Primary[idx(u)]
		backup := l.Backup[idx(u)]

		tableOfs = alignUp(tableOfs, uint(u))
		primary.Header.PartitionLBA = tableOfs >> uint(u)
		primary.Header.CurrentLBA = 1

		tableSize := alignUp(uint64(entries)<<7, uint(primary.NextBlockShift))
		realEntries := uint32(tableSize >> 7)

		primary.Header.PartitionEntries = realEntries
		resizeEntries(primary, tableSize)

		backupLBA := primary.Header.BackupLBA

		backup.Header.PartitionEntries = realEntries
		backup.Header.CurrentLBA = backupLBA
		backup.Header.BackupLBA = 1

		tableEnd = alignDown(tableEnd, uint(u))
		// The backup array must end up above this block size's primary
		// array; anything less means the disk is too small (and the
		// subtraction below would wrap around).
		if tableEnd < tableOfs+2*tableSize {
			return 0, 0, &NotEnoughSpaceError{NeedBytes: tableOfs + 2*tableSize - tableEnd}
		}
		backup.Header.PartitionLBA = (tableEnd - tableSize) >> uint(u)
		resizeEntries(backup, tableSize)

		tableOfs += tableSize
		tableEnd -= tableSize
	}
	primaryEnd = tableOfs
	backupStart = tableEnd

	// 3rd: usable-range computation.
	firstFree := alignUp(tableOfs, uint(maxShift))
	endFree := alignDown(tableEnd, uint(maxShift))

	if opts.Align1M {
		firstFree1M := alignUp(firstFree, 20)
		if l.StartUsed >= firstFree1M {
			firstFree = firstFree1M
		}
	}

	if firstFree > l.StartUsed || endFree < l.EndUsed {
		var need uint64
		if firstFree > l.StartUsed {
			need = firstFree - l.StartUsed
		}
		if endFree < l.EndUsed {
			if shortfall := l.EndUsed - endFree; shortfall > need {
				need = shortfall
			}
		}
		return 0, 0, &NotEnoughSpaceError{NeedBytes: need}
	}

	// 4th: assign first/last usable LBA, identical across every active
	// block size's byte range.
	for _, u := range active {
		first := firstFree >> uint(u)
		last := (endFree >> uint(u)) - 1
		l.Primary[idx(u)].Header.FirstUsableLBA = first
		l.Primary[idx(u)].Header.LastUsableLBA = last
		l.Backup[idx(u)].Header.FirstUsableLBA = first
		l.Backup[idx(u)].Header.LastUsableLBA = last
	}

	// 5th: re-serialize header blocks (recomputes each HeaderCRC32).
	for _, u := range active {
		l.Primary[idx(u)].HeaderBlock = l.Primary[idx(u)].Header.encode(blockSizeOf(u))
		l.Backup[idx(u)].HeaderBlock = l.Backup[idx(u)].Header.encode(blockSizeOf(u))
	}

	UpdateProtectiveMBR(l, diskSize, active)

	return primaryEnd, backupStart, nil
}

// assignNextShifts sets NextBlockShift on every active primary/backup Table:
// the block shift of the next larger active block size, or its own shift if
// it's the largest. layout.go's entry-array sizing uses this so that the
// array for one block size always ends on a block boundary of the next
// one's header.
func assignNextShifts(l *List, active []int) {
	for i, u := range active {
		next := u
		if i+1 < len(active) {
			next = active[i+1]
		}
		l.Primary[idx(u)].NextBlockShift = next
		l.Backup[idx(u)].NextBlockShift = next
	}
}

// resizeEntries replaces t.EntryBlocks with a zero-padded buffer of size
// bytes (preserving existing entries up to the overlap) and recomputes the
// partition-array CRC and derived used-entry facts.
func resizeEntries(t *Table, size uint64) {
	buf := make([]byte, size)
	copy(buf, t.EntryBlocks)
	t.EntryBlocks = buf
	t.recomputeUsed()
}
