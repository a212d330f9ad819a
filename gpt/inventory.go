package gpt

// List is the whole disk's GPT state: the protective MBR block, and for
// each supported block size an optional primary and backup Table, per
// spec.md §3.
type List struct {
	PMBR []byte // the 512-byte (or native-block-size) protective MBR block

	// Primary/Backup are indexed by blockShift - MinBlockShift.
	Primary [NumBlockSizes]*Table
	Backup  [NumBlockSizes]*Table

	StartUsed, EndUsed uint64 // bytes
	UsedEntries        int
}

func idx(blockShift int) int { return blockShift - MinBlockShift }

// ReadList probes each supported block size for a (primary, backup) pair
// and aggregates the used byte range across every consistent pair found.
//
// Per spec.md §4.5: a block size is "ok" only if both its primary and backup
// read and validate; a primary that reads but whose backup doesn't is
// recorded as bad rather than aborting the scan, so every bad block size
// can be reported at once (SPEC_FULL.md §6). ReadList is accepted (returns a
// nil error) iff at least one block size is ok and none are bad.
func ReadList(r BlockReader, diskSize uint64) (*List, error) {
	pmbr, err := r.ReadAt(0, 512)
	if err != nil {
		return nil, err
	}

	l := &List{PMBR: pmbr}

	var badShifts []int
	haveUsedRange := false

	for shift := MinBlockShift; shift <= MaxBlockShift; shift++ {
		primary, present, err := ReadTable(r, shift, 1)
		if err != nil {
			return nil, err
		}
		if !present {
			continue
		}

		backup, present, err := ReadTable(r, shift, primary.Header.BackupLBA)
		if err != nil {
			return nil, err
		}
		consistent := present &&
			backup.Header.CurrentLBA == primary.Header.BackupLBA &&
			backup.Header.BackupLBA == 1
		if !consistent {
			badShifts = append(badShifts, shift)
			continue
		}

		l.Primary[idx(shift)] = primary
		l.Backup[idx(shift)] = backup

		for _, e := range primary.Entries() {
			if !e.Valid() {
				continue
			}
			start, end := primary.byteRange(e)
			if !haveUsedRange || start < l.StartUsed {
				l.StartUsed = start
			}
			if !haveUsedRange || end > l.EndUsed {
				l.EndUsed = end
			}
			haveUsedRange = true
		}
		if primary.UsedEntries > l.UsedEntries {
			l.UsedEntries = primary.UsedEntries
		}
	}

	if len(badShifts) > 0 {
		return nil, &UnsupportedLayoutError{BadBlockShifts: badShifts}
	}

	return l, nil
}

// ActiveShifts returns every block shift with an OK primary, ascending.
func (l *List) ActiveShifts() []int {
	var out []int
	for shift := MinBlockShift; shift <= MaxBlockShift; shift++ {
		if p := l.Primary[idx(shift)]; p != nil && p.OK {
			out = append(out, shift)
		}
	}
	return out
}

// PrimaryTable returns the primary Table for blockShift, or nil.
func (l *List) PrimaryTable(blockShift int) *Table {
	return l.Primary[idx(blockShift)]
}

// Has reports whether a GPT exists for blockShift.
func (l *List) Has(blockShift int) bool {
	return l.Primary[idx(blockShift)] != nil
}

// SmallestShift returns the smallest active block shift, and whether any
// GPT exists at all.
func (l *List) SmallestShift() (int, bool) {
	shifts := l.ActiveShifts()
	if len(shifts) == 0 {
		return 0, false
	}
	return shifts[0], true
}
