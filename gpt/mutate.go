package gpt

// Add clones the smallest-shift existing GPT into targetShift, for both the
// primary and backup Table, per spec.md §4.7. It refuses if a GPT already
// exists for targetShift. Misaligned partitions fail unless force is set.
//
// The resulting Tables have OK=true but their position fields (CurrentLBA,
// PartitionLBA, First/LastUsableLBA) and CRCs are placeholders — call
// CalculateLayout afterward to fix those across every active block size.
func Add(l *List, targetShift int, force bool) error {
	if l.Has(targetShift) {
		return ErrAlreadyExists
	}

	smallest, ok := l.SmallestShift()
	if !ok {
		return ErrUnsupportedLayout
	}
	source := l.Primary[idx(smallest)]

	primary, err := CloneAt(source, targetShift, force)
	if err != nil {
		return err
	}
	backup, err := CloneAt(source, targetShift, force)
	if err != nil {
		return err
	}

	l.Primary[idx(targetShift)] = primary
	l.Backup[idx(targetShift)] = backup
	return nil
}

// Normalize keeps only the GPT at targetShift (0 means "the disk's native
// block shift, or failing that the smallest existing GPT's shift"),
// clearing OK on every other active Table so Writer skips them, per
// spec.md §4.7.
func Normalize(l *List, targetShift int, nativeShift int, haveNativeShift bool, force bool, entriesRequested bool) error {
	active := l.ActiveShifts()

	if targetShift == 0 {
		if haveNativeShift {
			targetShift = nativeShift
		} else if len(active) > 0 {
			targetShift = active[0]
		}
	}

	if len(active) == 1 && !force && !entriesRequested {
		return ErrNothingToDo
	}
	if !l.Has(targetShift) {
		return ErrUnsupportedLayout
	}

	for _, u := range active {
		if u != targetShift {
			l.Primary[idx(u)].OK = false
			l.Backup[idx(u)].OK = false
		}
	}
	return nil
}
