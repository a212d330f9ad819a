package gpt

// BlockReader is the read side of the disk surface the gpt engine needs.
// diskio.Disk satisfies this; tests can substitute an in-memory fake.
type BlockReader interface {
	ReadAt(offset int64, length int) ([]byte, error)
}

// ReadTable parses and validates a (header, entry array) pair at the given
// block size and starting LBA, per spec.md §4.3. It returns (nil, false,
// nil) for any non-fatal rejection (wrong signature, bad sizes, bad CRC) —
// the caller treats that as "no GPT at this block size". The only error
// return is an I/O failure, which is fatal.
func ReadTable(r BlockReader, blockShift int, startBlock uint64) (*Table, bool, error) {
	blockSize := blockSizeOf(blockShift)

	headerBlock, err := r.ReadAt(int64(startBlock*blockSize), int(blockSize))
	if err != nil {
		return nil, false, err
	}

	if getU64LE(headerBlock[offSignature:]) != gptSignature {
		return nil, false, nil
	}

	h := decodeHeader(headerBlock)
	if h.HeaderSize != HeaderSize {
		return nil, false, nil
	}
	if h.PartitionEntrySize != EntrySize {
		return nil, false, nil
	}
	if h.PartitionEntries < MinPartitionEntries || h.PartitionEntries > MaxPartitionEntries {
		return nil, false, nil
	}
	if h.CurrentLBA != startBlock {
		return nil, false, nil
	}
	if !verifyHeaderCRC(headerBlock) {
		return nil, false, nil
	}

	entryBytes := int(h.PartitionEntries) * EntrySize
	entryBlocks, err := r.ReadAt(int64(h.PartitionLBA*blockSize), entryBytes)
	if err != nil {
		return nil, false, err
	}
	if crc32IEEE(entryBlocks) != h.PartitionCRC32 {
		return nil, false, nil
	}

	t := &Table{
		HeaderBlock:    headerBlock,
		EntryBlocks:    entryBlocks,
		Header:         h,
		BlockShift:     blockShift,
		NextBlockShift: blockShift,
		OK:             true,
	}
	t.recomputeUsed()
	return t, true, nil
}
