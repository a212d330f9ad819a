package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/gokrazy/unify-gpt/gpt"
	"github.com/gokrazy/unify-gpt/internal/diskio"
	"github.com/spf13/cobra"
)

func run(cmd *cobra.Command, path string, opts *options) error {
	if err := opts.resolved(); err != nil {
		return err
	}

	disk, err := diskio.Open(path)
	if err != nil {
		return err
	}
	defer disk.Close()

	list, err := gpt.ReadList(disk, disk.Size())
	if err != nil {
		return err
	}

	switch {
	case opts.list:
		printList(list)
		return nil

	case opts.add:
		targetShift := blockShiftOf(opts.blockSize)
		if err := gpt.Add(list, targetShift, opts.force); err != nil {
			return err
		}
		if opts.verbose >= 1 {
			log.Printf("adding gpt_%d", opts.blockSize)
		}

	case opts.normalize:
		targetShift := 0
		if cmd.Flags().Changed("block-size") {
			targetShift = blockShiftOf(opts.blockSize)
		}
		nativeShift, haveNative := disk.NativeBlockShift()
		entriesRequested := cmd.Flags().Changed("entries")
		if err := gpt.Normalize(list, targetShift, nativeShift, haveNative, opts.force, entriesRequested); err != nil {
			return err
		}
		if opts.verbose >= 1 {
			for _, shift := range list.ActiveShifts() {
				log.Printf("keeping gpt_%d", 1<<uint(shift))
			}
		}

	default:
		cmd.Usage()
		return fmt.Errorf("exactly one of --list, --add, or --normalize is required")
	}

	primaryEnd, backupStart, err := gpt.CalculateLayout(disk.Size(), list, gpt.LayoutOptions{
		Entries: opts.entries,
		Overlap: opts.overlap,
		Align1M: opts.align1m,
	})
	if err != nil {
		var nes *gpt.NotEnoughSpaceError
		if errors.As(err, &nes) && opts.verbose >= 1 {
			fmt.Printf("%d bytes needed\n", nes.NeedBytes)
		}
		return err
	}

	cache := diskio.NewCache(disk.Size(), primaryEnd, backupStart)
	if err := gpt.WriteList(cache, list); err != nil {
		return err
	}

	if opts.try {
		return nil
	}

	if err := cache.Flush(disk); err != nil {
		return err
	}

	if err := disk.RereadPartitions(); err != nil && opts.verbose >= 1 {
		log.Printf("re-reading partition table failed: %v", err)
	}

	return nil
}

func printList(l *gpt.List) {
	active := l.ActiveShifts()
	if len(active) == 0 {
		fmt.Println("no GPT found")
		return
	}
	for _, shift := range active {
		t := l.PrimaryTable(shift)
		fmt.Printf("gpt_%d: %d partitions, disk guid %s, usable lba %d..%d\n",
			1<<uint(shift), t.UsedEntries, t.Header.DiskGUID, t.Header.FirstUsableLBA, t.Header.LastUsableLBA)
		for i, e := range t.Entries() {
			if !e.Valid() {
				continue
			}
			fmt.Printf("  %2d: %s  lba %d..%d  %q\n", i+1, e.PartitionGUID, e.FirstLBA, e.LastLBA, e.NameString())
		}
	}
}
