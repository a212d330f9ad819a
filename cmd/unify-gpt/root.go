package main

import (
	"fmt"

	"github.com/gokrazy/unify-gpt/internal/version"
	"github.com/spf13/cobra"
)

type options struct {
	list      bool
	add       bool
	normalize bool

	blockSize int
	entries   int
	verbose   int

	overlap   bool
	noOverlap bool
	align1m   bool
	noAlign1m bool

	force bool
	try   bool

	showVersion bool
}

func rootCmd() *cobra.Command {
	opts := &options{overlap: true}

	cmd := &cobra.Command{
		Use:           "unify-gpt DISK",
		Short:         "Read, add, and normalize multi-block-size GUID Partition Tables",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Println(version.Read())
				return nil
			}
			if len(args) != 1 {
				cmd.Usage()
				return fmt.Errorf("exactly one DISK argument is required")
			}
			return run(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.list, "list", "l", false, "discover and print GPTs; no writes")
	flags.BoolVarP(&opts.add, "add", "a", false, "add a GPT for --block-size")
	flags.BoolVarP(&opts.normalize, "normalize", "n", false, "keep only one GPT")
	flags.IntVarP(&opts.blockSize, "block-size", "b", 4096, "target block size (512, 1024, 2048, or 4096)")
	flags.IntVarP(&opts.entries, "entries", "e", 0, "partition entry count (4..1024); 0 keeps the default of 128")
	flags.CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity")
	flags.BoolVar(&opts.overlap, "overlap", true, "let backup GPT headers of different block sizes share disk blocks")
	flags.BoolVar(&opts.noOverlap, "no-overlap", false, "place every backup GPT header in its own block")
	flags.BoolVar(&opts.align1m, "align-1m", false, "align the first usable LBA to a 1 MiB boundary")
	flags.BoolVar(&opts.noAlign1m, "no-align-1m", false, "do not align the first usable LBA to a 1 MiB boundary (default)")
	flags.BoolVar(&opts.force, "force", false, "permit rounding up misaligned partition ends")
	flags.BoolVar(&opts.try, "try", false, "compute the layout but do not write")
	flags.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	return cmd
}

// resolved applies the --no-overlap/--no-align-1m overrides and validates
// the block-size and entry-count flags, per spec.md §6.
func (o *options) resolved() error {
	if o.noOverlap {
		o.overlap = false
	}
	if o.noAlign1m {
		o.align1m = false
	}

	switch o.blockSize {
	case 512, 1024, 2048, 4096:
	default:
		return fmt.Errorf("--block-size must be one of 512, 1024, 2048, 4096, got %d", o.blockSize)
	}

	if o.entries != 0 && (o.entries < 4 || o.entries > 1024) {
		return fmt.Errorf("--entries must be between 4 and 1024, got %d", o.entries)
	}

	return nil
}

func blockShiftOf(blockSize int) int {
	shift := 0
	for v := blockSize; v > 1; v >>= 1 {
		shift++
	}
	return shift
}
