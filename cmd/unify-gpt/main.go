// Binary unify-gpt reads the GUID Partition Table(s) on a disk image or
// block device and can add a GPT for an additional logical block size, or
// normalize a disk down to a single GPT, while preserving every existing
// partition's byte range exactly.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
