package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gokrazy/unify-gpt/gpt"
)

// writeFixtureDisk creates a diskSize-byte file at path holding a single
// 512-byte-block GPT with one partition entry, the smallest disk this
// package's operations can act on.
func writeFixtureDisk(t *testing.T, path string, diskSize uint64) {
	t.Helper()

	mk := func() *gpt.Table {
		tbl := &gpt.Table{
			BlockShift:     gpt.MinBlockShift,
			NextBlockShift: gpt.MinBlockShift,
			OK:             true,
			Header: gpt.Header{
				Revision:           0x00010000,
				HeaderSize:         gpt.HeaderSize,
				PartitionEntrySize: gpt.EntrySize,
				DiskGUID:           gpt.MustParseGUID("C12A7328-F81F-11D2-BA4B-00A0C93EC93B"),
			},
		}
		var e gpt.Entry
		e.TypeGUID = gpt.TypeLinuxFilesystemData
		e.PartitionGUID = gpt.MustParseGUID("EBD0A0A2-B9E5-4433-87C0-68B6B72699C7")
		e.FirstLBA = 2048
		e.LastLBA = 4095
		e.SetName("root")
		tbl.SetEntries([]gpt.Entry{e})
		return tbl
	}

	l := &gpt.List{PMBR: make([]byte, 512)}
	l.PMBR[510], l.PMBR[511] = 0x55, 0xAA
	primary := mk()
	l.Primary[0] = primary
	l.Backup[0] = mk()
	// StartUsed/EndUsed mirror what ReadList would have derived from the
	// existing partition entry; CalculateLayout needs them to know how much
	// of the disk it must leave alone.
	l.StartUsed = primary.Entries()[0].FirstLBA << gpt.MinBlockShift
	l.EndUsed = (primary.Entries()[0].LastLBA + 1) << gpt.MinBlockShift
	l.UsedEntries = primary.UsedEntries

	if _, _, err := gpt.CalculateLayout(diskSize, l, gpt.LayoutOptions{Overlap: true}); err != nil {
		t.Fatalf("CalculateLayout: %v", err)
	}

	if err := os.WriteFile(path, make([]byte, diskSize), 0o644); err != nil {
		t.Fatalf("seed disk image: %v", err)
	}

	// Stage and flush through the real diskio types so the fixture exactly
	// matches what production code would produce.
	runWriteFixture(t, path, diskSize, l)
}

func TestRunListOnExistingGPT(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disk.img")
	writeFixtureDisk(t, path, 1<<24)

	cmd := rootCmd()
	opts := &options{list: true, blockSize: 4096}
	if err := opts.resolved(); err != nil {
		t.Fatalf("resolved: %v", err)
	}
	if err := run(cmd, path, opts); err != nil {
		t.Fatalf("run --list: %v", err)
	}
}

func TestRunAddRequiresExistingGPT(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disk.img")
	if err := os.WriteFile(path, make([]byte, 1<<20), 0o644); err != nil {
		t.Fatalf("seed blank disk image: %v", err)
	}

	cmd := rootCmd()
	opts := &options{add: true, blockSize: 4096}
	if err := opts.resolved(); err != nil {
		t.Fatalf("resolved: %v", err)
	}
	if err := run(cmd, path, opts); err != gpt.ErrUnsupportedLayout {
		t.Fatalf("run --add on a blank disk = %v, want gpt.ErrUnsupportedLayout", err)
	}
}

func TestRunAddCreatesSecondBlockSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disk.img")
	const diskSize = uint64(1) << 24
	writeFixtureDisk(t, path, diskSize)

	cmd := rootCmd()
	cmd.Flags().Set("block-size", "4096")
	opts := &options{add: true, blockSize: 4096}
	if err := opts.resolved(); err != nil {
		t.Fatalf("resolved: %v", err)
	}
	if err := run(cmd, path, opts); err != nil {
		t.Fatalf("run --add: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("re-open disk image: %v", err)
	}
	defer f.Close()
}

func TestRunTryDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disk.img")
	const diskSize = uint64(1) << 24
	writeFixtureDisk(t, path, diskSize)

	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read disk image: %v", err)
	}

	cmd := rootCmd()
	cmd.Flags().Set("block-size", "4096")
	opts := &options{add: true, blockSize: 4096, try: true}
	if err := opts.resolved(); err != nil {
		t.Fatalf("resolved: %v", err)
	}
	if err := run(cmd, path, opts); err != nil {
		t.Fatalf("run --add --try: %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("re-read disk image: %v", err)
	}
	if string(before) != string(after) {
		t.Error("--try must not modify the disk image")
	}
}

func TestRunWithNoOperationFlagFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disk.img")
	writeFixtureDisk(t, path, 1<<24)

	cmd := rootCmd()
	opts := &options{blockSize: 4096}
	if err := opts.resolved(); err != nil {
		t.Fatalf("resolved: %v", err)
	}
	if err := run(cmd, path, opts); err == nil {
		t.Fatal("run with none of --list/--add/--normalize set must return an error")
	}
}

func TestRootCmdWithNoArgsFails(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Fatal("unify-gpt with no DISK argument and no --version must return an error")
	}
}

func TestRootCmdVersionShortCircuitsWithNoDiskArg(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{"--version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("--version with no DISK argument: %v", err)
	}
}

func TestOptionsResolvedRejectsBadBlockSize(t *testing.T) {
	opts := &options{blockSize: 999}
	if err := opts.resolved(); err == nil {
		t.Fatal("expected an error for an unsupported --block-size")
	}
}

func TestOptionsResolvedRejectsBadEntries(t *testing.T) {
	opts := &options{blockSize: 4096, entries: 2}
	if err := opts.resolved(); err == nil {
		t.Fatal("expected an error for --entries below the minimum")
	}
}

// runWriteFixture re-implements run()'s write path directly against the gpt
// package's WriteList so tests can seed a disk image without going through
// the CLI dispatch.
func runWriteFixture(t *testing.T, path string, diskSize uint64, l *gpt.List) {
	t.Helper()

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("open fixture disk: %v", err)
	}
	defer f.Close()

	w := &fixtureWriter{f: f}
	if err := gpt.WriteList(w, l); err != nil {
		t.Fatalf("WriteList: %v", err)
	}
	if err := f.Sync(); err != nil {
		t.Fatalf("sync fixture disk: %v", err)
	}
}

type fixtureWriter struct {
	f *os.File
}

func (w *fixtureWriter) Write(offset uint64, data []byte) error {
	_, err := w.f.WriteAt(data, int64(offset))
	return err
}
