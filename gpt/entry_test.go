package gpt

import "testing"

func TestEntryEncodeDecodeRoundTrip(t *testing.T) {
	var e Entry
	e.TypeGUID = TypeLinuxFilesystemData
	e.PartitionGUID = MustParseGUID("EBD0A0A2-B9E5-4433-87C0-68B6B72699C7")
	e.FirstLBA = 2048
	e.LastLBA = 4095
	e.Attributes = AttrSystem | AttrBoot
	e.SetName("root")

	got := decodeEntry(encodeEntry(e))
	if got != e {
		t.Fatalf("decodeEntry(encodeEntry(e)) = %+v, want %+v", got, e)
	}
	if got.NameString() != "root" {
		t.Errorf("NameString() = %q, want root", got.NameString())
	}
}

func TestEntryZeroAndValid(t *testing.T) {
	var zero Entry
	if !zero.Zero() {
		t.Error("zero-value entry should be Zero()")
	}
	if zero.Valid() {
		t.Error("zero-value entry should not be Valid()")
	}

	var e Entry
	e.FirstLBA, e.LastLBA = 100, 199
	if e.Zero() {
		t.Error("entry with a range should not be Zero()")
	}
	if !e.Valid() {
		t.Error("FirstLBA < LastLBA should be Valid()")
	}
	if got, want := e.Size(), uint64(100); got != want {
		t.Errorf("Size() = %d, want %d", got, want)
	}

	var equalBounds Entry
	equalBounds.FirstLBA, equalBounds.LastLBA = 5, 5
	if equalBounds.Valid() {
		t.Error("FirstLBA == LastLBA should not be Valid()")
	}
}

func TestSetNameTooLong(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for an over-long partition name")
		}
	}()
	var e Entry
	long := ""
	for i := 0; i < 37; i++ {
		long += "x"
	}
	e.SetName(long)
}
