package gpt

import (
	"crypto/rand"
	"fmt"
	"io"
)

// GUID is a 16-byte little-endian-mixed GUID as used throughout UEFI: the
// first three fields (time-low, time-mid, time-high-and-version) are stored
// little-endian, the remaining 8 bytes (clock-seq + node) are stored as-is.
type GUID [16]byte

// ParseGUID parses the canonical "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" text
// form, matching the encoding gokrazy-tools' mustParseGUID builds (Intel EFI
// spec, Appendix A: GUID and Time Formats).
func ParseGUID(s string) (GUID, error) {
	var (
		timeLow                 uint32
		timeMid                 uint16
		timeHighAndVersion      uint16
		clockSeqHighAndReserved uint8
		clockSeqLow             uint8
		node                    []byte
	)
	n, err := fmt.Sscanf(s,
		"%08x-%04x-%04x-%02x%02x-%012x",
		&timeLow, &timeMid, &timeHighAndVersion,
		&clockSeqHighAndReserved, &clockSeqLow, &node)
	if err != nil || n != 6 || len(node) != 6 {
		return GUID{}, fmt.Errorf("gpt: invalid GUID %q", s)
	}

	var g GUID
	putU32LE(g[0:4], timeLow)
	putU16LE(g[4:6], timeMid)
	putU16LE(g[6:8], timeHighAndVersion)
	g[8] = clockSeqHighAndReserved
	g[9] = clockSeqLow
	copy(g[10:], node)
	return g, nil
}

// MustParseGUID is ParseGUID but panics on error, for use with constant GUID
// literals (partition type GUIDs) where a parse failure is a programming
// error.
func MustParseGUID(s string) GUID {
	g, err := ParseGUID(s)
	if err != nil {
		panic(err)
	}
	return g
}

// String renders the canonical text form.
func (g GUID) String() string {
	return fmt.Sprintf("%08X-%04X-%04X-%02X%02X-%012X",
		getU32LE(g[0:4]), getU16LE(g[4:6]), getU16LE(g[6:8]),
		g[8], g[9], g[10:16])
}

// IsZero reports whether every byte of the GUID is zero.
func (g GUID) IsZero() bool { return g == GUID{} }

// NewRandomGUID generates a random version-4 GUID, following the same
// bit-twiddle systemd/gokrazy-tools' randomMachineId uses to turn 16 random
// bytes into a valid v4 UUID: set the version nibble to 4 and the variant
// bits to DCE (10xxxxxx).
func NewRandomGUID() (GUID, error) {
	return newRandomGUID(rand.Reader)
}

func newRandomGUID(r io.Reader) (GUID, error) {
	var g GUID
	if _, err := io.ReadFull(r, g[:]); err != nil {
		return GUID{}, fmt.Errorf("gpt: reading random bytes: %w", err)
	}
	g[6] = (g[6] & 0x0F) | 0x40
	g[8] = (g[8] & 0x3F) | 0x80
	return g, nil
}

// Well-known partition type GUIDs, as used by gokrazy-tools' writeGPT.
var (
	TypeEFISystemPartition      = MustParseGUID("C12A7328-F81F-11D2-BA4B-00A0C93EC93B")
	TypeLinuxFilesystemData     = MustParseGUID("0FC63DAF-8483-4772-8E79-3D69D8477DE4")
	TypeLinuxRootPartitionAMD64 = MustParseGUID("4F68BCE3-E8CD-4DB1-96E7-FBCAF984B709")
	TypeLinuxRootPartitionARM64 = MustParseGUID("B921B045-1DF0-41C3-AF44-4C6F280D3FAE")
)
