package diskio

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// deviceSize returns the size of the block device backing fd, in bytes.
func deviceSize(fd uintptr) (uint64, error) {
	var devsize uint64
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, unix.BLKGETSIZE64, uintptr(unsafe.Pointer(&devsize))); errno != 0 {
		return 0, errno
	}
	return devsize, nil
}

// nativeBlockSize returns the device's reported logical block (sector) size.
func nativeBlockSize(fd uintptr) (uint32, error) {
	var blksize uint32
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, unix.BLKSSZGET, uintptr(unsafe.Pointer(&blksize))); errno != 0 {
		return 0, errno
	}
	return blksize, nil
}

// rereadPartitions asks the kernel to re-scan the partition table, the same
// ioctl sequence fdisk(8) issues after writing a new table.
func rereadPartitions(fd uintptr) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, unix.BLKRRPART, 0); errno != 0 {
		return errno
	}
	return nil
}
