//go:build !linux && !darwin

package diskio

func deviceSize(fd uintptr) (uint64, error) {
	return 0, errMissingOSSupport("getting device sizes")
}

func nativeBlockSize(fd uintptr) (uint32, error) {
	return 0, errMissingOSSupport("getting the native logical block size")
}

func rereadPartitions(fd uintptr) error {
	return errMissingOSSupport("re-reading partition tables")
}
