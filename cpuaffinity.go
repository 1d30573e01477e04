//go:build linux

package smartcam

import (
	"syscall"
	"unsafe"

	"github.com/cockroachdb/errors"
)

// SetCPUAffinity sets the CPU Affinity mask of the program to run on the
// specified cores
func SetCPUAffinity(mask uintptr) error {

	_, _, errno := syscall.RawSyscall(syscall.SYS_SCHED_SETAFFINITY, 0,
		unsafe.Sizeof(mask), uintptr(unsafe.Pointer(&mask)))

	if errno != 0 {
		return errors.Wrap(errno, "failed to set CPU affinity")
	}

	return nil
}

// GetCPUAffinity gets the current CPU Affinity mask the program is running on
func GetCPUAffinity() (uintptr, error) {

	var mask uintptr

	_, _, errno := syscall.RawSyscall(syscall.SYS_SCHED_GETAFFINITY, 0,
		unsafe.Sizeof(mask), uintptr(unsafe.Pointer(&mask)))

	if errno != 0 {
		return 0, errors.Wrap(errno, "failed to get CPU affinity")
	}

	return mask, nil
}
