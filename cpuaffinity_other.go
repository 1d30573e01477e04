//go:build !linux

package smartcam

import (
	"github.com/cockroachdb/errors"
)

// SetCPUAffinity is only supported on linux
func SetCPUAffinity(mask uintptr) error {
	return errors.New("CPU affinity not supported on this platform")
}

// GetCPUAffinity is only supported on linux
func GetCPUAffinity() (uintptr, error) {
	return 0, errors.New("CPU affinity not supported on this platform")
}
