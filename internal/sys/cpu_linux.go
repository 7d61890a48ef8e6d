//go:build linux

package sys

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// PinToCore locks the calling goroutine to its OS thread and pins that
// thread to coreID, so the engine's hot ingest loop doesn't migrate
// across cores under scheduler pressure.
func PinToCore(coreID int) error {
	runtime.LockOSThread()

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(coreID)

	return unix.SchedSetaffinity(0, &mask)
}
