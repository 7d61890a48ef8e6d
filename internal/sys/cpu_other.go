//go:build !linux

package sys

// PinToCore is a no-op on non-Linux platforms; CPU affinity is a Linux
// scheduler concept that golang.org/x/sys/unix doesn't expose elsewhere.
func PinToCore(coreID int) error {
	return nil
}
