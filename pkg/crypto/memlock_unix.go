//go:build linux || darwin

package crypto

import "golang.org/x/sys/unix"

// Lock pins the pages backing b in RAM so key material is not swapped out.
func Lock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Mlock(b)
}

// Unlock releases a previous Lock.
func Unlock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Munlock(b)
}
