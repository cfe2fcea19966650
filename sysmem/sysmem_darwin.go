//go:build darwin

package sysmem

import (
	"golang.org/x/sys/unix"
)

// Available returns total physical memory in bytes. Darwin has no cheap
// available-memory sysctl, so this overestimates; callers scale targets by a
// fraction anyway.
func Available() (int, error) {
	total, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0, err
	}
	return int(total), nil
}
