//go:build linux

package sysmem

import (
	"golang.org/x/sys/unix"
)

// Available returns an estimate of the physical memory currently available,
// in bytes: free pages plus buffer pages, per sysinfo(2).
func Available() (int, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, err
	}

	free := uint64(info.Freeram) + uint64(info.Bufferram)
	return int(free * uint64(info.Unit)), nil
}
