//go:build windows

package sysmem

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// Available returns the physical memory currently available in bytes, per
// GlobalMemoryStatusEx.
func Available() (int, error) {
	var status windows.MemoryStatusEx
	status.Length = uint32(unsafe.Sizeof(status))

	if err := windows.GlobalMemoryStatusEx(&status); err != nil {
		return 0, err
	}
	return int(status.AvailPhys), nil
}
