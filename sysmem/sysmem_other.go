//go:build !linux && !windows && !darwin

package sysmem

// Available returns ErrUnsupported on platforms without a host memory query.
func Available() (int, error) {
	return 0, ErrUnsupported
}
