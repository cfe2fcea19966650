package blocks

// AllocateFunc acquires a backing buffer of exactly size bytes. Implementations
// must return ErrOutOfMemory (possibly wrapped) when the request cannot be
// satisfied, and must not return a short buffer.
//
// The List calls its AllocateFunc for every block acquisition, so consumers can
// inject allocators that meter, cap, or deliberately fail requests.
type AllocateFunc func(size int) ([]byte, error)

const pageSize = 4096

// HeapAllocate is the default AllocateFunc. It acquires the buffer from the Go
// heap and writes one byte per page so the operating system commits the pages
// immediately rather than on first use. Committed pages are what external
// memory monitors observe, which is the entire point of this module.
func HeapAllocate(size int) ([]byte, error) {
	mem := make([]byte, size)
	for i := 0; i < size; i += pageSize {
		mem[i] = 1
	}
	return mem, nil
}
