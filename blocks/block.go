package blocks

// Block is a single heap-backed allocation in a List. A Block is either
// occupied (mem is a live buffer of exactly size bytes) or an empty marker
// (mem is nil and size is 0). Blocks form a singly-linked, non-cyclic chain
// owned by their List; consumers never construct Blocks directly.
type Block struct {
	id   int
	size int
	mem  []byte
	next *Block
}

// Size returns the size in bytes of the block's backing buffer, or 0 for an
// empty marker.
func (b *Block) Size() int { return b.size }

// IsEmpty returns true if this block is an empty marker holding no memory.
func (b *Block) IsEmpty() bool { return b.mem == nil }

// Next returns the next block in the chain, or nil at the tail.
func (b *Block) Next() *Block { return b.next }
