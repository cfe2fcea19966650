package blocks

import (
	"context"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"
)

// List is the ownership root for a chain of Blocks. It owns the head block,
// which in turn owns the rest of the chain. A List always begins life with a
// single empty anchor block; consumers that grow and shrink the chain are
// expected to preserve that anchor (convert it to an empty marker rather than
// detach it) so the chain is never without a first node.
//
// A List is not safe for concurrent use. It is exclusively owned by one
// logical thread of control for its entire lifetime.
type List struct {
	head     *Block
	allocate AllocateFunc
	logger   *slog.Logger

	live      *liveSet
	nextID    int
	nodeCount int
}

// NewList creates a List containing a single empty anchor block. A nil
// allocate falls back to HeapAllocate and a nil logger falls back to
// slog.Default.
func NewList(allocate AllocateFunc, logger *slog.Logger) *List {
	if allocate == nil {
		allocate = HeapAllocate
	}
	if logger == nil {
		logger = slog.Default()
	}

	l := &List{
		allocate: allocate,
		logger:   logger,
		live:     newLiveSet(),
	}
	l.head = l.newNode()
	l.nodeCount = 1
	return l
}

func (l *List) newNode() *Block {
	b := &Block{id: l.nextID}
	l.nextID++
	return b
}

// acquire attaches a fresh buffer of exactly size bytes to b and records the
// acquisition in the live set. b must not currently hold memory.
func (l *List) acquire(b *Block, size int) error {
	mem, err := l.allocate(size)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "acquiring block of %d bytes", size), ErrOutOfMemory)
	}

	b.mem = mem
	b.size = size
	l.live.add(b.id, size)
	return nil
}

// release drops b's buffer, if any, and clears its live-set entry. Releasing
// an empty marker is a no-op, so release is safe to call twice.
func (l *List) release(b *Block) {
	if b.mem == nil {
		return
	}
	l.live.remove(b.id)
	b.mem = nil
	b.size = 0
}

// Head returns the first block in the chain, or nil after Destroy.
func (l *List) Head() *Block { return l.head }

// BlockCount returns the number of nodes in the chain, empty markers included.
func (l *List) BlockCount() int { return l.nodeCount }

// OutstandingAllocations returns the number of blocks currently holding live
// memory acquired through this list.
func (l *List) OutstandingAllocations() int { return l.live.count() }

// TotalBytes returns the sum of sizes of all occupied blocks in the chain.
func (l *List) TotalBytes() int {
	var total int
	for b := l.head; b != nil; b = b.next {
		total += b.size
	}
	return total
}

// InsertAfterHead allocates size bytes, wraps the buffer in a new Block, and
// splices it in immediately after the head, preserving the rest of the chain.
// Returns an error marked ErrOutOfMemory if the allocation cannot be
// satisfied, in which case the chain is unchanged.
func (l *List) InsertAfterHead(size int) error {
	if l.head == nil {
		return errors.Wrap(ErrInvalidListState, "insert into destroyed list")
	}

	node := l.newNode()
	if err := l.acquire(node, size); err != nil {
		return err
	}

	node.next = l.head.next
	l.head.next = node
	l.nodeCount++
	return nil
}

// ResizeBlock releases b's current buffer and acquires a new one of exactly
// newSize bytes. A newSize of 0 leaves b as an empty marker. On allocation
// failure b is left as an empty marker, never holding a stale buffer, and the
// returned error is marked ErrOutOfMemory.
func (l *List) ResizeBlock(b *Block, newSize int) error {
	l.release(b)
	if newSize == 0 {
		return nil
	}
	return l.acquire(b, newSize)
}

// ConvertToEmpty releases b's buffer, if any, leaving it in the chain as an
// empty marker. Used to preserve the anchor when shrinking would otherwise
// remove the first node.
func (l *List) ConvertToEmpty(b *Block) {
	l.release(b)
}

// DetachAndFree unlinks b from the chain and releases its buffer. prev must
// be the block immediately preceding b, or nil when b is the head.
func (l *List) DetachAndFree(prev, b *Block) {
	l.release(b)

	if prev == nil {
		l.head = b.next
	} else {
		prev.next = b.next
	}
	b.next = nil
	l.nodeCount--
}

// Destroy releases every block's buffer and drops the entire chain. The list
// must not be used afterwards. Any acquisition still recorded as live after
// the chain has been torn down indicates internal accounting corruption; each
// one is logged and an error is returned.
func (l *List) Destroy() error {
	if l.head == nil {
		return errors.Wrap(ErrInvalidListState, "list destroyed twice")
	}

	for b := l.head; b != nil; {
		next := b.next
		l.release(b)
		b.next = nil
		b = next
	}
	l.head = nil
	l.nodeCount = 0

	if l.live.count() > 0 {
		l.live.visit(func(id, size int) {
			l.logger.LogAttrs(context.Background(), slog.LevelError,
				"[UNRELEASED MEMORY] block still live after list teardown",
				slog.Int("blockId", id),
				slog.Int("size", size),
			)
		})
		return errors.New("some block acquisitions were not released during list teardown")
	}
	return nil
}

// Validate performs consistency checks on the chain and the live-allocation
// bookkeeping. When the list is functioning correctly it should not be
// possible for this method to return an error.
func (l *List) Validate() error {
	if l.head == nil {
		return errors.Wrap(ErrInvalidListState, "list has no anchor")
	}

	var nodes, occupied int
	for b := l.head; b != nil; b = b.next {
		nodes++
		if nodes > l.nodeCount {
			return errors.Errorf("chain has more than %d nodes, list is cyclic or the node count is stale", l.nodeCount)
		}

		if b.mem == nil {
			if b.size != 0 {
				return errors.Errorf("empty marker block %d has nonzero size %d", b.id, b.size)
			}
			continue
		}

		occupied++
		if len(b.mem) != b.size {
			return errors.Errorf("block %d owns %d bytes but records size %d", b.id, len(b.mem), b.size)
		}

		trackedSize, ok := l.live.sizeOf(b.id)
		if !ok {
			return errors.Errorf("occupied block %d is missing from the live set", b.id)
		}
		if trackedSize != b.size {
			return errors.Errorf("live set records %d bytes for block %d, but the block records %d", trackedSize, b.id, b.size)
		}
	}

	if nodes != l.nodeCount {
		return errors.Errorf("chain has %d nodes but the list counts %d", nodes, l.nodeCount)
	}
	if occupied != l.live.count() {
		return errors.Errorf("chain has %d occupied blocks but the live set tracks %d", occupied, l.live.count())
	}
	return nil
}
