// Package footprint implements the target-driven memory controller: it grows
// or shrinks the total bytes held by a block chain to an exact requested
// value, bounding every single allocation it issues by a fixed chunk ceiling.
package footprint

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/memplot/memplot/blocks"
)

// ChunkCeiling is the largest single allocation Adjust will issue while
// growing. Deltas above the ceiling are partitioned into near-equal spans.
const ChunkCeiling = 1 << 20

// Adjust mutates list so that the sum of sizes of its occupied blocks equals
// requestedTotal. currentTotal must accurately reflect that sum on entry; the
// caller carries the new total (requestedTotal) as its bookkeeping value once
// Adjust returns nil.
//
// Growth allocates new blocks immediately after the anchor, reusing an empty
// anchor in place for the first chunk. Shrinking walks from the head, freeing
// whole blocks until the remaining delta fits inside one block, which is then
// reacquired at its reduced size. The head block is never detached, only
// converted to an empty marker.
//
// An error marked blocks.ErrOutOfMemory is returned when an allocation or
// reacquisition fails; Adjust does not retry. Whatever chunks were applied
// before the failure remain applied, so on error the caller's total is
// somewhere between currentTotal and requestedTotal and can be re-derived
// from list.TotalBytes.
func Adjust(list *blocks.List, currentTotal, requestedTotal int) error {
	if currentTotal < 0 || requestedTotal < 0 {
		panic(fmt.Sprintf("negative footprint target: current %d, requested %d", currentTotal, requestedTotal))
	}
	if list.Head() == nil {
		return errors.Wrap(blocks.ErrInvalidListState, "adjusting a destroyed list")
	}

	var err error
	switch {
	case requestedTotal > currentTotal:
		err = grow(list, requestedTotal-currentTotal)
	case requestedTotal < currentTotal:
		err = shrink(list, currentTotal-requestedTotal)
	}
	if err != nil {
		return err
	}

	blocks.DebugValidate(list)
	return nil
}

// grow adds delta bytes of occupied blocks. The delta is split into
// spans = ceil(delta/ChunkCeiling) chunks of delta/spans bytes each, with the
// division remainder spread one byte at a time over the leading chunks, so
// chunks sum to delta exactly and no chunk exceeds the ceiling.
func grow(list *blocks.List, delta int) error {
	spans := (delta + ChunkCeiling - 1) / ChunkCeiling
	base := delta / spans
	extra := delta % spans

	for i := 0; i < spans; i++ {
		chunk := base
		if i < extra {
			chunk++
		}

		head := list.Head()
		if head.IsEmpty() {
			// Reuse the anchor rather than adding a node.
			if err := list.ResizeBlock(head, chunk); err != nil {
				return err
			}
			continue
		}
		if err := list.InsertAfterHead(chunk); err != nil {
			return err
		}
	}
	return nil
}

// shrink releases delta bytes, walking the chain from the head. Blocks no
// larger than the remaining delta are freed whole; the first block that is
// larger is reacquired at its reduced size and the walk stops. If the chain
// runs out of occupied blocks first, the remaining delta is silently dropped:
// there is nothing left to release.
func shrink(list *blocks.List, delta int) error {
	var prev *blocks.Block
	b := list.Head()

	for b != nil && delta > 0 {
		if b.IsEmpty() {
			prev = b
			b = b.Next()
			continue
		}

		if b.Size() <= delta {
			delta -= b.Size()
			if prev == nil {
				// Head block: keep it as the anchor.
				list.ConvertToEmpty(b)
				prev = b
				b = b.Next()
			} else {
				next := b.Next()
				list.DetachAndFree(prev, b)
				b = next
			}
			continue
		}

		return list.ResizeBlock(b, b.Size()-delta)
	}
	return nil
}
