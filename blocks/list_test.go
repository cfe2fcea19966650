package blocks_test

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"github.com/memplot/memplot/blocks"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard))
}

// chainSizes walks the list and returns each node's size in chain order.
func chainSizes(list *blocks.List) []int {
	var sizes []int
	for b := list.Head(); b != nil; b = b.Next() {
		sizes = append(sizes, b.Size())
	}
	return sizes
}

func TestNewListAnchor(t *testing.T) {
	list := blocks.NewList(nil, quietLogger())

	require.NotNil(t, list.Head())
	require.True(t, list.Head().IsEmpty())
	require.Equal(t, 0, list.Head().Size())
	require.Nil(t, list.Head().Next())
	require.Equal(t, 1, list.BlockCount())
	require.Equal(t, 0, list.TotalBytes())
	require.NoError(t, list.Validate())

	require.NoError(t, list.Destroy())
}

func TestInsertAfterHeadSplicesBehindAnchor(t *testing.T) {
	list := blocks.NewList(nil, quietLogger())

	require.NoError(t, list.InsertAfterHead(100))
	require.NoError(t, list.InsertAfterHead(200))
	require.NoError(t, list.InsertAfterHead(300))

	// Most recent insertion sits nearest the head.
	require.Equal(t, []int{0, 300, 200, 100}, chainSizes(list))
	require.Equal(t, 600, list.TotalBytes())
	require.Equal(t, 4, list.BlockCount())
	require.Equal(t, 3, list.OutstandingAllocations())
	require.NoError(t, list.Validate())

	require.NoError(t, list.Destroy())
}

func TestInsertAfterHeadAllocationFailure(t *testing.T) {
	failing := func(size int) ([]byte, error) {
		return nil, blocks.ErrOutOfMemory
	}
	list := blocks.NewList(failing, quietLogger())

	err := list.InsertAfterHead(100)
	require.Error(t, err)
	require.True(t, errors.Is(err, blocks.ErrOutOfMemory))

	// The chain is unchanged.
	require.Equal(t, []int{0}, chainSizes(list))
	require.Equal(t, 1, list.BlockCount())
	require.NoError(t, list.Validate())

	require.NoError(t, list.Destroy())
}

func TestResizeBlock(t *testing.T) {
	list := blocks.NewList(nil, quietLogger())

	anchor := list.Head()
	require.NoError(t, list.ResizeBlock(anchor, 500))
	require.Equal(t, 500, anchor.Size())
	require.False(t, anchor.IsEmpty())

	require.NoError(t, list.ResizeBlock(anchor, 200))
	require.Equal(t, 200, anchor.Size())

	require.NoError(t, list.ResizeBlock(anchor, 0))
	require.True(t, anchor.IsEmpty())
	require.Equal(t, 0, anchor.Size())

	require.NoError(t, list.Validate())
	require.NoError(t, list.Destroy())
}

func TestResizeBlockFailureLeavesEmptyMarker(t *testing.T) {
	var fail bool
	allocate := func(size int) ([]byte, error) {
		if fail {
			return nil, blocks.ErrOutOfMemory
		}
		return make([]byte, size), nil
	}
	list := blocks.NewList(allocate, quietLogger())

	anchor := list.Head()
	require.NoError(t, list.ResizeBlock(anchor, 500))

	fail = true
	err := list.ResizeBlock(anchor, 300)
	require.Error(t, err)
	require.True(t, errors.Is(err, blocks.ErrOutOfMemory))

	// No stale buffer: the block ends as an empty marker.
	require.True(t, anchor.IsEmpty())
	require.Equal(t, 0, anchor.Size())
	require.Equal(t, 0, list.OutstandingAllocations())
	require.NoError(t, list.Validate())

	require.NoError(t, list.Destroy())
}

func TestDetachAndFree(t *testing.T) {
	list := blocks.NewList(nil, quietLogger())

	require.NoError(t, list.InsertAfterHead(100))
	require.NoError(t, list.InsertAfterHead(200))
	require.NoError(t, list.InsertAfterHead(300))
	// Chain: anchor, 300, 200, 100.

	anchor := list.Head()
	middle := anchor.Next().Next()
	require.Equal(t, 200, middle.Size())

	list.DetachAndFree(anchor.Next(), middle)

	require.Equal(t, []int{0, 300, 100}, chainSizes(list))
	require.Equal(t, 400, list.TotalBytes())
	require.Equal(t, 3, list.BlockCount())
	require.NoError(t, list.Validate())

	require.NoError(t, list.Destroy())
}

func TestConvertToEmpty(t *testing.T) {
	list := blocks.NewList(nil, quietLogger())

	require.NoError(t, list.InsertAfterHead(100))
	anchor := list.Head()
	require.NoError(t, list.ResizeBlock(anchor, 50))

	list.ConvertToEmpty(anchor)
	require.True(t, anchor.IsEmpty())
	require.Equal(t, 0, anchor.Size())

	// The rest of the chain is untouched.
	require.Equal(t, []int{0, 100}, chainSizes(list))
	require.Equal(t, 100, list.TotalBytes())
	require.NoError(t, list.Validate())

	require.NoError(t, list.Destroy())
}

func TestDestroyReleasesEverythingExactlyOnce(t *testing.T) {
	var allocCalls int
	allocate := func(size int) ([]byte, error) {
		allocCalls++
		return make([]byte, size), nil
	}
	list := blocks.NewList(allocate, quietLogger())

	require.NoError(t, list.InsertAfterHead(100))
	require.NoError(t, list.InsertAfterHead(200))
	require.NoError(t, list.ResizeBlock(list.Head(), 300))
	require.Equal(t, 3, allocCalls)
	require.Equal(t, 3, list.OutstandingAllocations())

	require.NoError(t, list.Destroy())
	require.Equal(t, 0, list.OutstandingAllocations())
	require.Nil(t, list.Head())
	require.Equal(t, 0, list.BlockCount())
}

func TestOperationsAfterDestroy(t *testing.T) {
	list := blocks.NewList(nil, quietLogger())
	require.NoError(t, list.Destroy())

	err := list.Destroy()
	require.True(t, errors.Is(err, blocks.ErrInvalidListState))

	err = list.InsertAfterHead(100)
	require.True(t, errors.Is(err, blocks.ErrInvalidListState))

	err = list.Validate()
	require.True(t, errors.Is(err, blocks.ErrInvalidListState))
}

func TestAddStatistics(t *testing.T) {
	list := blocks.NewList(nil, quietLogger())

	require.NoError(t, list.InsertAfterHead(100))
	require.NoError(t, list.InsertAfterHead(400))

	var stats blocks.Statistics
	stats.Clear()
	list.AddStatistics(&stats)

	require.Equal(t, blocks.Statistics{
		BlockCount:        3,
		EmptyBlockCount:   1,
		AllocationBytes:   500,
		LargestBlockBytes: 400,
	}, stats)

	// Summing in a second list accumulates.
	other := blocks.NewList(nil, quietLogger())
	require.NoError(t, other.InsertAfterHead(50))
	other.AddStatistics(&stats)

	require.Equal(t, blocks.Statistics{
		BlockCount:        5,
		EmptyBlockCount:   2,
		AllocationBytes:   550,
		LargestBlockBytes: 400,
	}, stats)

	require.NoError(t, list.Destroy())
	require.NoError(t, other.Destroy())
}

func TestBuildStatsString(t *testing.T) {
	list := blocks.NewList(nil, quietLogger())
	require.NoError(t, list.InsertAfterHead(100))

	var decoded struct {
		TotalBytes             int
		BlockCount             int
		OutstandingAllocations int
		Blocks                 []struct {
			Id        int
			SizeBytes int
			Empty     bool
		}
	}
	require.NoError(t, json.Unmarshal([]byte(list.BuildStatsString()), &decoded))

	require.Equal(t, 100, decoded.TotalBytes)
	require.Equal(t, 2, decoded.BlockCount)
	require.Equal(t, 1, decoded.OutstandingAllocations)
	require.Len(t, decoded.Blocks, 2)
	require.True(t, decoded.Blocks[0].Empty)
	require.Equal(t, 100, decoded.Blocks[1].SizeBytes)

	require.NoError(t, list.Destroy())
}

func TestHeapAllocateTouchesPages(t *testing.T) {
	mem, err := blocks.HeapAllocate(10000)
	require.NoError(t, err)
	require.Len(t, mem, 10000)
	require.EqualValues(t, 1, mem[0])
	require.EqualValues(t, 1, mem[4096])
	require.EqualValues(t, 1, mem[8192])
}
