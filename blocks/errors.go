package blocks

import "github.com/cockroachdb/errors"

// ErrOutOfMemory is the error returned when a block allocation or reallocation
// request cannot be satisfied by the underlying allocator
var ErrOutOfMemory error = errors.New("out of memory")

// ErrInvalidListState is the error returned when a list precondition is violated,
// such as an operation against a list whose anchor has been destroyed
var ErrInvalidListState error = errors.New("invalid block list state")
