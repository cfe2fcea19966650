// Package sysmem answers one question: how much physical memory could this
// process plausibly claim right now. The answer is a best-effort estimate
// used to scale footprint targets, not a reservation.
package sysmem

import "github.com/cockroachdb/errors"

// ErrUnsupported is the error returned from Available on platforms without a
// host memory query.
var ErrUnsupported error = errors.New("host memory query is not supported on this platform")
