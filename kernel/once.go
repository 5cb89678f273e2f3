package kernel

import (
	"errors"
	"sync/atomic"
)

var ErrAlreadyInitialized = errors.New("kernel: already initialized")

// Once guards a peripheral that may be brought up a single time, such as
// the USB device stack.
type Once struct {
	claimed atomic.Bool
}

// Claim succeeds for the first caller only.
func (o *Once) Claim() error {
	if !o.claimed.CompareAndSwap(false, true) {
		return ErrAlreadyInitialized
	}
	return nil
}

// Claimed reports whether Claim has succeeded.
func (o *Once) Claimed() bool { return o.claimed.Load() }
