//go:build !tinygo && !cgo

package hal

import "fmt"

// RunWindow needs ebiten, which needs cgo. Use the headless runner instead.
func RunWindow(_ *Host, _ func() error) error {
	return fmt.Errorf("hal: window: %w without cgo, run with --headless or CGO_ENABLED=1", ErrNotImplemented)
}
