//go:build !tinygo

package app

import "fmt"

// runTick turns a panic in the simulator into a fault, as a hard fault
// would end the tick on the board.
func (s *System) runTick() {
	defer func() {
		if r := recover(); r != nil {
			s.fail(fmt.Errorf("panic: %v", r))
		}
	}()
	if err := s.fw.Tick(); err != nil {
		s.fail(err)
	}
}
