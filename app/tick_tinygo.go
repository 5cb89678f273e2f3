//go:build tinygo

package app

func (s *System) runTick() {
	if err := s.fw.Tick(); err != nil {
		s.fail(err)
	}
}
