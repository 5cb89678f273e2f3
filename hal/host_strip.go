//go:build !tinygo

package hal

import (
	"fmt"
	"image/color"
	"sync"
)

// StripView is the simulated LED strip. It keeps the last frame written.
type StripView struct {
	mu     sync.Mutex
	n      int
	frame  []byte
	writes int
}

func newStripView(n int) *StripView {
	return &StripView{n: n, frame: make([]byte, n*3)}
}

func (s *StripView) Write(grb []byte) error {
	if len(grb) > len(s.frame) {
		return fmt.Errorf("hal: strip frame of %d bytes exceeds %d LEDs", len(grb), s.n)
	}
	s.mu.Lock()
	copy(s.frame, grb)
	s.writes++
	s.mu.Unlock()
	return nil
}

func (s *StripView) Len() int { return s.n }

func (s *StripView) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Colors decodes the last frame back into RGB.
func (s *StripView) Colors() []color.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]color.RGBA, s.n)
	for i := range out {
		out[i] = color.RGBA{R: s.frame[i*3+1], G: s.frame[i*3], B: s.frame[i*3+2], A: 255}
	}
	return out
}
