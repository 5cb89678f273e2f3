package app

import (
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"caekeeb/core/display"
	"caekeeb/kernel"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// panel renders in the tick. Fine for the host framebuffer.
type panel struct {
	d drivers.Displayer
}

func (p panel) Show(s display.Sprite, caption string) error {
	return display.Render(p.d, s, caption)
}

type screenRequest struct {
	sprite  display.Sprite
	caption string
}

// deferredScreen records the latest request in the tick and renders it
// from Poll.
type deferredScreen struct {
	d     drivers.Displayer
	req   kernel.Shared[screenRequest]
	seq   atomic.Uint32
	drawn uint32
}

func (s *deferredScreen) Show(sp display.Sprite, caption string) error {
	s.req.Store(screenRequest{sprite: sp, caption: caption})
	s.seq.Add(1)
	return nil
}

func (s *deferredScreen) flush() error {
	n := s.seq.Load()
	if n == s.drawn {
		return nil
	}
	s.drawn = n
	r := s.req.Load()
	return display.Render(s.d, r.sprite, r.caption)
}

var textFont tinyfont.Fonter = &proggy.TinySZ8pt7b

// showText clears d and writes lines top to bottom, wrapping long ones.
// Text that does not fit is cut off.
func showText(d drivers.Displayer, lines ...string) error {
	w, h := d.Size()
	for y := int16(0); y < h; y++ {
		for x := int16(0); x < w; x++ {
			d.SetPixel(x, y, display.Off)
		}
	}

	_, glyphW := tinyfont.LineWidth(textFont, "0")
	lineH := int16(textFont.GetYAdvance())
	if glyphW == 0 || lineH <= 0 {
		return d.Display()
	}
	cols := int(w) / int(glyphW)
	if cols <= 0 {
		cols = 1
	}

	y := lineH
	for _, line := range lines {
		for line != "" {
			if y > h {
				return d.Display()
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(d, textFont, 0, y, chunk, display.On)
			y += lineH
			line = strings.TrimLeft(rest, " ")
		}
	}
	return d.Display()
}

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	i, count := 0, 0
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
