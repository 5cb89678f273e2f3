//go:build !tinygo

package hal

import (
	"image/color"
	"strings"
	"sync"
)

// Framebuffer is the simulated OLED. It implements drivers.Displayer:
// SetPixel draws into a back buffer and Display publishes it, so readers
// only ever see whole frames.
type Framebuffer struct {
	mu      sync.Mutex
	width   int
	height  int
	back    []pixel565
	front   []pixel565
	flushes int
}

func newFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		width:  width,
		height: height,
		back:   make([]pixel565, width*height),
		front:  make([]pixel565, width*height),
	}
}

func (f *Framebuffer) Size() (x, y int16) { return int16(f.width), int16(f.height) }

func (f *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || int(x) >= f.width || int(y) >= f.height {
		return
	}
	f.mu.Lock()
	f.back[int(y)*f.width+int(x)] = toPixel565(c)
	f.mu.Unlock()
}

func (f *Framebuffer) Display() error {
	f.mu.Lock()
	copy(f.front, f.back)
	f.flushes++
	f.mu.Unlock()
	return nil
}

func (f *Framebuffer) Width() int  { return f.width }
func (f *Framebuffer) Height() int { return f.height }

// Flushes counts Display calls.
func (f *Framebuffer) Flushes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flushes
}

// Lit reports whether the published pixel at (x, y) is on.
func (f *Framebuffer) Lit(x, y int) bool {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.front[y*f.width+x].lit()
}

// snapshotRGBA converts the published frame into dst, which must hold
// width*height*4 bytes. on is the panel's pixel color.
func (f *Framebuffer) snapshotRGBA(dst []byte, on color.RGBA) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.front {
		j := i * 4
		if j+3 >= len(dst) {
			return
		}
		dst[j+0], dst[j+1], dst[j+2] = p.scaled(on)
		dst[j+3] = 0xFF
	}
}

// Text renders the published frame as text, two pixel rows per line.
func (f *Framebuffer) Text() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sb strings.Builder
	for y := 0; y < f.height; y += 2 {
		for x := 0; x < f.width; x++ {
			top := f.front[y*f.width+x].lit()
			bottom := y+1 < f.height && f.front[(y+1)*f.width+x].lit()
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
