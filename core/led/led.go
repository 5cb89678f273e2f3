// Package led animates an addressable LED strip.
//
// Every pattern works on a fixed-size color buffer and is advanced once per
// firmware tick. Keypresses can also poke the buffer directly so the strip
// reacts without waiting for the next pattern step.
package led

import (
	"fmt"
	"image/color"
	"strings"
)

// MaxLEDs is the longest strip an Animator can drive.
const MaxLEDs = 128

// Mode selects the running pattern.
type Mode uint8

const (
	Rainbow Mode = iota
	Lightning
	Chase
	Chase2
	numModes
)

var modeNames = [numModes]string{"rainbow", "lightning", "chase", "chase2"}

func (m Mode) String() string {
	if m < numModes {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Next returns the following mode, wrapping around.
func (m Mode) Next() Mode { return (m + 1) % numModes }

// Prev returns the preceding mode, wrapping around.
func (m Mode) Prev() Mode { return (m + numModes - 1) % numModes }

// Valid reports whether m names a pattern.
func (m Mode) Valid() bool { return m < numModes }

// ParseMode resolves a mode name.
func ParseMode(s string) (Mode, error) {
	for i, n := range modeNames {
		if strings.EqualFold(strings.TrimSpace(s), n) {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("led: unknown mode %q", s)
}

// Source yields pseudo-random values.
type Source interface {
	Uint32() uint32
}

// Timing holds the number of ticks between pattern steps, per mode.
type Timing struct {
	Rainbow   uint16
	Lightning uint16
	Chase     uint16
	Chase2    uint16
}

// DefaultTiming paces the patterns for a 1 ms tick.
func DefaultTiming() Timing {
	return Timing{Rainbow: 10, Lightning: 10, Chase: 10, Chase2: 100}
}

func (t Timing) period(m Mode) uint16 {
	var k uint16
	switch m {
	case Rainbow:
		k = t.Rainbow
	case Lightning:
		k = t.Lightning
	case Chase:
		k = t.Chase
	case Chase2:
		k = t.Chase2
	}
	if k == 0 {
		k = 1
	}
	return k
}

const (
	// LightningChance is the 1-in-N chance of a strike per lightning step.
	LightningChance = 20
	// DimRed is the red level below which an LED may be struck again.
	DimRed        = 100
	LightningFade = 8
	ChaseFade     = 32
	ChaseHueStep  = 4
)

var (
	FlashA = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	FlashB = color.RGBA{R: 255, G: 0, B: 255, A: 255}
)

var black = color.RGBA{A: 255}

// Animator owns the strip state.
type Animator struct {
	n       int
	mode    Mode
	timing  Timing
	rng     Source
	enabled bool

	leds  [MaxLEDs]color.RGBA
	wheel [MaxLEDs]uint8
	frame [MaxLEDs * 3]byte

	counter uint16
	index   int
	phase   uint8
}

// New returns an animator for n LEDs running the rainbow. n is clamped to
// 1..MaxLEDs.
func New(n int, rng Source, timing Timing) *Animator {
	if n < 1 {
		n = 1
	}
	if n > MaxLEDs {
		n = MaxLEDs
	}
	a := &Animator{n: n, rng: rng, timing: timing, enabled: true}
	for i := range a.leds {
		a.leds[i] = black
	}
	a.SetMode(Rainbow)
	return a
}

func (a *Animator) Len() int        { return a.n }
func (a *Animator) Mode() Mode      { return a.mode }
func (a *Animator) ChaseIndex() int { return a.index }
func (a *Animator) Enabled() bool   { return a.enabled }

// SetEnabled blanks or restores the output. Patterns keep running while the
// strip is dark.
func (a *Animator) SetEnabled(on bool) { a.enabled = on }

// Colors returns the visible colors in RGB order. The slice aliases the
// animator's buffer.
func (a *Animator) Colors() []color.RGBA { return a.leds[:a.n] }

// SetMode switches pattern and resets its counters. Rainbow seeds the wheel
// positions evenly around the hue circle; the other patterns start black.
func (a *Animator) SetMode(m Mode) {
	if !m.Valid() {
		m = Rainbow
	}
	a.mode = m
	a.counter = 0
	a.index = 0
	a.phase = 0
	switch m {
	case Rainbow:
		for i := 0; i < a.n; i++ {
			a.wheel[i] = uint8(i * 255 / a.n)
		}
	default:
		for i := 0; i < a.n; i++ {
			a.leds[i] = black
		}
	}
}

// Tick advances the current pattern by one firmware tick.
func (a *Animator) Tick() {
	a.counter++
	if a.counter < a.timing.period(a.mode) {
		return
	}
	a.counter = 0

	switch a.mode {
	case Rainbow:
		a.stepRainbow()
	case Lightning:
		a.stepLightning()
	case Chase:
		a.stepChase(false)
	case Chase2:
		a.stepChase(true)
	}
}

// HandleKeypress reacts to a key going down.
func (a *Animator) HandleKeypress() {
	switch a.mode {
	case Lightning:
		a.leds[a.random(a.n)] = a.flashColor()
	case Chase:
		a.advance(false)
	}
}

func (a *Animator) stepRainbow() {
	for i := 0; i < a.n; i++ {
		a.leds[i] = Wheel(a.wheel[i])
		a.wheel[i]++
	}
}

func (a *Animator) stepLightning() {
	if a.random(LightningChance) == 0 {
		i := a.random(a.n)
		if a.leds[i].R < DimRed {
			a.leds[i] = a.flashColor()
		}
	}
	a.fade(LightningFade)
}

func (a *Animator) stepChase(mirror bool) {
	a.advance(mirror)
	a.fade(ChaseFade)
}

// advance moves the chase head and lights it with the shared phase color.
func (a *Animator) advance(mirror bool) {
	a.index = (a.index + 1) % a.n
	c := Wheel(a.phase)
	a.phase += ChaseHueStep
	a.leds[a.index] = c
	if mirror {
		a.leds[MirrorIndex(a.index, a.n)] = c
	}
}

// MirrorIndex returns the LED opposite i on a strip of n.
func MirrorIndex(i, n int) int { return (i + n/2) % n }

func (a *Animator) fade(by uint8) {
	for i := 0; i < a.n; i++ {
		c := &a.leds[i]
		c.R = sub(c.R, by)
		c.G = sub(c.G, by)
		c.B = sub(c.B, by)
	}
}

func sub(v, by uint8) uint8 {
	if v < by {
		return 0
	}
	return v - by
}

func (a *Animator) flashColor() color.RGBA {
	if a.random(2) == 0 {
		return FlashA
	}
	return FlashB
}

func (a *Animator) random(n int) int {
	if a.rng == nil || n <= 1 {
		return 0
	}
	return int(a.rng.Uint32() % uint32(n))
}

// Frame returns the buffer in wire order, green before red, with three bytes
// per LED. It is all zero while the strip is disabled. The slice aliases an
// internal buffer.
func (a *Animator) Frame() []byte {
	out := a.frame[:a.n*3]
	if !a.enabled {
		for i := range out {
			out[i] = 0
		}
		return out
	}
	for i := 0; i < a.n; i++ {
		c := a.leds[i]
		out[i*3+0] = c.G
		out[i*3+1] = c.R
		out[i*3+2] = c.B
	}
	return out
}

// Wheel maps a position onto one full hue cycle split into three 85-wide
// ramps.
func Wheel(pos uint8) color.RGBA {
	p := 255 - pos
	switch {
	case p < 85:
		return color.RGBA{R: 255 - p*3, G: 0, B: p * 3, A: 255}
	case p < 170:
		p -= 85
		return color.RGBA{R: 0, G: p * 3, B: 255 - p*3, A: 255}
	default:
		p -= 170
		return color.RGBA{R: p * 3, G: 255 - p*3, B: 0, A: 255}
	}
}
