// Package display drives the bongo cat on the OLED: a tap sprite per
// keypress and the idle sprite once the keyboard goes quiet.
package display

import "fmt"

// DefaultTimeout is the idle delay in ticks.
const DefaultTimeout = 400

// Sprite identifies one of the preloaded images.
type Sprite uint8

const (
	Idle Sprite = iota
	TapLeft
	TapRight
)

func (s Sprite) String() string {
	switch s {
	case Idle:
		return "idle"
	case TapLeft:
		return "tap-left"
	case TapRight:
		return "tap-right"
	}
	return fmt.Sprintf("sprite(%d)", uint8(s))
}

// Animator selects the sprite to show. Ticks and the last activity are
// uint32 and compared by wrapping subtraction, so the idle revert survives
// counter overflow.
type Animator struct {
	sprite  Sprite
	caption string
	timeout uint32
	ticks   uint32
	last    uint32
	left    bool
	dirty   bool
}

// New returns an animator showing the idle sprite. A zero timeout selects
// DefaultTimeout.
func New(timeout uint32) *Animator {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Animator{timeout: timeout, left: true, dirty: true}
}

func (a *Animator) Sprite() Sprite  { return a.sprite }
func (a *Animator) Caption() string { return a.caption }
func (a *Animator) Ticks() uint32   { return a.ticks }
func (a *Animator) Timeout() uint32 { return a.timeout }

// HandleKeypress shows the next tap sprite, alternating paws.
func (a *Animator) HandleKeypress() {
	if a.left {
		a.sprite = TapLeft
	} else {
		a.sprite = TapRight
	}
	a.left = !a.left
	a.last = a.ticks
	a.dirty = true
}

// SetCaption shows s under the sprite until the next idle revert.
func (a *Animator) SetCaption(s string) {
	if s == a.caption {
		return
	}
	a.caption = s
	a.last = a.ticks
	a.dirty = true
}

// Tick advances the counter and reverts to idle once timeout ticks have
// passed since the last activity.
func (a *Animator) Tick() {
	a.ticks++
	if a.sprite == Idle && a.caption == "" {
		return
	}
	if a.ticks-a.last >= a.timeout {
		a.sprite = Idle
		a.caption = ""
		a.dirty = true
	}
}

// TakeDirty reports whether the frame changed since the last call.
func (a *Animator) TakeDirty() bool {
	d := a.dirty
	a.dirty = false
	return d
}
