// Package report builds USB HID boot keyboard and consumer control reports.
package report

import (
	"encoding/binary"

	"caekeeb/core/keycode"
)

const (
	KeyboardLen = 8
	ConsumerLen = 2
	// MaxKeys is the number of keycode slots in a boot keyboard report.
	MaxKeys = 6
)

// Keyboard is a boot protocol keyboard report: modifier bits, a reserved
// byte, then up to six keycodes.
type Keyboard [KeyboardLen]byte

func (k *Keyboard) Bytes() []byte { return k[:] }

func (k Keyboard) Modifiers() uint8 { return k[0] }

// Contains reports whether c is present, either as a modifier bit or in a
// keycode slot.
func (k Keyboard) Contains(c keycode.Code) bool {
	if c.IsModifier() {
		return k[0]&c.ModifierBit() != 0
	}
	for _, b := range k[2:] {
		if b == byte(c) && c != keycode.None {
			return true
		}
	}
	return false
}

// RolledOver reports whether the report is in the phantom state.
func (k Keyboard) RolledOver() bool { return k[2] == byte(keycode.ErrorRollOver) }

// Consumer is a consumer control report holding one 16-bit usage.
type Consumer [ConsumerLen]byte

func (c *Consumer) Bytes() []byte { return c[:] }

func (c Consumer) Usage() uint16 { return binary.LittleEndian.Uint16(c[:]) }

// mediaOrder decides which media key wins when several are held.
var mediaOrder = [...]keycode.Code{
	keycode.MediaVolUp,
	keycode.MediaVolDown,
	keycode.MediaPlayPause,
	keycode.MediaNextSong,
	keycode.MediaPreviousSong,
	keycode.MediaMute,
	keycode.MediaStopCD,
	keycode.MediaEjectCD,
}

func mediaRank(c keycode.Code) int {
	for i, m := range mediaOrder {
		if m == c {
			return i
		}
	}
	return len(mediaOrder)
}

// Assembler builds both reports from a keycode sequence such as
// layout.Layout.Keycodes. More than MaxKeys ordinary keys fill every slot
// with ErrorRollOver. Of several media keys only the one earliest in
// mediaOrder is reported.
//
// The yield callback is bound once in NewAssembler so Build does not
// allocate.
type Assembler struct {
	kb     Keyboard
	n      int
	rolled bool
	best   int
	yield  func(keycode.Code) bool
}

func NewAssembler() *Assembler {
	a := &Assembler{}
	a.yield = a.add
	return a
}

// Build runs keys once and returns the resulting reports.
func (a *Assembler) Build(keys func(yield func(keycode.Code) bool)) (Keyboard, Consumer) {
	a.kb = Keyboard{}
	a.n = 0
	a.rolled = false
	a.best = len(mediaOrder)

	keys(a.yield)

	if a.rolled {
		for i := 2; i < KeyboardLen; i++ {
			a.kb[i] = byte(keycode.ErrorRollOver)
		}
	}
	var cons Consumer
	if a.best < len(mediaOrder) {
		binary.LittleEndian.PutUint16(cons[:], mediaOrder[a.best].ConsumerUsage())
	}
	return a.kb, cons
}

func (a *Assembler) add(c keycode.Code) bool {
	switch {
	case c == keycode.None:
	case c.IsModifier():
		a.kb[0] |= c.ModifierBit()
	case c.IsMedia():
		if r := mediaRank(c); r < a.best {
			a.best = r
		}
	default:
		for i := 0; i < a.n; i++ {
			if a.kb[2+i] == byte(c) {
				return true
			}
		}
		if a.n == MaxKeys {
			a.rolled = true
			return true
		}
		a.kb[2+a.n] = byte(c)
		a.n++
	}
	return true
}

// Build is a one-shot helper around Assembler.
func Build(keys func(yield func(keycode.Code) bool)) (Keyboard, Consumer) {
	return NewAssembler().Build(keys)
}
