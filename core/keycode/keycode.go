// Package keycode defines USB HID keyboard usage codes plus the media codes
// the layout can emit, and their mapping onto consumer-page usages.
package keycode

import "strings"

// Code is a keyboard page (0x07) usage id. Values 0xE8 and above are not
// sent in the keyboard report; they select a consumer-page usage instead.
type Code uint8

const (
	None          Code = 0x00
	ErrorRollOver Code = 0x01

	A Code = 0x04 + iota - 2
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z
	Kb1
	Kb2
	Kb3
	Kb4
	Kb5
	Kb6
	Kb7
	Kb8
	Kb9
	Kb0
	Enter
	Escape
	BSpace
	Tab
	Space
	Minus
	Equal
	LBracket
	RBracket
	Bslash
	NonUsHash
	SColon
	Quote
	Grave
	Comma
	Dot
	Slash
	CapsLock
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	PScreen
	ScrollLock
	Pause
	Insert
	Home
	PgUp
	Delete
	End
	PgDown
	Right
	Left
	Down
	Up
	NumLock
)

const (
	Application Code = 0x65
)

// Modifiers occupy 0xE0..0xE7 and map onto the report's modifier byte.
const (
	LCtrl Code = 0xE0 + iota
	LShift
	LAlt
	LGui
	RCtrl
	RShift
	RAlt
	RGui
)

// Media codes follow the keyberon numbering.
const (
	MediaPlayPause    Code = 0xE8
	MediaStopCD       Code = 0xE9
	MediaPreviousSong Code = 0xEA
	MediaNextSong     Code = 0xEB
	MediaEjectCD      Code = 0xEC
	MediaVolUp        Code = 0xED
	MediaVolDown      Code = 0xEE
	MediaMute         Code = 0xEF
)

// Consumer page (0x0C) usages.
const (
	UsageScanNext   uint16 = 0xB5
	UsageScanPrev   uint16 = 0xB6
	UsageStop       uint16 = 0xB7
	UsageEject      uint16 = 0xB8
	UsagePlayPause  uint16 = 0xCD
	UsageMute       uint16 = 0xE2
	UsageVolumeUp   uint16 = 0xE9
	UsageVolumeDown uint16 = 0xEA
)

// IsModifier reports whether c is one of the eight modifier keys.
func (c Code) IsModifier() bool { return c >= LCtrl && c <= RGui }

// ModifierBit returns the modifier byte bit for c, or 0.
func (c Code) ModifierBit() uint8 {
	if !c.IsModifier() {
		return 0
	}
	return 1 << (c - LCtrl)
}

// IsMedia reports whether c maps to a consumer usage.
func (c Code) IsMedia() bool { return c >= MediaPlayPause && c <= MediaMute }

// ConsumerUsage returns the consumer page usage for a media code, or 0.
func (c Code) ConsumerUsage() uint16 {
	switch c {
	case MediaPlayPause:
		return UsagePlayPause
	case MediaStopCD:
		return UsageStop
	case MediaPreviousSong:
		return UsageScanPrev
	case MediaNextSong:
		return UsageScanNext
	case MediaEjectCD:
		return UsageEject
	case MediaVolUp:
		return UsageVolumeUp
	case MediaVolDown:
		return UsageVolumeDown
	case MediaMute:
		return UsageMute
	}
	return 0
}

type name struct {
	code    Code
	ident   string
	aliases string
}

// names lists every code with its Go identifier (used by the key-map code
// generator) and space-separated aliases accepted by Parse.
var names = [...]name{
	{None, "None", "_"},
	{A, "A", ""}, {B, "B", ""}, {C, "C", ""}, {D, "D", ""}, {E, "E", ""},
	{F, "F", ""}, {G, "G", ""}, {H, "H", ""}, {I, "I", ""}, {J, "J", ""},
	{K, "K", ""}, {L, "L", ""}, {M, "M", ""}, {N, "N", ""}, {O, "O", ""},
	{P, "P", ""}, {Q, "Q", ""}, {R, "R", ""}, {S, "S", ""}, {T, "T", ""},
	{U, "U", ""}, {V, "V", ""}, {W, "W", ""}, {X, "X", ""}, {Y, "Y", ""},
	{Z, "Z", ""},
	{Kb1, "Kb1", "1"}, {Kb2, "Kb2", "2"}, {Kb3, "Kb3", "3"}, {Kb4, "Kb4", "4"},
	{Kb5, "Kb5", "5"}, {Kb6, "Kb6", "6"}, {Kb7, "Kb7", "7"}, {Kb8, "Kb8", "8"},
	{Kb9, "Kb9", "9"}, {Kb0, "Kb0", "0"},
	{Enter, "Enter", "return"},
	{Escape, "Escape", "esc"},
	{BSpace, "BSpace", "backspace"},
	{Tab, "Tab", ""},
	{Space, "Space", "spacebar"},
	{Minus, "Minus", "-"},
	{Equal, "Equal", "= equals"},
	{LBracket, "LBracket", "["},
	{RBracket, "RBracket", "]"},
	{Bslash, "Bslash", "\\ backslash"},
	{NonUsHash, "NonUsHash", ""},
	{SColon, "SColon", "; semicolon"},
	{Quote, "Quote", "'"},
	{Grave, "Grave", "`"},
	{Comma, "Comma", ","},
	{Dot, "Dot", ". period"},
	{Slash, "Slash", "/"},
	{CapsLock, "CapsLock", "caps"},
	{F1, "F1", ""}, {F2, "F2", ""}, {F3, "F3", ""}, {F4, "F4", ""},
	{F5, "F5", ""}, {F6, "F6", ""}, {F7, "F7", ""}, {F8, "F8", ""},
	{F9, "F9", ""}, {F10, "F10", ""}, {F11, "F11", ""}, {F12, "F12", ""},
	{PScreen, "PScreen", "printscreen"},
	{ScrollLock, "ScrollLock", ""},
	{Pause, "Pause", ""},
	{Insert, "Insert", "ins"},
	{Home, "Home", ""},
	{PgUp, "PgUp", "pageup"},
	{Delete, "Delete", "del"},
	{End, "End", ""},
	{PgDown, "PgDown", "pagedown"},
	{Right, "Right", ""},
	{Left, "Left", ""},
	{Down, "Down", ""},
	{Up, "Up", ""},
	{NumLock, "NumLock", ""},
	{Application, "Application", "menu app"},
	{LCtrl, "LCtrl", "ctrl"},
	{LShift, "LShift", "shift"},
	{LAlt, "LAlt", "alt"},
	{LGui, "LGui", "gui super"},
	{RCtrl, "RCtrl", ""},
	{RShift, "RShift", ""},
	{RAlt, "RAlt", "altgr"},
	{RGui, "RGui", ""},
	{MediaPlayPause, "MediaPlayPause", "play"},
	{MediaStopCD, "MediaStopCD", "stop"},
	{MediaPreviousSong, "MediaPreviousSong", "prev"},
	{MediaNextSong, "MediaNextSong", "next"},
	{MediaEjectCD, "MediaEjectCD", "eject"},
	{MediaVolUp, "MediaVolUp", "vol+ volup"},
	{MediaVolDown, "MediaVolDown", "vol- voldown"},
	{MediaMute, "MediaMute", "mute"},
}

// String returns the Go identifier of c, or "" for codes without a name.
func (c Code) String() string {
	for i := range names {
		if names[i].code == c {
			return names[i].ident
		}
	}
	return ""
}

// Parse resolves an identifier or alias, case-insensitively.
func Parse(s string) (Code, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return None, false
	}
	for i := range names {
		n := &names[i]
		if strings.EqualFold(n.ident, s) {
			return n.code, true
		}
		for _, a := range strings.Fields(n.aliases) {
			if strings.EqualFold(a, s) {
				return n.code, true
			}
		}
	}
	return None, false
}
