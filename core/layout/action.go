package layout

import (
	"fmt"

	"caekeeb/core/keycode"
)

// MaxChord is the most keycodes a single key can press at once.
const MaxChord = 4

// Kind selects what an Action does.
type Kind uint8

const (
	// NoOp does nothing.
	NoOp Kind = iota
	// Trans falls through to the same key on the default layer.
	Trans
	// KeyCode presses one or more keycodes while held.
	KeyCode
	// LayerHold activates a layer while held.
	LayerHold
	// DefaultLayer switches the base layer.
	DefaultLayer
	// HoldTap does Hold when held past its timeout and Tap otherwise.
	HoldTap
	// CustomAction latches a firmware action for the next tick.
	CustomAction
)

func (k Kind) String() string {
	switch k {
	case NoOp:
		return "noop"
	case Trans:
		return "trans"
	case KeyCode:
		return "key"
	case LayerHold:
		return "layer"
	case DefaultLayer:
		return "default-layer"
	case HoldTap:
		return "hold-tap"
	case CustomAction:
		return "custom"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// CustomKind identifies a firmware action.
type CustomKind uint8

const (
	CustomNone CustomKind = iota
	ModeNext
	ModePrev
	ModeSet
	LightsToggle
	Bootloader
)

func (k CustomKind) String() string {
	switch k {
	case CustomNone:
		return "none"
	case ModeNext:
		return "mode-next"
	case ModePrev:
		return "mode-prev"
	case ModeSet:
		return "mode-set"
	case LightsToggle:
		return "lights-toggle"
	case Bootloader:
		return "bootloader"
	}
	return fmt.Sprintf("custom(%d)", uint8(k))
}

// Custom is a latched firmware action. Arg carries the mode for ModeSet.
type Custom struct {
	Kind CustomKind
	Arg  uint8
}

// HoldTapConfig is the payload of a HoldTap action. Hold and Tap must not be
// HoldTap actions themselves.
type HoldTapConfig struct {
	Hold             Action
	Tap              Action
	Timeout          uint16
	HoldOnOtherPress bool
}

// Action is one entry of a layer table.
type Action struct {
	Kind    Kind
	Codes   [MaxChord]keycode.Code
	NCodes  uint8
	Layer   uint8
	Custom  Custom
	HoldTap *HoldTapConfig
}

// K presses a single keycode.
func K(c keycode.Code) Action {
	a := Action{Kind: KeyCode, NCodes: 1}
	a.Codes[0] = c
	return a
}

// Chord presses up to MaxChord keycodes together. Extra codes are dropped.
func Chord(codes ...keycode.Code) Action {
	a := Action{Kind: KeyCode}
	for _, c := range codes {
		if int(a.NCodes) == MaxChord {
			break
		}
		a.Codes[a.NCodes] = c
		a.NCodes++
	}
	return a
}

// L activates layer n while held.
func L(n int) Action { return Action{Kind: LayerHold, Layer: uint8(n)} }

// D makes layer n the default layer.
func D(n int) Action { return Action{Kind: DefaultLayer, Layer: uint8(n)} }

// HT builds a hold-tap key.
func HT(hold, tap Action, timeout uint16, holdOnOtherPress bool) Action {
	return Action{Kind: HoldTap, HoldTap: &HoldTapConfig{
		Hold:             hold,
		Tap:              tap,
		Timeout:          timeout,
		HoldOnOtherPress: holdOnOtherPress,
	}}
}

// C latches a custom action.
func C(kind CustomKind) Action { return Action{Kind: CustomAction, Custom: Custom{Kind: kind}} }

// SetMode latches ModeSet with the given mode number.
func SetMode(mode uint8) Action {
	return Action{Kind: CustomAction, Custom: Custom{Kind: ModeSet, Arg: mode}}
}

var (
	// No is the empty action.
	No = Action{Kind: NoOp}
	// T is the transparent action.
	T = Action{Kind: Trans}
)

func (a Action) String() string {
	switch a.Kind {
	case KeyCode:
		s := ""
		for i := 0; i < int(a.NCodes); i++ {
			if i > 0 {
				s += "+"
			}
			s += a.Codes[i].String()
		}
		return s
	case LayerHold:
		return fmt.Sprintf("L%d", a.Layer)
	case DefaultLayer:
		return fmt.Sprintf("D%d", a.Layer)
	case HoldTap:
		if a.HoldTap == nil {
			return "hold-tap(nil)"
		}
		return fmt.Sprintf("HT(%s,%s,%d)", a.HoldTap.Hold, a.HoldTap.Tap, a.HoldTap.Timeout)
	case CustomAction:
		if a.Custom.Kind == ModeSet {
			return fmt.Sprintf("%s(%d)", a.Custom.Kind, a.Custom.Arg)
		}
		return a.Custom.Kind.String()
	}
	return a.Kind.String()
}

// Layers is a layer table indexed [layer][row][col].
type Layers [][][]Action
