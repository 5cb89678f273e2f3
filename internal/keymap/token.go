// Package keymap reads key maps written as text.
//
// A key map is a list of layers, each a list of rows, each row a string of
// whitespace-separated tokens, one per key:
//
//	_             no action
//	~             transparent, use the default layer's key
//	A  Enter  vol+  keycode by name or alias (see keycode.Parse)
//	LShift+A      up to four keycodes pressed together
//	L1            layer 1 while held
//	D0            make layer 0 the default
//	ht(LCtrl,Escape,200)        hold-tap; add ",eager" to resolve as hold
//	                            when another key is pressed
//	mode+  mode-  mode=chase    LED animation
//	lights        LED strip on/off
//	reset         reboot into the bootloader
package keymap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"caekeeb/core/keycode"
	"caekeeb/core/layout"
	"caekeeb/core/led"
)

var ErrSyntax = errors.New("keymap: syntax error")

// ParseAction reads a single key token.
func ParseAction(tok string) (layout.Action, error) {
	tok = strings.TrimSpace(tok)
	lower := strings.ToLower(tok)
	switch lower {
	case "":
		return layout.No, fmt.Errorf("%w: empty token", ErrSyntax)
	case "_", "no":
		return layout.No, nil
	case "~", "trans":
		return layout.T, nil
	case "mode+":
		return layout.C(layout.ModeNext), nil
	case "mode-":
		return layout.C(layout.ModePrev), nil
	case "lights":
		return layout.C(layout.LightsToggle), nil
	case "reset", "boot":
		return layout.C(layout.Bootloader), nil
	}

	if name, ok := strings.CutPrefix(lower, "mode="); ok {
		m, err := led.ParseMode(name)
		if err != nil {
			return layout.No, fmt.Errorf("%w: %q: %v", ErrSyntax, tok, err)
		}
		return layout.SetMode(uint8(m)), nil
	}
	if strings.HasPrefix(lower, "ht(") {
		return parseHoldTap(tok)
	}
	if c, ok := keycode.Parse(tok); ok {
		return layout.K(c), nil
	}
	if n, ok := layerRef(lower, 'l'); ok {
		return layout.L(n), nil
	}
	if n, ok := layerRef(lower, 'd'); ok {
		return layout.D(n), nil
	}
	if strings.Contains(tok, "+") {
		return parseChord(tok)
	}
	return layout.No, fmt.Errorf("%w: unknown key %q", ErrSyntax, tok)
}

func layerRef(s string, prefix byte) (int, bool) {
	if len(s) < 2 || s[0] != prefix {
		return 0, false
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 0 || n > 255 {
		return 0, false
	}
	return n, true
}

func parseChord(tok string) (layout.Action, error) {
	parts := strings.Split(tok, "+")
	if len(parts) > layout.MaxChord {
		return layout.No, fmt.Errorf("%w: %q: more than %d keys", ErrSyntax, tok, layout.MaxChord)
	}
	codes := make([]keycode.Code, 0, len(parts))
	for _, p := range parts {
		c, ok := keycode.Parse(p)
		if !ok || c == keycode.None {
			return layout.No, fmt.Errorf("%w: %q: unknown key %q", ErrSyntax, tok, p)
		}
		codes = append(codes, c)
	}
	return layout.Chord(codes...), nil
}

func parseHoldTap(tok string) (layout.Action, error) {
	body, ok := strings.CutSuffix(tok[len("ht("):], ")")
	if !ok {
		return layout.No, fmt.Errorf("%w: %q: missing )", ErrSyntax, tok)
	}
	args := strings.Split(body, ",")
	if len(args) != 3 && len(args) != 4 {
		return layout.No, fmt.Errorf("%w: %q: want ht(hold,tap,timeout[,eager])", ErrSyntax, tok)
	}
	hold, err := ParseAction(args[0])
	if err != nil {
		return layout.No, err
	}
	tap, err := ParseAction(args[1])
	if err != nil {
		return layout.No, err
	}
	if hold.Kind == layout.HoldTap || tap.Kind == layout.HoldTap {
		return layout.No, fmt.Errorf("%w: %q: nested hold-tap", ErrSyntax, tok)
	}
	timeout, err := strconv.ParseUint(strings.TrimSpace(args[2]), 10, 16)
	if err != nil || timeout == 0 {
		return layout.No, fmt.Errorf("%w: %q: bad timeout %q", ErrSyntax, tok, args[2])
	}
	eager := false
	if len(args) == 4 {
		if strings.TrimSpace(strings.ToLower(args[3])) != "eager" {
			return layout.No, fmt.Errorf("%w: %q: unknown flag %q", ErrSyntax, tok, args[3])
		}
		eager = true
	}
	return layout.HT(hold, tap, uint16(timeout), eager), nil
}

// ParseRow reads one row of tokens.
func ParseRow(s string) ([]layout.Action, error) {
	fields := strings.Fields(s)
	row := make([]layout.Action, 0, len(fields))
	for i, f := range fields {
		a, err := ParseAction(f)
		if err != nil {
			return nil, fmt.Errorf("col %d: %w", i, err)
		}
		row = append(row, a)
	}
	return row, nil
}
