//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ScriptEvent changes one switch of the virtual matrix at a given tick.
type ScriptEvent struct {
	Tick    uint64
	Row     int
	Col     int
	Pressed bool
}

var ErrScript = errors.New("hal: bad script")

// ParseScript reads events of the form "tick:row,col:press" or
// "tick:row,col:release", separated by spaces, semicolons or newlines.
// "tick:row,col:tap=N" presses at tick and releases N ticks later. Text
// after # is ignored. Events are returned sorted by tick.
func ParseScript(s string) ([]ScriptEvent, error) {
	var out []ScriptEvent
	for _, line := range strings.Split(s, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, tok := range strings.FieldsFunc(line, func(r rune) bool { return r == ';' || r == ' ' || r == '\t' }) {
			evs, err := parseScriptToken(tok)
			if err != nil {
				return nil, err
			}
			out = append(out, evs...)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tick < out[j].Tick })
	return out, nil
}

func parseScriptToken(tok string) ([]ScriptEvent, error) {
	parts := strings.Split(tok, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: %q: want tick:row,col:action", ErrScript, tok)
	}
	tick, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: tick: %v", ErrScript, tok, err)
	}
	rc := strings.Split(parts[1], ",")
	if len(rc) != 2 {
		return nil, fmt.Errorf("%w: %q: want row,col", ErrScript, tok)
	}
	row, err := strconv.Atoi(rc[0])
	if err != nil || row < 0 {
		return nil, fmt.Errorf("%w: %q: bad row", ErrScript, tok)
	}
	col, err := strconv.Atoi(rc[1])
	if err != nil || col < 0 {
		return nil, fmt.Errorf("%w: %q: bad col", ErrScript, tok)
	}

	ev := ScriptEvent{Tick: tick, Row: row, Col: col}
	action := strings.ToLower(parts[2])
	switch {
	case action == "press" || action == "p":
		ev.Pressed = true
		return []ScriptEvent{ev}, nil
	case action == "release" || action == "r":
		return []ScriptEvent{ev}, nil
	case strings.HasPrefix(action, "tap="):
		hold, err := strconv.ParseUint(strings.TrimPrefix(action, "tap="), 10, 64)
		if err != nil || hold == 0 {
			return nil, fmt.Errorf("%w: %q: bad tap length", ErrScript, tok)
		}
		ev.Pressed = true
		up := ScriptEvent{Tick: tick + hold, Row: row, Col: col}
		return []ScriptEvent{ev, up}, nil
	}
	return nil, fmt.Errorf("%w: %q: unknown action %q", ErrScript, tok, parts[2])
}

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	// Ticks stops the run after this many periods; zero runs until ctx ends.
	Ticks uint64
	// Realtime paces the alarm by the wall clock instead of running as fast
	// as possible.
	Realtime bool
	Script   []ScriptEvent
}

// RunHeadless drives the host board without opening a window. The alarm
// must already be started. step runs on the calling goroutine after every
// period, like the firmware's main loop; a non-nil error ends the run.
func RunHeadless(ctx context.Context, h *Host, step func() error, cfg HeadlessConfig) error {
	period := h.alarm.Period()
	if period <= 0 {
		return errors.New("hal: headless run needs a started alarm")
	}

	var t *time.Ticker
	if cfg.Realtime {
		t = time.NewTicker(period)
		defer t.Stop()
	}

	script := cfg.Script
	for {
		if t != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		next := h.Ticks() + 1
		for len(script) > 0 && script[0].Tick <= next {
			ev := script[0]
			h.keys.Set(ev.Row, ev.Col, ev.Pressed)
			script = script[1:]
		}

		if err := h.Step(); err != nil {
			return err
		}
		if step != nil {
			if err := step(); err != nil {
				return err
			}
		}
		if cfg.Ticks > 0 && h.Ticks() >= cfg.Ticks {
			return nil
		}
	}
}
