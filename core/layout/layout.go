// Package layout maps debounced key events onto keycodes through a stack of
// layers, in the manner of keyberon.
package layout

import (
	"errors"
	"fmt"

	"caekeeb/core/keycode"
	"caekeeb/core/matrix"
)

const (
	// MaxActive bounds the number of simultaneously active key and layer states.
	MaxActive = 64
	stashSize = 16
)

var ErrInvalidLayers = errors.New("layout: invalid layer table")

type stateKind uint8

const (
	stateKey stateKind = iota + 1
	stateLayer
)

type state struct {
	kind     stateKind
	row, col uint8
	code     keycode.Code
	layer    uint8
	// expire marks a tap that is released on the next tick.
	expire bool
}

type waiter struct {
	active   bool
	row, col uint8
	cfg      *HoldTapConfig
	ticks    uint16
}

// Layout is the layer state machine. It owns no buffers that grow: active
// states, the pending hold-tap and stashed events all live in fixed arrays.
type Layout struct {
	layers Layers
	rows   int
	cols   int
	base   int

	states  [MaxActive]state
	nstates int

	waiter waiter
	stash  [stashSize]matrix.Event
	nstash int

	latch   Custom
	latched bool
	ticks   uint32
}

// New validates layers and returns a layout on layer 0.
func New(layers Layers) (*Layout, error) {
	if err := Validate(layers); err != nil {
		return nil, err
	}
	return &Layout{
		layers: layers,
		rows:   len(layers[0]),
		cols:   len(layers[0][0]),
	}, nil
}

// Validate checks that every layer has the same shape and that every layer
// reference is in range.
func Validate(layers Layers) error {
	if len(layers) == 0 {
		return fmt.Errorf("%w: no layers", ErrInvalidLayers)
	}
	if len(layers) > 255 {
		return fmt.Errorf("%w: %d layers", ErrInvalidLayers, len(layers))
	}
	rows := len(layers[0])
	if rows == 0 || rows > matrix.MaxRows {
		return fmt.Errorf("%w: %d rows", ErrInvalidLayers, rows)
	}
	cols := len(layers[0][0])
	if cols == 0 || cols > matrix.MaxCols {
		return fmt.Errorf("%w: %d columns", ErrInvalidLayers, cols)
	}
	for li, layer := range layers {
		if len(layer) != rows {
			return fmt.Errorf("%w: layer %d has %d rows, want %d", ErrInvalidLayers, li, len(layer), rows)
		}
		for ri, row := range layer {
			if len(row) != cols {
				return fmt.Errorf("%w: layer %d row %d has %d columns, want %d", ErrInvalidLayers, li, ri, len(row), cols)
			}
			for ci, a := range row {
				if err := checkAction(a, len(layers), false); err != nil {
					return fmt.Errorf("%w: layer %d row %d col %d: %v", ErrInvalidLayers, li, ri, ci, err)
				}
			}
		}
	}
	return nil
}

func checkAction(a Action, nlayers int, nested bool) error {
	switch a.Kind {
	case NoOp, Trans, CustomAction:
	case KeyCode:
		if a.NCodes == 0 || a.NCodes > MaxChord {
			return fmt.Errorf("%d keycodes", a.NCodes)
		}
	case LayerHold, DefaultLayer:
		if int(a.Layer) >= nlayers {
			return fmt.Errorf("layer %d out of range", a.Layer)
		}
	case HoldTap:
		if nested {
			return errors.New("nested hold-tap")
		}
		if a.HoldTap == nil {
			return errors.New("hold-tap without config")
		}
		if err := checkAction(a.HoldTap.Hold, nlayers, true); err != nil {
			return fmt.Errorf("hold: %w", err)
		}
		if err := checkAction(a.HoldTap.Tap, nlayers, true); err != nil {
			return fmt.Errorf("tap: %w", err)
		}
	default:
		return fmt.Errorf("unknown action kind %d", a.Kind)
	}
	return nil
}

func (l *Layout) Rows() int { return l.rows }
func (l *Layout) Cols() int { return l.cols }

// Ticks returns the number of Tick calls so far.
func (l *Layout) Ticks() uint32 { return l.ticks }

// DefaultLayer returns the base layer index.
func (l *Layout) DefaultLayer() int { return l.base }

// CurrentLayer returns the most recently activated held layer, or the
// default layer if none is held.
func (l *Layout) CurrentLayer() int {
	for i := l.nstates - 1; i >= 0; i-- {
		if l.states[i].kind == stateLayer {
			return int(l.states[i].layer)
		}
	}
	return l.base
}

// Waiting reports whether a hold-tap key is still undecided.
func (l *Layout) Waiting() bool { return l.waiter.active }

// Event applies one debounced transition. While a hold-tap is undecided,
// or earlier events are still queued, the event is queued instead. Queued
// events are replayed one per Tick so a key pressed and released while
// waiting is still held for a tick.
func (l *Layout) Event(e matrix.Event) {
	for l.nstash == len(l.stash) {
		if l.waiter.active {
			l.resolve(true)
		} else {
			l.replayOne()
		}
	}
	if l.waiter.active || l.nstash > 0 {
		l.stash[l.nstash] = e
		l.nstash++
		return
	}
	l.apply(e)
}

func (l *Layout) apply(e matrix.Event) {
	switch e.Kind {
	case matrix.Press:
		l.do(l.actionAt(int(e.Row), int(e.Col)), e.Row, e.Col, false)
	case matrix.Release:
		l.release(e.Row, e.Col)
	}
}

// Tick advances time by one period. It releases taps from the previous
// tick, resolves a pending hold-tap if it can, replays at most one queued
// event and returns the custom action latched since the last call.
func (l *Layout) Tick() (Custom, bool) {
	l.ticks++
	l.expireTaps()
	if l.waiter.active {
		if l.waiter.ticks < ^uint16(0) {
			l.waiter.ticks++
		}
		l.checkWaiter()
	}
	if !l.waiter.active && l.nstash > 0 {
		l.replayOne()
	}
	c, ok := l.latch, l.latched
	l.latch, l.latched = Custom{}, false
	return c, ok
}

// Queued reports how many events wait to be replayed.
func (l *Layout) Queued() int { return l.nstash }

// Keycodes yields the active keycodes in press order. It can be called any
// number of times and does not allocate.
func (l *Layout) Keycodes(yield func(keycode.Code) bool) {
	for i := 0; i < l.nstates; i++ {
		if l.states[i].kind != stateKey {
			continue
		}
		if !yield(l.states[i].code) {
			return
		}
	}
}

func (l *Layout) actionAt(r, c int) Action {
	if r < 0 || r >= l.rows || c < 0 || c >= l.cols {
		return No
	}
	a := l.layers[l.CurrentLayer()][r][c]
	if a.Kind == Trans {
		a = l.layers[l.base][r][c]
	}
	if a.Kind == Trans {
		return No
	}
	return a
}

func (l *Layout) do(a Action, row, col uint8, expire bool) {
	switch a.Kind {
	case KeyCode:
		for i := 0; i < int(a.NCodes); i++ {
			l.push(state{kind: stateKey, row: row, col: col, code: a.Codes[i], expire: expire})
		}
	case LayerHold:
		l.push(state{kind: stateLayer, row: row, col: col, layer: a.Layer, expire: expire})
	case DefaultLayer:
		l.base = int(a.Layer)
	case HoldTap:
		if a.HoldTap != nil {
			l.waiter = waiter{active: true, row: row, col: col, cfg: a.HoldTap}
		}
	case CustomAction:
		l.latch = a.Custom
		l.latched = true
	}
}

func (l *Layout) push(s state) {
	if l.nstates == len(l.states) {
		return
	}
	l.states[l.nstates] = s
	l.nstates++
}

func (l *Layout) release(row, col uint8) {
	l.filter(func(s *state) bool { return s.row != row || s.col != col })
}

func (l *Layout) expireTaps() {
	l.filter(func(s *state) bool { return !s.expire })
}

// filter keeps the states for which keep returns true, preserving order.
func (l *Layout) filter(keep func(*state) bool) {
	n := 0
	for i := 0; i < l.nstates; i++ {
		if keep(&l.states[i]) {
			l.states[n] = l.states[i]
			n++
		}
	}
	l.nstates = n
}

func (l *Layout) checkWaiter() {
	w := &l.waiter
	for i := 0; i < l.nstash; i++ {
		e := l.stash[i]
		if e.Kind == matrix.Release && e.Row == w.row && e.Col == w.col {
			l.resolve(false)
			return
		}
		if e.Kind == matrix.Press && w.cfg.HoldOnOtherPress {
			l.resolve(true)
			return
		}
	}
	if w.ticks >= w.cfg.Timeout {
		l.resolve(true)
	}
}

// resolve settles the pending hold-tap. A tap is pressed for one tick, so
// the key's own release is dropped from the queue. The other queued events
// stay queued for Tick to replay.
func (l *Layout) resolve(hold bool) {
	w := l.waiter
	l.waiter = waiter{}
	if hold {
		l.do(w.cfg.Hold, w.row, w.col, false)
		return
	}
	l.do(w.cfg.Tap, w.row, w.col, true)
	for i := 0; i < l.nstash; i++ {
		e := l.stash[i]
		if e.Kind == matrix.Release && e.Row == w.row && e.Col == w.col {
			l.unqueue(i)
			return
		}
	}
}

// replayOne applies the oldest queued event. A replayed hold-tap press
// starts a new waiter, which then sees the rest of the queue.
func (l *Layout) replayOne() {
	e := l.stash[0]
	l.unqueue(0)
	l.apply(e)
}

func (l *Layout) unqueue(i int) {
	copy(l.stash[i:l.nstash], l.stash[i+1:l.nstash])
	l.nstash--
}
