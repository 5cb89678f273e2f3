package layout

import (
	"testing"

	"caekeeb/core/keycode"
	"caekeeb/core/matrix"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(r, c uint8) matrix.Event   { return matrix.Event{Row: r, Col: c, Kind: matrix.Press} }
func release(r, c uint8) matrix.Event { return matrix.Event{Row: r, Col: c, Kind: matrix.Release} }

func codes(l *Layout) []keycode.Code {
	var out []keycode.Code
	l.Keycodes(func(c keycode.Code) bool {
		out = append(out, c)
		return true
	})
	return out
}

// testLayers is a 1x4 board: A, B, layer-1 hold, hold-tap (LShift / Escape).
// Layer 1 maps the first key to Kb1 and leaves the second transparent.
func testLayers() Layers {
	return Layers{
		{{K(keycode.A), K(keycode.B), L(1), HT(K(keycode.LShift), K(keycode.Escape), 20, false)}},
		{{K(keycode.Kb1), T, T, C(ModeNext)}},
	}
}

func newLayout(t *testing.T, layers Layers) *Layout {
	t.Helper()
	l, err := New(layers)
	require.NoError(t, err)
	return l
}

func TestKeyPressAndRelease(t *testing.T) {
	l := newLayout(t, testLayers())

	l.Event(press(0, 0))
	l.Tick()
	assert.Equal(t, []keycode.Code{keycode.A}, codes(l))

	l.Event(press(0, 1))
	l.Tick()
	assert.Equal(t, []keycode.Code{keycode.A, keycode.B}, codes(l))
	// Restartable.
	assert.Equal(t, []keycode.Code{keycode.A, keycode.B}, codes(l))

	l.Event(release(0, 0))
	l.Tick()
	assert.Equal(t, []keycode.Code{keycode.B}, codes(l))
}

func TestKeycodesStopsEarly(t *testing.T) {
	l := newLayout(t, testLayers())
	l.Event(press(0, 0))
	l.Event(press(0, 1))

	n := 0
	l.Keycodes(func(keycode.Code) bool {
		n++
		return false
	})
	assert.Equal(t, 1, n)
}

func TestLayerHoldAndTransparency(t *testing.T) {
	l := newLayout(t, testLayers())

	l.Event(press(0, 2))
	assert.Equal(t, 1, l.CurrentLayer())

	l.Event(press(0, 0))
	l.Event(press(0, 1))
	assert.Equal(t, []keycode.Code{keycode.Kb1, keycode.B}, codes(l))

	l.Event(release(0, 2))
	assert.Equal(t, 0, l.CurrentLayer())
	// Keys keep the code they were pressed with.
	assert.Equal(t, []keycode.Code{keycode.Kb1, keycode.B}, codes(l))

	l.Event(release(0, 0))
	assert.Equal(t, []keycode.Code{keycode.B}, codes(l))
}

func TestCustomActionLatchedOnce(t *testing.T) {
	l := newLayout(t, testLayers())

	l.Event(press(0, 2))
	l.Event(press(0, 3))
	c, ok := l.Tick()
	require.True(t, ok)
	assert.Equal(t, ModeNext, c.Kind)

	_, ok = l.Tick()
	assert.False(t, ok)

	l.Event(release(0, 3))
	_, ok = l.Tick()
	assert.False(t, ok)
}

func TestHoldTapTap(t *testing.T) {
	l := newLayout(t, testLayers())

	l.Event(press(0, 3))
	l.Tick()
	assert.True(t, l.Waiting())
	assert.Empty(t, codes(l))

	l.Event(release(0, 3))
	l.Tick()
	assert.False(t, l.Waiting())
	assert.Equal(t, []keycode.Code{keycode.Escape}, codes(l))

	l.Tick()
	assert.Empty(t, codes(l))
}

func TestHoldTapHoldAfterTimeout(t *testing.T) {
	l := newLayout(t, testLayers())

	l.Event(press(0, 3))
	for i := 0; i < 19; i++ {
		l.Tick()
		require.True(t, l.Waiting(), "tick %d", i)
	}
	l.Tick()
	assert.False(t, l.Waiting())
	assert.Equal(t, []keycode.Code{keycode.LShift}, codes(l))

	l.Event(press(0, 0))
	assert.Equal(t, []keycode.Code{keycode.LShift, keycode.A}, codes(l))

	l.Event(release(0, 3))
	assert.Equal(t, []keycode.Code{keycode.A}, codes(l))
}

func TestHoldTapReplaysStashedEvents(t *testing.T) {
	l := newLayout(t, testLayers())

	l.Event(press(0, 3))
	l.Event(press(0, 0))
	assert.Empty(t, codes(l), "press is held back while undecided")

	for i := 0; i < 20; i++ {
		l.Tick()
	}
	assert.Equal(t, []keycode.Code{keycode.LShift, keycode.A}, codes(l))
}

func TestHoldTapRollKeepsInnerKey(t *testing.T) {
	layers := Layers{{{HT(K(keycode.LShift), K(keycode.Space), 200, false), K(keycode.A)}}}
	l := newLayout(t, layers)

	var trace [][]keycode.Code
	step := func(evs ...matrix.Event) {
		for _, e := range evs {
			l.Event(e)
		}
		l.Tick()
		trace = append(trace, codes(l))
	}
	step(press(0, 0), press(0, 1))
	step(release(0, 1))
	step(release(0, 0))
	for i := 0; i < 4; i++ {
		step()
	}

	assert.Equal(t, [][]keycode.Code{
		nil,
		nil,
		{keycode.Space, keycode.A},
		nil,
		nil,
		nil,
		nil,
	}, trace)
	assert.Zero(t, l.Queued())
}

func TestQueuedEventsReplayInOrder(t *testing.T) {
	l := newLayout(t, testLayers())

	// A tap and B tap both land while the hold-tap waits.
	l.Event(press(0, 3))
	l.Event(press(0, 0))
	l.Event(release(0, 0))
	l.Event(press(0, 1))
	l.Event(release(0, 1))
	require.Equal(t, 4, l.Queued())

	var seen []keycode.Code
	for i := 0; i < 30; i++ {
		l.Tick()
		l.Keycodes(func(c keycode.Code) bool {
			if len(seen) == 0 || seen[len(seen)-1] != c {
				seen = append(seen, c)
			}
			return true
		})
	}
	assert.Equal(t, []keycode.Code{keycode.LShift, keycode.A, keycode.LShift, keycode.B, keycode.LShift}, seen)
	assert.Zero(t, l.Queued())
}

func TestHoldTapHoldOnOtherPress(t *testing.T) {
	layers := Layers{{{K(keycode.A), HT(K(keycode.LCtrl), K(keycode.Tab), 200, true)}}}
	l := newLayout(t, layers)

	l.Event(press(0, 1))
	l.Tick()
	l.Event(press(0, 0))
	l.Tick()
	assert.False(t, l.Waiting())
	assert.Equal(t, []keycode.Code{keycode.LCtrl, keycode.A}, codes(l))
}

func TestHoldTapStashOverflowResolvesHold(t *testing.T) {
	layers := Layers{{{K(keycode.A), HT(K(keycode.LCtrl), K(keycode.Tab), 200, false)}}}
	l := newLayout(t, layers)

	l.Event(press(0, 1))
	for i := 0; i < stashSize; i++ {
		if i%2 == 0 {
			l.Event(press(0, 0))
		} else {
			l.Event(release(0, 0))
		}
	}
	require.True(t, l.Waiting())
	l.Event(press(0, 0))
	assert.False(t, l.Waiting())
	assert.Equal(t, []keycode.Code{keycode.LCtrl, keycode.A}, codes(l))
}

func TestDefaultLayer(t *testing.T) {
	layers := Layers{
		{{K(keycode.A), D(1)}},
		{{K(keycode.B), D(0)}},
	}
	l := newLayout(t, layers)

	l.Event(press(0, 1))
	l.Event(release(0, 1))
	assert.Equal(t, 1, l.DefaultLayer())

	l.Event(press(0, 0))
	assert.Equal(t, []keycode.Code{keycode.B}, codes(l))
}

func TestChord(t *testing.T) {
	l := newLayout(t, Layers{{{Chord(keycode.LShift, keycode.Kb1)}}})
	l.Event(press(0, 0))
	assert.Equal(t, []keycode.Code{keycode.LShift, keycode.Kb1}, codes(l))
	l.Event(release(0, 0))
	assert.Empty(t, codes(l))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		layers Layers
	}{
		{name: "empty", layers: Layers{}},
		{name: "no rows", layers: Layers{{}}},
		{name: "ragged rows", layers: Layers{{{K(keycode.A)}, {K(keycode.A), K(keycode.B)}}}},
		{name: "layer shape", layers: Layers{{{K(keycode.A)}}, {{K(keycode.A)}, {K(keycode.B)}}}},
		{name: "layer out of range", layers: Layers{{{L(3)}}}},
		{name: "nested hold-tap", layers: Layers{{{HT(HT(No, No, 1, false), No, 1, false)}}}},
		{name: "empty keycode", layers: Layers{{{{Kind: KeyCode}}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.layers)
			assert.ErrorIs(t, err, ErrInvalidLayers)
		})
	}
}

func TestOutOfRangeEventIgnored(t *testing.T) {
	l := newLayout(t, testLayers())
	l.Event(press(4, 9))
	assert.Empty(t, codes(l))
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "LShift+Kb1", Chord(keycode.LShift, keycode.Kb1).String())
	assert.Equal(t, "L2", L(2).String())
	assert.Equal(t, "mode-set(3)", SetMode(3).String())
	assert.Equal(t, "trans", T.String())
}
