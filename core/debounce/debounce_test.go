package debounce

import (
	"math/rand/v2"
	"testing"

	"caekeeb/core/matrix"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(rows, cols int, pressed ...[2]int) matrix.Snapshot {
	s := matrix.NewSnapshot(rows, cols)
	for _, p := range pressed {
		s.Set(p[0], p[1], true)
	}
	return s
}

func TestPressConfirmedAtThreshold(t *testing.T) {
	d := New(15)
	down := snap(1, 1, [2]int{0, 0})

	for i := 1; i < 15; i++ {
		assert.Empty(t, d.Events(down), "scan %d", i)
	}
	ev := d.Events(down)
	require.Len(t, ev, 1)
	assert.Equal(t, matrix.Event{Row: 0, Col: 0, Kind: matrix.Press}, ev[0])

	// Held: no re-emission.
	for i := 0; i < 100; i++ {
		assert.Empty(t, d.Events(down))
	}
	assert.True(t, d.Stable().Pressed(0, 0))
}

func TestGlitchRestartsCount(t *testing.T) {
	d := New(5)
	down := snap(1, 2, [2]int{0, 1})
	up := snap(1, 2)

	for i := 0; i < 4; i++ {
		assert.Empty(t, d.Events(down))
	}
	assert.Empty(t, d.Events(up))
	for i := 0; i < 4; i++ {
		assert.Empty(t, d.Events(down))
	}
	ev := d.Events(down)
	require.Len(t, ev, 1)
	assert.Equal(t, uint8(1), ev[0].Col)
}

func TestReleaseConfirmed(t *testing.T) {
	d := New(3)
	down := snap(1, 1, [2]int{0, 0})
	up := snap(1, 1)

	for i := 0; i < 3; i++ {
		d.Events(down)
	}
	require.True(t, d.Stable().Pressed(0, 0))

	assert.Empty(t, d.Events(up))
	assert.Empty(t, d.Events(up))
	ev := d.Events(up)
	require.Len(t, ev, 1)
	assert.Equal(t, matrix.Release, ev[0].Kind)
}

func TestEventsRowMajor(t *testing.T) {
	d := New(1)
	ev := d.Events(snap(3, 3, [2]int{2, 0}, [2]int{0, 2}, [2]int{1, 1}, [2]int{0, 0}))
	require.Len(t, ev, 4)
	want := []matrix.Event{
		{Row: 0, Col: 0, Kind: matrix.Press},
		{Row: 0, Col: 2, Kind: matrix.Press},
		{Row: 1, Col: 1, Kind: matrix.Press},
		{Row: 2, Col: 0, Kind: matrix.Press},
	}
	assert.Equal(t, want, ev)
}

func TestZeroThresholdUsesDefault(t *testing.T) {
	assert.Equal(t, uint16(DefaultThreshold), New(0).Threshold())
}

// TestRandomSequences checks that a press is emitted exactly when the raw
// state has read pressed for threshold consecutive scans since release.
func TestRandomSequences(t *testing.T) {
	const threshold = 4
	rng := rand.New(rand.NewPCG(1, 2))

	for trial := 0; trial < 50; trial++ {
		d := New(threshold)
		stable := false
		run := 0
		for i := 0; i < 400; i++ {
			pressed := rng.IntN(3) != 0
			if trial%2 == 1 {
				pressed = rng.IntN(3) == 0
			}
			var s matrix.Snapshot
			if pressed {
				s = snap(1, 1, [2]int{0, 0})
			} else {
				s = snap(1, 1)
			}

			if pressed != stable {
				run++
			} else {
				run = 0
			}
			wantEvent := run == threshold
			if wantEvent {
				stable = pressed
				run = 0
			}

			ev := d.Events(s)
			if wantEvent {
				require.Len(t, ev, 1, "trial %d scan %d", trial, i)
				if pressed {
					assert.Equal(t, matrix.Press, ev[0].Kind)
				} else {
					assert.Equal(t, matrix.Release, ev[0].Kind)
				}
			} else {
				require.Empty(t, ev, "trial %d scan %d", trial, i)
			}
			require.Equal(t, stable, d.Stable().Pressed(0, 0))
		}
	}
}
