// Package debounce turns raw matrix snapshots into confirmed key transitions.
package debounce

import "caekeeb/core/matrix"

// DefaultThreshold is the number of consecutive scans a new state must hold.
const DefaultThreshold = 15

// Debouncer keeps the last confirmed state of every key and a counter of how
// many consecutive raw samples have disagreed with it. A key flips, and one
// event is emitted, when its counter reaches the threshold.
type Debouncer struct {
	threshold uint16
	stable    matrix.Snapshot
	raw       matrix.Snapshot
	count     [matrix.MaxRows][matrix.MaxCols]uint16
	events    [matrix.MaxKeys]matrix.Event
}

// New returns a debouncer with all keys released. A zero threshold selects
// DefaultThreshold.
func New(threshold uint16) *Debouncer {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return &Debouncer{threshold: threshold}
}

func (d *Debouncer) Threshold() uint16 { return d.threshold }

// Stable returns the confirmed key state.
func (d *Debouncer) Stable() matrix.Snapshot { return d.stable }

// Raw returns the last snapshot passed to Events.
func (d *Debouncer) Raw() matrix.Snapshot { return d.raw }

// Events feeds one scan and returns the transitions it confirmed, in
// row-major order. The returned slice aliases an internal buffer and is only
// valid until the next call.
func (d *Debouncer) Events(s matrix.Snapshot) []matrix.Event {
	if s.Rows() != d.stable.Rows() || s.Cols() != d.stable.Cols() {
		d.reset(s.Rows(), s.Cols())
	}
	d.raw = s

	n := 0
	for r := 0; r < s.Rows(); r++ {
		if s.Row(r) == d.stable.Row(r) && d.rowIdle(r, s.Cols()) {
			continue
		}
		for c := 0; c < s.Cols(); c++ {
			cur := s.Pressed(r, c)
			if cur == d.stable.Pressed(r, c) {
				d.count[r][c] = 0
				continue
			}
			d.count[r][c]++
			if d.count[r][c] < d.threshold {
				continue
			}
			d.count[r][c] = 0
			d.stable.Set(r, c, cur)
			kind := matrix.Release
			if cur {
				kind = matrix.Press
			}
			d.events[n] = matrix.Event{Row: uint8(r), Col: uint8(c), Kind: kind}
			n++
		}
	}
	return d.events[:n]
}

func (d *Debouncer) rowIdle(r, cols int) bool {
	for c := 0; c < cols; c++ {
		if d.count[r][c] != 0 {
			return false
		}
	}
	return true
}

func (d *Debouncer) reset(rows, cols int) {
	d.stable = matrix.NewSnapshot(rows, cols)
	d.raw = d.stable
	d.count = [matrix.MaxRows][matrix.MaxCols]uint16{}
}
