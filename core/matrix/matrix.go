// Package matrix scans a row/column key matrix into fixed-size snapshots.
package matrix

import (
	"errors"
	"fmt"
	"math/bits"
	"time"

	"caekeeb/hal"
)

const (
	MaxRows = 8
	MaxCols = 32
	MaxKeys = MaxRows * MaxCols
)

var ErrDimensions = errors.New("matrix: dimensions out of range")

// Snapshot is one scan of the matrix: bit c of row r is set while the key
// at (r, c) is pressed.
type Snapshot struct {
	rows, cols uint8
	bits       [MaxRows]uint32
}

// NewSnapshot returns an all-released snapshot. Dimensions are clamped to
// MaxRows and MaxCols.
func NewSnapshot(rows, cols int) Snapshot {
	return Snapshot{rows: clamp(rows, MaxRows), cols: clamp(cols, MaxCols)}
}

func clamp(v, hi int) uint8 {
	if v < 0 {
		return 0
	}
	if v > hi {
		return uint8(hi)
	}
	return uint8(v)
}

func (s Snapshot) Rows() int { return int(s.rows) }
func (s Snapshot) Cols() int { return int(s.cols) }

// Pressed reports the state of (r, c). Out-of-range keys read as released.
func (s Snapshot) Pressed(r, c int) bool {
	if r < 0 || r >= int(s.rows) || c < 0 || c >= int(s.cols) {
		return false
	}
	return s.bits[r]&(1<<uint(c)) != 0
}

// Set changes the state of (r, c). Out-of-range keys are ignored.
func (s *Snapshot) Set(r, c int, pressed bool) {
	if r < 0 || r >= int(s.rows) || c < 0 || c >= int(s.cols) {
		return
	}
	if pressed {
		s.bits[r] |= 1 << uint(c)
	} else {
		s.bits[r] &^= 1 << uint(c)
	}
}

// Row returns the column bitmap of row r.
func (s Snapshot) Row(r int) uint32 {
	if r < 0 || r >= int(s.rows) {
		return 0
	}
	return s.bits[r]
}

// Count returns the number of pressed keys.
func (s Snapshot) Count() int {
	n := 0
	for r := 0; r < int(s.rows); r++ {
		n += bits.OnesCount32(s.bits[r])
	}
	return n
}

// EventKind tells a press from a release.
type EventKind uint8

const (
	Press EventKind = iota + 1
	Release
)

func (k EventKind) String() string {
	switch k {
	case Press:
		return "press"
	case Release:
		return "release"
	}
	return "unknown"
}

// Event is a confirmed key transition.
type Event struct {
	Row  uint8
	Col  uint8
	Kind EventKind
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%d,%d)", e.Kind, e.Row, e.Col)
}

// ScannerConfig wires a Scanner to its pins.
//
// Rows are driven low one at a time; Cols are pull-up inputs so a pressed
// key reads low. ColumnOrder, when set, maps logical column i onto pin
// Cols[ColumnOrder[i]].
type ScannerConfig struct {
	Rows        []hal.GPIOPin
	Cols        []hal.GPIOPin
	ColumnOrder []int
	Delay       hal.Delay
	Settle      time.Duration
}

// Scanner reads the matrix one row at a time.
type Scanner struct {
	rows     []hal.GPIOPin
	cols     []hal.GPIOPin
	order    [MaxCols]uint8
	delay    hal.Delay
	settleUS uint32
}

// NewScanner configures the pins and returns a scanner with all rows idle.
func NewScanner(cfg ScannerConfig) (*Scanner, error) {
	if len(cfg.Rows) == 0 || len(cfg.Rows) > MaxRows || len(cfg.Cols) == 0 || len(cfg.Cols) > MaxCols {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, len(cfg.Rows), len(cfg.Cols))
	}
	s := &Scanner{
		rows:     cfg.Rows,
		cols:     cfg.Cols,
		delay:    cfg.Delay,
		settleUS: uint32(cfg.Settle / time.Microsecond),
	}
	if err := s.setOrder(cfg.ColumnOrder); err != nil {
		return nil, err
	}

	for r, p := range s.rows {
		if p == nil {
			return nil, fmt.Errorf("matrix: row %d: no pin", r)
		}
		if err := p.Configure(hal.GPIOModeOutput, hal.GPIOPullNone); err != nil {
			return nil, fmt.Errorf("matrix: row %d: %w", r, err)
		}
	}
	for c, p := range s.cols {
		if p == nil {
			return nil, fmt.Errorf("matrix: col %d: no pin", c)
		}
		if err := p.Configure(hal.GPIOModeInput, hal.GPIOPullUp); err != nil {
			return nil, fmt.Errorf("matrix: col %d: %w", c, err)
		}
	}
	if err := s.Clear(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scanner) setOrder(order []int) error {
	n := len(s.cols)
	if len(order) == 0 {
		for i := 0; i < n; i++ {
			s.order[i] = uint8(i)
		}
		return nil
	}
	if len(order) != n {
		return fmt.Errorf("matrix: column order has %d entries, want %d", len(order), n)
	}
	var seen [MaxCols]bool
	for i, p := range order {
		if p < 0 || p >= n || seen[p] {
			return fmt.Errorf("matrix: column order: entry %d (%d) is not a permutation of 0..%d", i, p, n-1)
		}
		seen[p] = true
		s.order[i] = uint8(p)
	}
	return nil
}

func (s *Scanner) Rows() int { return len(s.rows) }
func (s *Scanner) Cols() int { return len(s.cols) }

// Clear drives every row to its inactive (high) level.
func (s *Scanner) Clear() error {
	for r, p := range s.rows {
		if err := p.Write(true); err != nil {
			return fmt.Errorf("matrix: row %d: %w", r, err)
		}
	}
	return nil
}

// Scan samples every key once. After each row is released the scanner waits
// for the settle delay so the line is back high before the next row is read.
func (s *Scanner) Scan() (Snapshot, error) {
	snap := NewSnapshot(len(s.rows), len(s.cols))
	for r, row := range s.rows {
		if err := row.Write(false); err != nil {
			return Snapshot{}, fmt.Errorf("matrix: row %d: %w", r, err)
		}
		var line uint32
		for c := 0; c < len(s.cols); c++ {
			level, err := s.cols[s.order[c]].Read()
			if err != nil {
				return Snapshot{}, fmt.Errorf("matrix: row %d col %d: %w", r, c, err)
			}
			if !level {
				line |= 1 << uint(c)
			}
		}
		if err := row.Write(true); err != nil {
			return Snapshot{}, fmt.Errorf("matrix: row %d: %w", r, err)
		}
		snap.bits[r] = line
		if s.delay != nil && s.settleUS > 0 {
			s.delay.DelayMicroseconds(s.settleUS)
		}
	}
	return snap, nil
}
