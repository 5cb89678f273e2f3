//go:build !tinygo

package hal

import (
	"fmt"
	"sync"
)

// VirtualMatrix models a diode matrix wired to row outputs and pull-up column
// inputs. A column reads low while some driven-low row has its key pressed.
type VirtualMatrix struct {
	mu      sync.Mutex
	rows    int
	cols    int
	rowLow  []bool
	pressed [][]bool

	rowPins []GPIOPin
	colPins []GPIOPin
}

// NewVirtualMatrix returns a rows x cols matrix with every key released.
func NewVirtualMatrix(rows, cols int) *VirtualMatrix {
	m := &VirtualMatrix{
		rows:    rows,
		cols:    cols,
		rowLow:  make([]bool, rows),
		pressed: make([][]bool, rows),
	}
	for r := range m.pressed {
		m.pressed[r] = make([]bool, cols)
		m.rowPins = append(m.rowPins, &matrixRowPin{m: m, row: r, name: fmt.Sprintf("ROW%d", r)})
	}
	for c := 0; c < cols; c++ {
		m.colPins = append(m.colPins, &matrixColPin{m: m, col: c, name: fmt.Sprintf("COL%d", c)})
	}
	return m
}

// Pins returns the row and column pins.
func (m *VirtualMatrix) Pins() (rows, cols []GPIOPin) { return m.rowPins, m.colPins }

func (m *VirtualMatrix) Rows() int { return m.rows }
func (m *VirtualMatrix) Cols() int { return m.cols }

// Set presses or releases the key at (r, c). Out-of-range keys are ignored.
func (m *VirtualMatrix) Set(r, c int, pressed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		return
	}
	m.pressed[r][c] = pressed
}

// Pressed reports the physical state of (r, c).
func (m *VirtualMatrix) Pressed(r, c int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		return false
	}
	return m.pressed[r][c]
}

// ReleaseAll releases every key.
func (m *VirtualMatrix) ReleaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for r := range m.pressed {
		for c := range m.pressed[r] {
			m.pressed[r][c] = false
		}
	}
}

func (m *VirtualMatrix) columnLevel(c int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for r := 0; r < m.rows; r++ {
		if m.rowLow[r] && m.pressed[r][c] {
			return false
		}
	}
	return true
}

type matrixRowPin struct {
	m          *VirtualMatrix
	row        int
	name       string
	configured bool
}

func (p *matrixRowPin) Name() string   { return p.name }
func (p *matrixRowPin) Caps() GPIOCaps { return GPIOCapOutput }

func (p *matrixRowPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if err := checkConfig(p.name, p.Caps(), mode, pull); err != nil {
		return err
	}
	p.configured = true
	return nil
}

func (p *matrixRowPin) Read() (bool, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	return !p.m.rowLow[p.row], nil
}

func (p *matrixRowPin) Write(level bool) error {
	if !p.configured {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	p.m.rowLow[p.row] = !level
	return nil
}

type matrixColPin struct {
	m          *VirtualMatrix
	col        int
	name       string
	configured bool
}

func (p *matrixColPin) Name() string   { return p.name }
func (p *matrixColPin) Caps() GPIOCaps { return GPIOCapInput | GPIOCapPullUp }

func (p *matrixColPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if err := checkConfig(p.name, p.Caps(), mode, pull); err != nil {
		return err
	}
	p.configured = true
	return nil
}

func (p *matrixColPin) Read() (bool, error) {
	if !p.configured {
		return false, fmt.Errorf("gpio: pin %s: not configured for input", p.name)
	}
	return p.m.columnLevel(p.col), nil
}

func (p *matrixColPin) Write(level bool) error {
	_ = level
	return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
}
