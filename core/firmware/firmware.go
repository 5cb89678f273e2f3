// Package firmware runs the scan-react pipeline once per timer tick.
//
// A Firmware owns every piece of per-tick state. Tick is the body of the
// periodic interrupt: it runs to completion, never waits on the USB side and
// does not allocate.
package firmware

import (
	"errors"
	"fmt"
	"log/slog"

	"caekeeb/core/debounce"
	"caekeeb/core/display"
	"caekeeb/core/keycode"
	"caekeeb/core/layout"
	"caekeeb/core/led"
	"caekeeb/core/matrix"
	"caekeeb/core/report"
	"caekeeb/hal"
	"caekeeb/kernel"
)

// DefaultMaxWriteRetries bounds the non-blocking write loop per report.
const DefaultMaxWriteRetries = 3

// CapsLockBit is the caps lock bit of the keyboard LED output report.
const CapsLockBit = 1 << 1

var ErrMissingDep = errors.New("firmware: missing dependency")

// Screen shows a sprite with an optional caption and flushes the panel.
type Screen interface {
	Show(s display.Sprite, caption string) error
}

type Config struct {
	MaxWriteRetries int
}

// Deps are the components a Firmware drives. Scanner, Debouncer, Layout,
// LEDs, Display and HID are required; the rest may be nil.
type Deps struct {
	Scanner   *matrix.Scanner
	Debouncer *debounce.Debouncer
	Layout    *layout.Layout
	Assembler *report.Assembler
	LEDs      *led.Animator
	Display   *display.Animator

	HID        hal.HID
	Alarm      hal.Alarm
	Watchdog   hal.Watchdog
	Strip      hal.Strip
	Screen     Screen
	Bootloader hal.Bootloader
	StatusLED  hal.LED
	Logger     *slog.Logger
}

// Stats is a snapshot of the counters kept by Tick. Customs counts firmware
// actions taken from the key map; LastCustom is the latest of them.
type Stats struct {
	Ticks       uint32
	Presses     uint32
	ScanErrors  uint32
	Dropped     uint32
	StripErrors uint32
	ShowErrors  uint32
	Customs     uint32
	Mode        led.Mode
	LightsOn    bool
	CapsLock    bool
	Layer       int
	LastCustom  layout.Custom
}

type Firmware struct {
	cfg Config
	d   Deps
	log *slog.Logger

	keys func(yield func(keycode.Code) bool)

	kb, sentKB     report.Keyboard
	cons, sentCons report.Consumer

	stats  Stats
	shared kernel.Shared[Stats]
}

func New(cfg Config, d Deps) (*Firmware, error) {
	switch {
	case d.Scanner == nil:
		return nil, fmt.Errorf("%w: scanner", ErrMissingDep)
	case d.Debouncer == nil:
		return nil, fmt.Errorf("%w: debouncer", ErrMissingDep)
	case d.Layout == nil:
		return nil, fmt.Errorf("%w: layout", ErrMissingDep)
	case d.LEDs == nil:
		return nil, fmt.Errorf("%w: led animator", ErrMissingDep)
	case d.Display == nil:
		return nil, fmt.Errorf("%w: display animator", ErrMissingDep)
	case d.HID == nil:
		return nil, fmt.Errorf("%w: hid", ErrMissingDep)
	}
	if d.Scanner.Rows() != d.Layout.Rows() || d.Scanner.Cols() != d.Layout.Cols() {
		return nil, fmt.Errorf("firmware: matrix is %dx%d but key map is %dx%d: %w",
			d.Scanner.Rows(), d.Scanner.Cols(), d.Layout.Rows(), d.Layout.Cols(), matrix.ErrDimensions)
	}
	if cfg.MaxWriteRetries <= 0 {
		cfg.MaxWriteRetries = DefaultMaxWriteRetries
	}
	if d.Assembler == nil {
		d.Assembler = report.NewAssembler()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	f := &Firmware{
		cfg: cfg,
		d:   d,
		log: d.Logger.With("component", "firmware"),
	}
	// Bound once; a method value created per tick would escape.
	f.keys = d.Layout.Keycodes
	f.stats.Mode = d.LEDs.Mode()
	f.stats.LightsOn = d.LEDs.Enabled()
	f.shared.Store(f.stats)

	f.log.Info("firmware ready",
		"rows", d.Scanner.Rows(),
		"cols", d.Scanner.Cols(),
		"leds", d.LEDs.Len(),
		"mode", d.LEDs.Mode().String(),
		"debounce", d.Debouncer.Threshold(),
		"retries", cfg.MaxWriteRetries,
	)
	return f, nil
}

// Stats returns the counters as of the last completed tick. It is safe to
// call from any goroutine.
func (f *Firmware) Stats() Stats { return f.shared.Load() }

// Tick runs one period. A scan error is returned and ends the tick early;
// the caller treats it as fatal.
func (f *Firmware) Tick() error {
	if f.d.Alarm != nil {
		f.d.Alarm.Rearm()
	}
	if f.d.Watchdog != nil {
		f.d.Watchdog.Feed()
	}
	f.stats.Ticks++

	snap, err := f.d.Scanner.Scan()
	if err != nil {
		f.stats.ScanErrors++
		f.shared.Store(f.stats)
		return err
	}
	for _, e := range f.d.Debouncer.Events(snap) {
		if e.Kind == matrix.Press {
			f.stats.Presses++
			f.d.LEDs.HandleKeypress()
			f.d.Display.HandleKeypress()
		}
		f.d.Layout.Event(e)
	}

	if c, ok := f.d.Layout.Tick(); ok {
		f.apply(c)
	}
	f.stats.Layer = f.d.Layout.CurrentLayer()

	f.kb, f.cons = f.d.Assembler.Build(f.keys)
	if f.kb != f.sentKB && f.write(false, f.kb[:]) {
		f.sentKB = f.kb
	}
	if f.cons != f.sentCons && f.write(true, f.cons[:]) {
		f.sentCons = f.cons
	}

	f.d.LEDs.Tick()
	f.d.Display.Tick()

	if f.d.Strip != nil {
		if err := f.d.Strip.Write(f.d.LEDs.Frame()); err != nil {
			f.stats.StripErrors++
		}
	}
	if f.d.Display.TakeDirty() && f.d.Screen != nil {
		if err := f.d.Screen.Show(f.d.Display.Sprite(), f.d.Display.Caption()); err != nil {
			f.stats.ShowErrors++
		}
	}

	f.drainOutputReports()
	f.shared.Store(f.stats)
	return nil
}

// write retries a report a bounded number of times. A report that is never
// accepted stays unsent and is retried on the next tick.
func (f *Firmware) write(consumer bool, r []byte) bool {
	for i := 0; i < f.cfg.MaxWriteRetries; i++ {
		var ok bool
		if consumer {
			ok = f.d.HID.WriteConsumer(r)
		} else {
			ok = f.d.HID.WriteKeyboard(r)
		}
		if ok {
			return true
		}
	}
	f.stats.Dropped++
	return false
}

func (f *Firmware) apply(c layout.Custom) {
	f.stats.Customs++
	f.stats.LastCustom = c
	switch c.Kind {
	case layout.ModeNext:
		f.setMode(f.d.LEDs.Mode().Next())
	case layout.ModePrev:
		f.setMode(f.d.LEDs.Mode().Prev())
	case layout.ModeSet:
		if m := led.Mode(c.Arg); m.Valid() {
			f.setMode(m)
		}
	case layout.LightsToggle:
		on := !f.d.LEDs.Enabled()
		f.d.LEDs.SetEnabled(on)
		f.stats.LightsOn = on
		if on {
			f.d.Display.SetCaption("lights on")
		} else {
			f.d.Display.SetCaption("lights off")
		}
	case layout.Bootloader:
		if f.d.Bootloader != nil {
			f.d.Bootloader.Reset()
		}
	}
}

func (f *Firmware) setMode(m led.Mode) {
	f.d.LEDs.SetMode(m)
	f.stats.Mode = m
	f.d.Display.SetCaption(m.String())
}

func (f *Firmware) drainOutputReports() {
	mb := f.d.HID.OutputReports()
	if mb == nil {
		return
	}
	for {
		msg, ok := mb.TryRecv()
		if !ok {
			return
		}
		if msg.Kind != kernel.MsgKeyboardLEDs || msg.Len == 0 {
			continue
		}
		caps := msg.Data[0]&CapsLockBit != 0
		f.stats.CapsLock = caps
		if f.d.StatusLED == nil {
			continue
		}
		if caps {
			f.d.StatusLED.High()
		} else {
			f.d.StatusLED.Low()
		}
	}
}
