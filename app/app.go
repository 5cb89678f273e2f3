// Package app wires the keyboard together from a hal.HAL.
//
// The tick runs from the board alarm. Everything slow (logging, the fatal
// screen and, on the board, OLED flushes) happens in Poll, which the main
// goroutine calls in a loop.
package app

//go:generate go run ../cmd/keymapc -o keymap_default.go ../keymaps/default.yaml

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"caekeeb/core/debounce"
	"caekeeb/core/display"
	"caekeeb/core/firmware"
	"caekeeb/core/layout"
	"caekeeb/core/led"
	"caekeeb/core/matrix"
	"caekeeb/hal"
	"caekeeb/internal/buildinfo"
	"caekeeb/internal/config"
	"caekeeb/kernel"
)

// ErrFault is returned by Poll once the tick has stopped.
var ErrFault = errors.New("app: tick stopped")

type Options struct {
	Config config.Config
	// Layers replaces the built-in key map when set.
	Layers layout.Layers
	Logger *slog.Logger
	// DeferScreen moves OLED flushes out of the tick into Poll. The board
	// needs this: a full I2C flush takes longer than a tick.
	DeferScreen bool
}

// System is a wired keyboard.
type System struct {
	h   hal.HAL
	cfg config.Config
	log *slog.Logger

	fw     *firmware.Firmware
	leds   *led.Animator
	screen *deferredScreen

	halted   atomic.Bool
	fault    kernel.Shared[error]
	reported bool
	last     firmware.Stats
}

// DefaultLayers returns the built-in key map.
func DefaultLayers() layout.Layers { return defaultLayers }

// New builds every component. Nothing runs until Start.
func New(h hal.HAL, opts Options) (*System, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	layers := opts.Layers
	if layers == nil {
		layers = defaultLayers
	}

	rows, cols := h.Matrix()
	if len(rows) < cfg.Matrix.Rows || len(cols) < cfg.Matrix.Cols {
		return nil, fmt.Errorf("app: board has a %dx%d matrix, config wants %dx%d: %w",
			len(rows), len(cols), cfg.Matrix.Rows, cfg.Matrix.Cols, matrix.ErrDimensions)
	}
	scanner, err := matrix.NewScanner(matrix.ScannerConfig{
		Rows:        rows[:cfg.Matrix.Rows],
		Cols:        cols[:cfg.Matrix.Cols],
		ColumnOrder: cfg.Matrix.ColumnOrder,
		Delay:       h.Delay(),
		Settle:      cfg.Matrix.Settle,
	})
	if err != nil {
		return nil, fmt.Errorf("app: matrix: %w", err)
	}
	lay, err := layout.New(layers)
	if err != nil {
		return nil, fmt.Errorf("app: key map: %w", err)
	}

	s := &System{h: h, cfg: cfg, log: log.With("component", "app")}
	s.leds = led.New(cfg.LED.Count, h.Random(), cfg.LEDTiming())
	s.leds.SetMode(cfg.LEDMode())

	var screen firmware.Screen
	if d := h.Display(); d != nil {
		if opts.DeferScreen {
			s.screen = &deferredScreen{d: d}
			screen = s.screen
		} else {
			screen = panel{d: d}
		}
		if err := showText(d, "caekeeb", buildinfo.Short()); err != nil {
			s.log.Warn("boot screen", "err", err)
		}
	}
	var dog hal.Watchdog
	if cfg.Tick.WatchdogTimeout > 0 {
		dog = h.Watchdog()
	}

	s.fw, err = firmware.New(firmware.Config{MaxWriteRetries: cfg.Tick.MaxWriteRetries}, firmware.Deps{
		Scanner:    scanner,
		Debouncer:  debounce.New(cfg.Debounce.Threshold),
		Layout:     lay,
		LEDs:       s.leds,
		Display:    display.New(cfg.Display.Timeout),
		HID:        h.HID(),
		Alarm:      h.Alarm(),
		Watchdog:   dog,
		Strip:      h.Strip(),
		Screen:     screen,
		Bootloader: h.Bootloader(),
		StatusLED:  h.LED(),
		Logger:     log,
	})
	if err != nil {
		return nil, err
	}
	s.last = s.fw.Stats()
	return s, nil
}

// Firmware exposes the orchestrator, mainly for its Stats.
func (s *System) Firmware() *firmware.Firmware { return s.fw }

// Start arms the watchdog and the tick alarm.
func (s *System) Start() error {
	if s.cfg.Tick.WatchdogTimeout > 0 {
		if err := s.h.Watchdog().Start(s.cfg.Tick.WatchdogTimeout); err != nil {
			return fmt.Errorf("app: watchdog: %w", err)
		}
	}
	if err := s.h.Alarm().Start(s.cfg.Tick.Period, s.tick); err != nil {
		return fmt.Errorf("app: alarm: %w", err)
	}
	s.log.Info("started",
		"version", buildinfo.Short(),
		"period", s.cfg.Tick.Period,
		"watchdog", s.cfg.Tick.WatchdogTimeout,
	)
	return nil
}

// tick is the alarm handler. After a failure it returns at once, so the
// watchdog is no longer fed and resets the board.
func (s *System) tick() {
	if s.halted.Load() {
		s.h.Alarm().Rearm()
		return
	}
	s.runTick()
}

func (s *System) fail(err error) {
	s.fault.Store(err)
	s.halted.Store(true)
}

// Poll logs what changed since the last call and flushes a deferred screen
// update. After a tick failure it shows the error and returns ErrFault.
func (s *System) Poll() error {
	if s.halted.Load() {
		err := s.fault.Load()
		if !s.reported {
			s.reported = true
			s.log.Error("tick failed, waiting for the watchdog", "err", err)
			if d := s.h.Display(); d != nil {
				_ = showText(d, "FAULT", err.Error())
			}
		}
		return fmt.Errorf("%w: %v", ErrFault, err)
	}

	if s.screen != nil {
		if err := s.screen.flush(); err != nil {
			s.log.Warn("screen", "err", err)
		}
	}
	s.report(s.fw.Stats())
	return nil
}

func (s *System) report(st firmware.Stats) {
	prev := s.last
	s.last = st
	if st.Customs != prev.Customs {
		s.log.Info("key map action", "action", st.LastCustom.Kind.String())
	}
	if st.Mode != prev.Mode {
		s.log.Info("led mode", "mode", st.Mode.String())
	}
	if st.LightsOn != prev.LightsOn {
		s.log.Info("lights", "on", st.LightsOn)
	}
	if st.CapsLock != prev.CapsLock {
		s.log.Info("caps lock", "on", st.CapsLock)
	}
	if st.Layer != prev.Layer {
		s.log.Debug("layer", "layer", st.Layer)
	}
	if st.Dropped != prev.Dropped {
		s.log.Warn("hid reports not accepted", "total", st.Dropped)
	}
	if st.StripErrors != prev.StripErrors {
		s.log.Warn("strip write failed", "total", st.StripErrors)
	}
	if st.ShowErrors != prev.ShowErrors {
		s.log.Warn("screen update failed", "total", st.ShowErrors)
	}
}
