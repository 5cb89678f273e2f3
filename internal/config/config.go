// Package config holds the firmware settings shared by the board build and
// the host simulator.
//
// The struct tags serve three readers: kong builds the host command line from
// help/default tags and resolves config files through its loaders, while the
// yaml and toml tags name the same keys for direct decoding. A section
// prefix and a field name join with a dash, so the flag --tick-watchdog-timeout
// is the key watchdog-timeout in the tick section of a YAML or TOML file and
// tick_watchdog_timeout in a flat JSON file. The board build only ever uses
// Default.
package config

import (
	"errors"
	"fmt"
	"time"

	"caekeeb/core/debounce"
	"caekeeb/core/display"
	"caekeeb/core/led"
	"caekeeb/core/matrix"
)

var ErrInvalid = errors.New("config: invalid")

type Matrix struct {
	Rows        int           `help:"Matrix rows." default:"5" yaml:"rows" toml:"rows"`
	Cols        int           `help:"Matrix columns." default:"16" yaml:"cols" toml:"cols"`
	Settle      time.Duration `help:"Delay after releasing a row." default:"5us" yaml:"settle" toml:"settle"`
	ColumnOrder []int         `help:"Physical pin index for each logical column." sep:"," yaml:"column-order" toml:"column-order"`
}

type Debounce struct {
	Threshold uint16 `help:"Consecutive identical scans before a key changes." default:"15" yaml:"threshold" toml:"threshold"`
}

type LED struct {
	Count     int    `help:"LEDs on the strip." default:"16" yaml:"count" toml:"count"`
	Mode      string `help:"Initial animation (rainbow, lightning, chase, chase2)." default:"rainbow" yaml:"mode" toml:"mode"`
	Rainbow   uint16 `help:"Ticks per rainbow step." default:"10" yaml:"rainbow" toml:"rainbow"`
	Lightning uint16 `help:"Ticks per lightning step." default:"10" yaml:"lightning" toml:"lightning"`
	Chase     uint16 `help:"Ticks per chase step." default:"10" yaml:"chase" toml:"chase"`
	Chase2    uint16 `name:"chase2" help:"Ticks per mirrored chase step." default:"100" yaml:"chase2" toml:"chase2"`
}

type Display struct {
	Timeout uint32 `help:"Ticks without a keypress before the sprite goes idle." default:"400" yaml:"timeout" toml:"timeout"`
}

type Tick struct {
	Period          time.Duration `help:"Scan period." default:"1ms" yaml:"period" toml:"period"`
	WatchdogTimeout time.Duration `help:"Watchdog timeout; zero disables it." default:"10ms" yaml:"watchdog-timeout" toml:"watchdog-timeout"`
	MaxWriteRetries int           `help:"Non-blocking HID write attempts per report and tick." default:"3" yaml:"max-write-retries" toml:"max-write-retries"`
}

type Config struct {
	Matrix   Matrix   `embed:"" prefix:"matrix-" yaml:"matrix" toml:"matrix"`
	Debounce Debounce `embed:"" prefix:"debounce-" yaml:"debounce" toml:"debounce"`
	LED      LED      `embed:"" prefix:"led-" yaml:"led" toml:"led"`
	Display  Display  `embed:"" prefix:"display-" yaml:"display" toml:"display"`
	Tick     Tick     `embed:"" prefix:"tick-" yaml:"tick" toml:"tick"`
}

// Default matches the Pico board at a 1 kHz scan rate.
func Default() Config {
	t := led.DefaultTiming()
	return Config{
		Matrix:   Matrix{Rows: 5, Cols: 16, Settle: 5 * time.Microsecond},
		Debounce: Debounce{Threshold: debounce.DefaultThreshold},
		LED: LED{
			Count:     16,
			Mode:      led.Rainbow.String(),
			Rainbow:   t.Rainbow,
			Lightning: t.Lightning,
			Chase:     t.Chase,
			Chase2:    t.Chase2,
		},
		Display: Display{Timeout: display.DefaultTimeout},
		Tick: Tick{
			Period:          time.Millisecond,
			WatchdogTimeout: 10 * time.Millisecond,
			MaxWriteRetries: 3,
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	m := c.Matrix
	if m.Rows < 1 || m.Rows > matrix.MaxRows {
		return fmt.Errorf("%w: matrix rows %d not in 1..%d", ErrInvalid, m.Rows, matrix.MaxRows)
	}
	if m.Cols < 1 || m.Cols > matrix.MaxCols {
		return fmt.Errorf("%w: matrix cols %d not in 1..%d", ErrInvalid, m.Cols, matrix.MaxCols)
	}
	if m.Settle < 0 || m.Settle >= c.Tick.Period {
		return fmt.Errorf("%w: settle %v must be shorter than the tick", ErrInvalid, m.Settle)
	}
	if len(m.ColumnOrder) > 0 {
		if len(m.ColumnOrder) != m.Cols {
			return fmt.Errorf("%w: column order has %d entries, want %d", ErrInvalid, len(m.ColumnOrder), m.Cols)
		}
		seen := make([]bool, m.Cols)
		for _, p := range m.ColumnOrder {
			if p < 0 || p >= m.Cols || seen[p] {
				return fmt.Errorf("%w: column order %v is not a permutation", ErrInvalid, m.ColumnOrder)
			}
			seen[p] = true
		}
	}

	if c.LED.Count < 1 || c.LED.Count > led.MaxLEDs {
		return fmt.Errorf("%w: led count %d not in 1..%d", ErrInvalid, c.LED.Count, led.MaxLEDs)
	}
	if _, err := led.ParseMode(c.LED.Mode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.LED.Rainbow == 0 || c.LED.Lightning == 0 || c.LED.Chase == 0 || c.LED.Chase2 == 0 {
		return fmt.Errorf("%w: led step periods must be positive", ErrInvalid)
	}

	if c.Tick.Period <= 0 || c.Tick.Period > 100*time.Millisecond {
		return fmt.Errorf("%w: tick period %v not in (0, 100ms]", ErrInvalid, c.Tick.Period)
	}
	if c.Tick.WatchdogTimeout != 0 && c.Tick.WatchdogTimeout <= c.Tick.Period {
		return fmt.Errorf("%w: watchdog timeout %v must exceed the tick period", ErrInvalid, c.Tick.WatchdogTimeout)
	}
	if c.Tick.MaxWriteRetries < 1 {
		return fmt.Errorf("%w: max write retries must be at least 1", ErrInvalid)
	}
	return nil
}

// LEDMode returns the parsed initial mode. Call Validate first.
func (c Config) LEDMode() led.Mode {
	m, _ := led.ParseMode(c.LED.Mode)
	return m
}

func (c Config) LEDTiming() led.Timing {
	return led.Timing{
		Rainbow:   c.LED.Rainbow,
		Lightning: c.LED.Lightning,
		Chase:     c.LED.Chase,
		Chase2:    c.LED.Chase2,
	}
}
