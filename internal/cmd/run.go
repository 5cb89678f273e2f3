// Package cmd holds the host command line commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"caekeeb/app"
	"caekeeb/core/layout"
	"caekeeb/hal"
	"caekeeb/internal/config"
	"caekeeb/internal/keymap"
	"caekeeb/internal/logging"
)

// Run starts the simulator with the firmware settings parsed into CLI.
type Run struct {
	Headless   bool   `help:"Run without a window."`
	Ticks      uint64 `help:"Stop after N ticks; 0 runs until interrupted."`
	Realtime   bool   `help:"Pace headless ticks by the wall clock."`
	Script     string `help:"Key events such as '10:2,2:tap=30 50:4,15:press'."`
	ScriptFile string `help:"Read key events from a file." type:"existingfile"`
	Keymap     string `help:"YAML or TOML key map; the built-in map is used when empty." type:"existingfile"`
	USBEvery   int    `name:"usb-every" help:"Ticks between host USB polls; larger values make the host a slow reader." default:"1"`
	Seed       uint64 `help:"Random seed for the LED animations." default:"1"`
	Detached   bool   `help:"Leave USB unenumerated so every report is refused."`
	DumpScreen bool   `help:"Print the OLED as text when a headless run ends."`
}

func (r *Run) Run(logger *slog.Logger, cfg config.Config) error {
	var layers layout.Layers
	if r.Keymap != "" {
		l, err := keymap.LoadLayers(r.Keymap)
		if err != nil {
			return err
		}
		layers = l
	}

	script, err := r.script()
	if err != nil {
		return err
	}

	host := hal.NewHost(hal.HostConfig{
		Rows:     cfg.Matrix.Rows,
		Cols:     cfg.Matrix.Cols,
		LEDs:     cfg.LED.Count,
		Seed:     r.Seed,
		USBEvery: r.USBEvery,
		Out:      os.Stderr,
	})
	if !r.Detached {
		if err := host.USB().Connect(); err != nil {
			return err
		}
	}
	usbLog := logger.With("component", "usb")
	host.USB().OnReport(func(rep hal.HIDReport) {
		usbLog.Log(context.Background(), logging.LevelTrace, "report",
			"tick", rep.Tick, "consumer", rep.Consumer, "data", fmt.Sprintf("% x", rep.Bytes()))
	})

	sys, err := app.New(host, app.Options{Config: cfg, Layers: layers, Logger: logger})
	if err != nil {
		return err
	}
	if err := sys.Start(); err != nil {
		return err
	}

	if !r.Headless {
		return hal.RunWindow(host, sys.Poll)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = hal.RunHeadless(ctx, host, sys.Poll, hal.HeadlessConfig{
		Ticks:    r.Ticks,
		Realtime: r.Realtime,
		Script:   script,
	})
	switch {
	case errors.Is(err, context.Canceled):
		err = nil
	case errors.Is(err, hal.ErrReset):
		logger.Info("bootloader requested, stopping")
		err = nil
	}

	st := sys.Firmware().Stats()
	logger.Info("run finished",
		"ticks", host.Ticks(),
		"presses", st.Presses,
		"reports", host.USB().Received(),
		"dropped", st.Dropped,
		"mode", st.Mode.String(),
		"caps_lock", host.USB().CapsLock(),
	)
	if r.DumpScreen {
		fmt.Print(host.Screen().Text())
	}
	return err
}

func (r *Run) script() ([]hal.ScriptEvent, error) {
	src := r.Script
	if r.ScriptFile != "" {
		b, err := os.ReadFile(r.ScriptFile)
		if err != nil {
			return nil, err
		}
		src += "\n" + string(b)
	}
	return hal.ParseScript(src)
}
