//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"tinygo.org/x/drivers"
)

// HostConfig shapes the simulated board.
type HostConfig struct {
	Rows int
	Cols int
	// LEDs is the strip length.
	LEDs int
	Seed uint64
	// USBEvery is how many ticks pass between USB polls. Larger values make
	// the host a slow reader and exercise write back-pressure.
	USBEvery int
	Out      io.Writer
}

// Host is the desktop simulator of the keyboard. The runners drive its
// alarm, matrix and USB side; firmware code sees it only through HAL.
type Host struct {
	cfg    HostConfig
	logger *hostLogger
	led    *hostLED
	keys   *VirtualMatrix
	delay  *hostDelay
	alarm  *hostAlarm
	dog    *hostWatchdog
	strip  *StripView
	fb     *Framebuffer
	hid    *USBHost
	rng    *rand.Rand
	boot   *hostBootloader
}

// NewHost returns a host HAL implementation.
func NewHost(cfg HostConfig) *Host {
	if cfg.Rows <= 0 {
		cfg.Rows = 5
	}
	if cfg.Cols <= 0 {
		cfg.Cols = 16
	}
	if cfg.LEDs <= 0 {
		cfg.LEDs = 16
	}
	if cfg.USBEvery <= 0 {
		cfg.USBEvery = 1
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	logger := &hostLogger{w: cfg.Out}
	alarm := &hostAlarm{}
	return &Host{
		cfg:    cfg,
		logger: logger,
		led:    &hostLED{logger: logger},
		keys:   NewVirtualMatrix(cfg.Rows, cfg.Cols),
		delay:  &hostDelay{},
		alarm:  alarm,
		dog:    &hostWatchdog{alarm: alarm},
		strip:  newStripView(cfg.LEDs),
		fb:     newFramebuffer(128, 64),
		hid:    newUSBHost(),
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		boot:   &hostBootloader{},
	}
}

func (h *Host) Logger() Logger                 { return h.logger }
func (h *Host) LED() LED                       { return h.led }
func (h *Host) Matrix() (rows, cols []GPIOPin) { return h.keys.Pins() }
func (h *Host) Delay() Delay                   { return h.delay }
func (h *Host) Alarm() Alarm                   { return h.alarm }
func (h *Host) Watchdog() Watchdog             { return h.dog }
func (h *Host) Strip() Strip                   { return h.strip }
func (h *Host) Display() drivers.Displayer     { return h.fb }
func (h *Host) HID() HID                       { return h.hid }
func (h *Host) Random() Random                 { return h.rng }
func (h *Host) Bootloader() Bootloader         { return h.boot }

// Keys is the simulated switch matrix.
func (h *Host) Keys() *VirtualMatrix { return h.keys }

// Screen is the simulated OLED.
func (h *Host) Screen() *Framebuffer { return h.fb }

// StripFrame is the simulated LED strip.
func (h *Host) StripFrame() *StripView { return h.strip }

// USB is the host side of the HID link.
func (h *Host) USB() *USBHost { return h.hid }

// Ticks returns how many times the alarm has fired.
func (h *Host) Ticks() uint64 { return h.alarm.Fired() }

// SettleTime is the total busy-wait requested through Delay.
func (h *Host) SettleTime() time.Duration { return h.delay.Total() }

// Step fires the alarm once and services the USB side. It returns
// ErrReset or ErrWatchdog when the board would have rebooted.
func (h *Host) Step() error {
	if err := h.alarm.fire(); err != nil {
		return err
	}
	if h.alarm.Fired()%uint64(h.cfg.USBEvery) == 0 {
		h.hid.poll(h.alarm.Fired())
	}
	if h.boot.requested() {
		return ErrReset
	}
	if h.dog.expired() {
		return fmt.Errorf("%w after %d ticks", ErrWatchdog, h.alarm.Fired())
	}
	return nil
}

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.on {
		l.logger.WriteLineString("led: HIGH")
	}
	l.on = true
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.on {
		l.logger.WriteLineString("led: LOW")
	}
	l.on = false
}

// LEDOn reports the status LED, which mirrors caps lock.
func (h *Host) LEDOn() bool {
	h.led.mu.Lock()
	defer h.led.mu.Unlock()
	return h.led.on
}

// hostDelay only accounts for the requested time; the virtual matrix has
// no line capacitance to wait for.
type hostDelay struct {
	mu    sync.Mutex
	total time.Duration
}

func (d *hostDelay) DelayMicroseconds(us uint32) {
	d.mu.Lock()
	d.total += time.Duration(us) * time.Microsecond
	d.mu.Unlock()
}

func (d *hostDelay) Total() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.total
}

type hostBootloader struct {
	mu  sync.Mutex
	req bool
}

func (b *hostBootloader) Reset() {
	b.mu.Lock()
	b.req = true
	b.mu.Unlock()
}

func (b *hostBootloader) requested() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.req
}
