//go:build tinygo && baremetal

package hal

import (
	"device/arm"
	"errors"
	"fmt"
	"machine"
	"machine/usb/hid"
	"time"

	"caekeeb/kernel"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/drivers/ws2812"
)

// Board wiring of the Pico keyboard.
var (
	rowPins = [...]machine.Pin{machine.GP19, machine.GP20, machine.GP21, machine.GP22, machine.GP26}
	colPins = [...]machine.Pin{
		machine.GP0, machine.GP1, machine.GP2, machine.GP3, machine.GP6, machine.GP7, machine.GP8, machine.GP9,
		machine.GP10, machine.GP11, machine.GP12, machine.GP14, machine.GP15, machine.GP16, machine.GP17, machine.GP18,
	}
)

const (
	stripPin   = machine.GP28
	oledSDA    = machine.GP4
	oledSCL    = machine.GP5
	oledAddr   = 0x3C
	oledWidth  = 128
	oledHeight = 64

	reportIDKeyboard = 2
	reportIDConsumer = 3
)

// usbBus guards the single USB device stack.
var usbBus kernel.Once

type tinyGoHAL struct {
	logger serialLogger
	led    *pinLED
	rows   []GPIOPin
	cols   []GPIOPin
	delay  *busyDelay
	alarm  *sysTickAlarm
	dog    *rp2Watchdog
	strip  *ws2812Strip
	oled   *ssd1306.Device
	hid    *usbHID
	rng    *xorshift
}

// New returns the Raspberry Pi Pico keyboard HAL. It may be called once.
func New() (HAL, error) {
	if err := usbBus.Claim(); err != nil {
		return nil, fmt.Errorf("hal: usb: %w", err)
	}

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	h := &tinyGoHAL{
		led:   &pinLED{pin: ledPin},
		delay: newBusyDelay(),
		alarm: &sysTickAlarm{},
		dog:   &rp2Watchdog{},
		rng:   newXorshift(),
	}
	for i, p := range rowPins {
		h.rows = append(h.rows, newMachinePin(fmt.Sprintf("ROW%d", i), p))
	}
	for i, p := range colPins {
		h.cols = append(h.cols, newMachinePin(fmt.Sprintf("COL%d", i), p))
	}

	stripPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	h.strip = newWS2812Strip(ws2812.New(stripPin))

	if err := machine.I2C0.Configure(machine.I2CConfig{
		Frequency: 400_000,
		SDA:       oledSDA,
		SCL:       oledSCL,
	}); err != nil {
		return nil, fmt.Errorf("hal: i2c: %w", err)
	}
	h.oled = ssd1306.NewI2C(machine.I2C0)
	h.oled.Configure(ssd1306.Config{Address: oledAddr, Width: oledWidth, Height: oledHeight})
	h.oled.ClearDisplay()

	h.hid = newUSBHID()
	hid.SetHandler(h.hid)
	return h, nil
}

func (h *tinyGoHAL) Logger() Logger                 { return h.logger }
func (h *tinyGoHAL) LED() LED                       { return h.led }
func (h *tinyGoHAL) Matrix() (rows, cols []GPIOPin) { return h.rows, h.cols }
func (h *tinyGoHAL) Delay() Delay                   { return h.delay }
func (h *tinyGoHAL) Alarm() Alarm                   { return h.alarm }
func (h *tinyGoHAL) Watchdog() Watchdog             { return h.dog }
func (h *tinyGoHAL) Strip() Strip                   { return h.strip }
func (h *tinyGoHAL) Display() drivers.Displayer     { return h.oled }
func (h *tinyGoHAL) HID() HID                       { return h.hid }
func (h *tinyGoHAL) Random() Random                 { return h.rng }
func (h *tinyGoHAL) Bootloader() Bootloader         { return romBootloader{} }

// sysTickAlarm runs the tick from the SysTick exception. SysTick reloads in
// hardware, so Rearm has nothing left to do. Its priority is lowered below
// the USB interrupt so USB traffic always preempts a tick.
type sysTickAlarm struct{}

var tickHandler func()

//go:export SysTick_Handler
func sysTickHandler() {
	if tickHandler != nil {
		tickHandler()
	}
}

func (*sysTickAlarm) Start(period time.Duration, fn func()) error {
	if period <= 0 || fn == nil {
		return errors.New("hal: bad alarm")
	}
	if tickHandler != nil {
		return errors.New("hal: alarm already started")
	}
	tickHandler = fn
	// Lowest priority (0xC0 on a 2-bit implementation) for SysTick.
	arm.SCB.SHPR3.Set(arm.SCB.SHPR3.Get()&^(0xFF<<24) | 0xC0<<24)
	cycles := uint32(uint64(machine.CPUFrequency()) * uint64(period) / uint64(time.Second))
	return arm.SetupSystemTimer(cycles)
}

func (*sysTickAlarm) Rearm() {}

type rp2Watchdog struct{}

func (*rp2Watchdog) Start(timeout time.Duration) error {
	ms := uint32(timeout / time.Millisecond)
	if ms == 0 {
		ms = 1
	}
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: ms}); err != nil {
		return err
	}
	return machine.Watchdog.Start()
}

func (*rp2Watchdog) Feed() { machine.Watchdog.Update() }

// ws2812Strip bit-bangs the frame with interrupts masked; a USB interrupt in
// the middle of a bit would latch garbage.
type ws2812Strip struct {
	dev   ws2812.Device
	frame []byte
	err   error
	send  func()
}

func newWS2812Strip(dev ws2812.Device) *ws2812Strip {
	s := &ws2812Strip{dev: dev}
	s.send = s.sendFrame
	return s
}

func (s *ws2812Strip) Write(grb []byte) error {
	s.frame = grb
	kernel.Lock(s.send)
	s.frame = nil
	return s.err
}

func (s *ws2812Strip) sendFrame() { _, s.err = s.dev.Write(s.frame) }

// usbHID is the keyboard and consumer interface on TinyGo's HID endpoint.
// The tick Offers reports into one slot per interface. If the endpoint is
// idle the report is sent at once, otherwise TxHandler sends it from the USB
// interrupt when the previous transfer completes.
type usbHID struct {
	kb   kernel.ReportSlot
	cons kernel.ReportSlot
	out  kernel.Mailbox
	busy bool
	tx   [1 + kernel.MaxReportBytes]byte
	// kick is bound once so write does not allocate a closure per report.
	kick func()
}

func newUSBHID() *usbHID {
	u := &usbHID{}
	u.kick = u.sendIfIdle
	return u
}

func (u *usbHID) WriteKeyboard(report []byte) bool { return u.write(&u.kb, report) }
func (u *usbHID) WriteConsumer(report []byte) bool { return u.write(&u.cons, report) }
func (u *usbHID) OutputReports() *kernel.Mailbox   { return &u.out }

func (u *usbHID) write(slot *kernel.ReportSlot, report []byte) bool {
	if !slot.Offer(report) {
		return false
	}
	// Ceiling: hold off the USB interrupt while deciding who sends.
	kernel.Lock(u.kick)
	return true
}

func (u *usbHID) sendIfIdle() {
	if !u.busy {
		u.busy = u.sendNext()
	}
}

func (u *usbHID) sendNext() bool {
	if n, ok := u.kb.Take(u.tx[1:]); ok {
		u.tx[0] = reportIDKeyboard
		hid.SendUSBPacket(u.tx[:1+n])
		return true
	}
	if n, ok := u.cons.Take(u.tx[1:]); ok {
		u.tx[0] = reportIDConsumer
		hid.SendUSBPacket(u.tx[:1+n])
		return true
	}
	return false
}

// TxHandler runs in the USB interrupt after an IN transfer completes.
func (u *usbHID) TxHandler() bool {
	u.busy = u.sendNext()
	return u.busy
}

// RxHandler receives the keyboard LED output report, with or without its
// report ID.
func (u *usbHID) RxHandler(b []byte) bool {
	var leds byte
	switch {
	case len(b) >= 2 && b[0] == reportIDKeyboard:
		leds = b[1]
	case len(b) == 1:
		leds = b[0]
	default:
		return false
	}
	u.out.TrySend(kernel.Message{Kind: kernel.MsgKeyboardLEDs, Len: 1, Data: [kernel.MaxMessageBytes]byte{leds}})
	return true
}
