package hal

import (
	"errors"
	"time"

	"caekeeb/kernel"

	"tinygo.org/x/drivers"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var (
	ErrNotImplemented = errors.New("hal: not implemented")

	// ErrReset is returned by host runners after the firmware asked the
	// board to reboot into its bootloader.
	ErrReset = errors.New("hal: board reset requested")

	// ErrWatchdog is returned by host runners when the watchdog expired.
	ErrWatchdog = errors.New("hal: watchdog expired")
)

// Delay busy-waits without yielding. It is safe to call from an interrupt.
type Delay interface {
	DelayMicroseconds(us uint32)
}

// Alarm is the periodic timer interrupt that drives the firmware.
//
// Start installs fn as the interrupt handler; the handler calls Rearm first
// so the next period is scheduled even if the current one overruns.
type Alarm interface {
	Start(period time.Duration, fn func()) error
	Rearm()
}

// Watchdog resets the board unless Feed is called within the timeout.
type Watchdog interface {
	Start(timeout time.Duration) error
	Feed()
}

// Strip is an addressable LED chain. Write takes bytes in wire order (GRB).
type Strip interface {
	Write(grb []byte) error
}

// HID is the keyboard's USB interface.
//
// Writes never block: false means the endpoint still holds an unsent report
// and the caller should retry. Host output reports (keyboard LEDs) arrive on
// the mailbox as kernel.MsgKeyboardLEDs messages.
type HID interface {
	WriteKeyboard(report []byte) bool
	WriteConsumer(report []byte) bool
	OutputReports() *kernel.Mailbox
}

// Random yields pseudo-random 32-bit values.
type Random interface {
	Uint32() uint32
}

// Bootloader reboots the board into its firmware loader.
type Bootloader interface {
	Reset()
}

// HAL provides the only contact point between the firmware and the board.
type HAL interface {
	Logger() Logger
	LED() LED
	Matrix() (rows, cols []GPIOPin)
	Delay() Delay
	Alarm() Alarm
	Watchdog() Watchdog
	Strip() Strip
	Display() drivers.Displayer
	HID() HID
	Random() Random
	Bootloader() Bootloader
}
