//go:build !tinygo

package hal

import (
	"sync"

	"caekeeb/kernel"
)

const (
	usageCapsLock = 0x39
	ledCapsLock   = 1 << 1
	maxReportLog  = 4096
)

// HIDReport is one report as received by the simulated host.
type HIDReport struct {
	Tick     uint64
	Consumer bool
	Len      int
	Data     [kernel.MaxReportBytes]byte
}

// Bytes returns the used part of Data.
func (r HIDReport) Bytes() []byte { return r.Data[:r.Len] }

// USBHost is both ends of the simulated HID link. The firmware side Offers
// reports into one slot per interface; poll plays the USB interrupt that
// drains them. The host toggles caps lock like a real OS does and sends the
// LED state back as an output report.
type USBHost struct {
	bus  kernel.Once
	kb   kernel.ReportSlot
	cons kernel.ReportSlot
	out  kernel.Mailbox

	mu      sync.Mutex
	reports []HIDReport
	seen    uint64
	capsOn  bool
	capsKey bool
	onRecv  func(HIDReport)
}

func newUSBHost() *USBHost { return &USBHost{} }

// Connect performs the simulated enumeration. The bus can be brought up
// once; later calls return kernel.ErrAlreadyInitialized.
func (u *USBHost) Connect() error { return u.bus.Claim() }

// Connected reports whether Connect has succeeded.
func (u *USBHost) Connected() bool { return u.bus.Claimed() }

func (u *USBHost) WriteKeyboard(report []byte) bool {
	if !u.bus.Claimed() {
		return false
	}
	return u.kb.Offer(report)
}

func (u *USBHost) WriteConsumer(report []byte) bool {
	if !u.bus.Claimed() {
		return false
	}
	return u.cons.Offer(report)
}

func (u *USBHost) OutputReports() *kernel.Mailbox { return &u.out }

// OnReport installs a callback run for every report the host receives.
func (u *USBHost) OnReport(fn func(HIDReport)) {
	u.mu.Lock()
	u.onRecv = fn
	u.mu.Unlock()
}

func (u *USBHost) poll(tick uint64) {
	var r HIDReport
	if n, ok := u.kb.Take(r.Data[:]); ok {
		r.Tick, r.Len = tick, n
		u.receive(r)
	}
	r = HIDReport{Consumer: true}
	if n, ok := u.cons.Take(r.Data[:]); ok {
		r.Tick, r.Len = tick, n
		u.receive(r)
	}
}

func (u *USBHost) receive(r HIDReport) {
	u.mu.Lock()
	u.seen++
	if len(u.reports) < maxReportLog {
		u.reports = append(u.reports, r)
	}
	fn := u.onRecv
	var toggled bool
	if !r.Consumer {
		caps := false
		for _, b := range r.Data[2:r.Len] {
			if b == usageCapsLock {
				caps = true
			}
		}
		if caps && !u.capsKey {
			u.capsOn = !u.capsOn
			toggled = true
		}
		u.capsKey = caps
	}
	capsOn := u.capsOn
	u.mu.Unlock()

	if toggled {
		var leds byte
		if capsOn {
			leds = ledCapsLock
		}
		u.out.TrySend(kernel.NewMessage(kernel.MsgKeyboardLEDs, []byte{leds}))
	}
	if fn != nil {
		fn(r)
	}
}

// Reports returns a copy of the received reports, oldest first. At most
// the first 4096 are kept.
func (u *USBHost) Reports() []HIDReport {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]HIDReport(nil), u.reports...)
}

// Received counts every report ever taken, including ones not logged.
func (u *USBHost) Received() uint64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.seen
}

// CapsLock reports the host's caps lock state.
func (u *USBHost) CapsLock() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.capsOn
}

// Pending reports whether either interface holds an unsent report.
func (u *USBHost) Pending() bool { return u.kb.Pending() || u.cons.Pending() }
