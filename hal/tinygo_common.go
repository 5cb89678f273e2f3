//go:build tinygo && baremetal

package hal

import (
	"device/arm"
	"machine"
)

// machinePin adapts a machine.Pin to GPIOPin.
type machinePin struct {
	pin  machine.Pin
	name string
}

func newMachinePin(name string, p machine.Pin) *machinePin {
	return &machinePin{pin: p, name: name}
}

func (p *machinePin) Name() string { return p.name }

func (p *machinePin) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown
}

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	if err := checkConfig(p.name, p.Caps(), mode, pull); err != nil {
		return err
	}
	cfg := machine.PinConfig{Mode: machine.PinOutput}
	if mode == GPIOModeInput {
		switch pull {
		case GPIOPullUp:
			cfg.Mode = machine.PinInputPullup
		case GPIOPullDown:
			cfg.Mode = machine.PinInputPulldown
		default:
			cfg.Mode = machine.PinInput
		}
	}
	p.pin.Configure(cfg)
	return nil
}

func (p *machinePin) Read() (bool, error) { return p.pin.Get(), nil }

func (p *machinePin) Write(level bool) error {
	p.pin.Set(level)
	return nil
}

// serialLogger writes lines to the USB CDC serial port. The UART pins are
// taken by the matrix.
type serialLogger struct{}

func (serialLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		machine.Serial.WriteByte(s[i])
	}
	machine.Serial.WriteByte('\r')
	machine.Serial.WriteByte('\n')
}

func (serialLogger) WriteLineBytes(b []byte) {
	machine.Serial.Write(b)
	machine.Serial.WriteByte('\r')
	machine.Serial.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

// busyDelay spins on nop. One loop iteration takes about four cycles on a
// Cortex-M0+.
type busyDelay struct {
	loopsPerUS uint32
}

func newBusyDelay() *busyDelay {
	n := machine.CPUFrequency() / 1_000_000 / 4
	if n == 0 {
		n = 1
	}
	return &busyDelay{loopsPerUS: n}
}

func (d *busyDelay) DelayMicroseconds(us uint32) {
	for i := us * d.loopsPerUS; i > 0; i-- {
		arm.Asm("nop")
	}
}

// xorshift is seeded once from the hardware generator, which is too slow
// to call every tick.
type xorshift struct {
	s uint32
}

func newXorshift() *xorshift {
	seed, err := machine.GetRNG()
	if err != nil || seed == 0 {
		seed = 0x2545F491
	}
	return &xorshift{s: seed}
}

func (x *xorshift) Uint32() uint32 {
	x.s ^= x.s << 13
	x.s ^= x.s >> 17
	x.s ^= x.s << 5
	return x.s
}

type romBootloader struct{}

func (romBootloader) Reset() { machine.EnterBootloader() }
