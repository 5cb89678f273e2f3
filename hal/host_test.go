//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"image/color"
	"io"
	"testing"
	"time"

	"caekeeb/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHost(t *testing.T) *Host {
	t.Helper()
	return NewHost(HostConfig{Rows: 2, Cols: 3, LEDs: 4, Out: io.Discard})
}

func TestVirtualMatrixElectrical(t *testing.T) {
	m := NewVirtualMatrix(2, 2)
	rows, cols := m.Pins()
	for _, p := range rows {
		require.NoError(t, p.Configure(GPIOModeOutput, GPIOPullNone))
		require.NoError(t, p.Write(true))
	}
	for _, p := range cols {
		require.NoError(t, p.Configure(GPIOModeInput, GPIOPullUp))
	}

	m.Set(1, 0, true)
	level, err := cols[0].Read()
	require.NoError(t, err)
	assert.True(t, level, "no row driven")

	require.NoError(t, rows[1].Write(false))
	level, _ = cols[0].Read()
	assert.False(t, level, "pressed key pulls the column low")
	level, _ = cols[1].Read()
	assert.True(t, level)

	require.NoError(t, rows[1].Write(true))
	require.NoError(t, rows[0].Write(false))
	level, _ = cols[0].Read()
	assert.True(t, level, "other row does not see the key")
}

func TestVirtualMatrixPinModes(t *testing.T) {
	m := NewVirtualMatrix(1, 1)
	rows, cols := m.Pins()
	assert.Error(t, rows[0].Configure(GPIOModeInput, GPIOPullUp))
	assert.Error(t, rows[0].Write(false), "unconfigured row")
	assert.Error(t, cols[0].Configure(GPIOModeOutput, GPIOPullNone))
	_, err := cols[0].Read()
	assert.Error(t, err, "unconfigured column")
	assert.Error(t, cols[0].Configure(GPIOModeInput, GPIOPullDown))
}

func TestAlarmAndWatchdog(t *testing.T) {
	h := newTestHost(t)
	assert.Error(t, h.Step(), "alarm not started")

	calls := 0
	require.NoError(t, h.Alarm().Start(time.Millisecond, func() {
		h.Alarm().Rearm()
		calls++
		if calls <= 5 {
			h.Watchdog().Feed()
		}
	}))
	assert.Error(t, h.Alarm().Start(time.Millisecond, func() {}), "started twice")
	require.NoError(t, h.Watchdog().Start(10*time.Millisecond))

	var err error
	for i := 0; i < 100 && err == nil; i++ {
		err = h.Step()
	}
	require.ErrorIs(t, err, ErrWatchdog)
	assert.Equal(t, uint64(16), h.Ticks(), "expires 11 periods after the last feed")
}

func TestAlarmCatchUp(t *testing.T) {
	a := &hostAlarm{}
	require.NoError(t, a.Start(time.Millisecond, func() {}))
	t0 := time.Unix(100, 0)
	assert.Equal(t, 1, a.catchUp(t0, 10))
	assert.Equal(t, 0, a.catchUp(t0.Add(500*time.Microsecond), 10))
	assert.Equal(t, 2, a.catchUp(t0.Add(2500*time.Microsecond), 10))
	assert.Equal(t, 10, a.catchUp(t0.Add(time.Second), 10), "capped")
}

func TestBootloaderResetStopsRun(t *testing.T) {
	h := newTestHost(t)
	require.NoError(t, h.Alarm().Start(time.Millisecond, func() {
		if h.Ticks() == 3 {
			h.Bootloader().Reset()
		}
	}))
	err := RunHeadless(context.Background(), h, nil, HeadlessConfig{Ticks: 10})
	assert.ErrorIs(t, err, ErrReset)
	assert.Equal(t, uint64(3), h.Ticks())
}

func TestUSBHostBackPressureAndCapsLock(t *testing.T) {
	h := newTestHost(t)
	usb := h.USB()
	assert.False(t, h.HID().WriteKeyboard([]byte{0, 0, 4}), "not enumerated")
	require.NoError(t, usb.Connect())
	assert.ErrorIs(t, usb.Connect(), kernel.ErrAlreadyInitialized)

	require.True(t, h.HID().WriteKeyboard([]byte{0, 0, usageCapsLock, 0, 0, 0, 0, 0}))
	assert.False(t, h.HID().WriteKeyboard([]byte{0, 0, 0, 0, 0, 0, 0, 0}), "slot still full")
	assert.True(t, usb.Pending())

	usb.poll(1)
	assert.False(t, usb.Pending())
	assert.True(t, usb.CapsLock())
	msg, ok := h.HID().OutputReports().TryRecv()
	require.True(t, ok)
	assert.Equal(t, kernel.MsgKeyboardLEDs, msg.Kind)
	assert.Equal(t, []byte{ledCapsLock}, msg.Payload())

	// Holding caps lock does not toggle again.
	require.True(t, h.HID().WriteKeyboard([]byte{0, 0, usageCapsLock, 0x04, 0, 0, 0, 0}))
	usb.poll(2)
	assert.True(t, usb.CapsLock())
	_, ok = h.HID().OutputReports().TryRecv()
	assert.False(t, ok)

	require.True(t, h.HID().WriteConsumer([]byte{0xE9, 0x00}))
	usb.poll(3)
	reports := usb.Reports()
	require.Len(t, reports, 3)
	assert.True(t, reports[2].Consumer)
	assert.Equal(t, []byte{0xE9, 0x00}, reports[2].Bytes())
	assert.Equal(t, uint64(3), usb.Received())
}

func TestFramebufferPublishesOnDisplay(t *testing.T) {
	h := newTestHost(t)
	d := h.Display()
	w, ht := d.Size()
	assert.Equal(t, int16(128), w)
	assert.Equal(t, int16(64), ht)

	d.SetPixel(3, 4, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	d.SetPixel(500, 4, color.RGBA{R: 255, A: 255})
	assert.False(t, h.Screen().Lit(3, 4), "not flushed yet")
	require.NoError(t, d.Display())
	assert.True(t, h.Screen().Lit(3, 4))
	assert.Equal(t, 1, h.Screen().Flushes())

	text := h.Screen().Text()
	assert.Contains(t, text, "▀")

	pix := make([]byte, 128*64*4)
	h.Screen().snapshotRGBA(pix, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	j := (4*128 + 3) * 4
	assert.Equal(t, []byte{255, 255, 255, 255}, pix[j:j+4])
}

func TestStripRoundTrip(t *testing.T) {
	h := newTestHost(t)
	require.NoError(t, h.Strip().Write([]byte{1, 2, 3}))
	c := h.StripFrame().Colors()
	require.Len(t, c, 4)
	assert.Equal(t, color.RGBA{R: 2, G: 1, B: 3, A: 255}, c[0])
	assert.Error(t, h.Strip().Write(make([]byte, 15)))
}

func TestParseScript(t *testing.T) {
	evs, err := ParseScript("10:0,1:tap=5 # comment\n2:1,2:press; 4:1,2:release")
	require.NoError(t, err)
	assert.Equal(t, []ScriptEvent{
		{Tick: 2, Row: 1, Col: 2, Pressed: true},
		{Tick: 4, Row: 1, Col: 2},
		{Tick: 10, Row: 0, Col: 1, Pressed: true},
		{Tick: 15, Row: 0, Col: 1},
	}, evs)

	for _, bad := range []string{"1:0:press", "x:0,0:press", "1:0,0:hold", "1:a,0:p", "1:0,0:tap=0"} {
		_, err := ParseScript(bad)
		assert.ErrorIs(t, err, ErrScript, bad)
	}
}

func TestRunHeadlessAppliesScript(t *testing.T) {
	h := newTestHost(t)
	rows, cols := h.Matrix()
	for _, p := range rows {
		require.NoError(t, p.Configure(GPIOModeOutput, GPIOPullNone))
		require.NoError(t, p.Write(false))
	}
	for _, p := range cols {
		require.NoError(t, p.Configure(GPIOModeInput, GPIOPullUp))
	}

	var seen []bool
	require.NoError(t, h.Alarm().Start(time.Millisecond, func() {
		level, _ := cols[2].Read()
		seen = append(seen, !level)
	}))

	script, err := ParseScript("2:1,2:tap=2")
	require.NoError(t, err)
	stepErr := errors.New("stop")
	steps := 0
	err = RunHeadless(context.Background(), h, func() error {
		steps++
		if steps == 6 {
			return stepErr
		}
		return nil
	}, HeadlessConfig{Script: script})
	assert.ErrorIs(t, err, stepErr)
	assert.Equal(t, []bool{false, true, true, false, false, false}, seen)
}

func TestRunHeadlessHonoursContext(t *testing.T) {
	h := newTestHost(t)
	require.NoError(t, h.Alarm().Start(time.Millisecond, func() {}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, RunHeadless(ctx, h, nil, HeadlessConfig{}), context.Canceled)
	assert.Error(t, RunHeadless(context.Background(), NewHost(HostConfig{Out: io.Discard}), nil, HeadlessConfig{}))
}
