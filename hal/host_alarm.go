//go:build !tinygo

package hal

import (
	"errors"
	"sync"
	"time"
)

// hostAlarm stands in for the timer interrupt. The runners call fire once
// per simulated period; in real time mode catchUp converts elapsed wall
// time into a number of periods the way a hardware timer would accrue them.
type hostAlarm struct {
	mu     sync.Mutex
	period time.Duration
	fn     func()
	fired  uint64
	rearms uint64

	last time.Time
	acc  time.Duration
}

func (a *hostAlarm) Start(period time.Duration, fn func()) error {
	if period <= 0 {
		return errors.New("hal: alarm period must be positive")
	}
	if fn == nil {
		return errors.New("hal: alarm handler is nil")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fn != nil {
		return errors.New("hal: alarm already started")
	}
	a.period = period
	a.fn = fn
	return nil
}

func (a *hostAlarm) Rearm() {
	a.mu.Lock()
	a.rearms++
	a.mu.Unlock()
}

func (a *hostAlarm) Period() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.period
}

func (a *hostAlarm) Fired() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fired
}

// fire runs the handler once. The handler runs without the alarm lock so
// it may call Rearm.
func (a *hostAlarm) fire() error {
	a.mu.Lock()
	fn := a.fn
	if fn != nil {
		a.fired++
	}
	a.mu.Unlock()
	if fn == nil {
		return errors.New("hal: alarm not started")
	}
	fn()
	return nil
}

// catchUp returns how many periods have elapsed since the previous call,
// capped at limit so a stalled window does not replay seconds of ticks.
func (a *hostAlarm) catchUp(now time.Time, limit int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.period <= 0 {
		return 0
	}
	if a.last.IsZero() {
		a.last = now
		a.acc = 0
		return 1
	}

	a.acc += now.Sub(a.last)
	a.last = now

	n := int(a.acc / a.period)
	if n == 0 {
		return 0
	}
	a.acc = a.acc % a.period
	if n > limit {
		n = limit
	}
	return n
}

// hostWatchdog measures time in alarm periods. It expires when more than
// timeout has passed in simulated time since the last Feed.
type hostWatchdog struct {
	mu      sync.Mutex
	alarm   *hostAlarm
	timeout time.Duration
	started bool
	fedAt   uint64
}

func (w *hostWatchdog) Start(timeout time.Duration) error {
	if timeout <= 0 {
		return errors.New("hal: watchdog timeout must be positive")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.timeout = timeout
	w.started = true
	w.fedAt = w.alarm.Fired()
	return nil
}

func (w *hostWatchdog) Feed() {
	now := w.alarm.Fired()
	w.mu.Lock()
	w.fedAt = now
	w.mu.Unlock()
}

func (w *hostWatchdog) expired() bool {
	now := w.alarm.Fired()
	period := w.alarm.Period()
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started || period <= 0 {
		return false
	}
	return time.Duration(now-w.fedAt)*period > w.timeout
}
