package app

import (
	"log/slog"
	"time"

	"caekeeb/hal"
	"caekeeb/internal/config"
	"caekeeb/internal/logging"
)

// pollInterval paces the main loop. Screen flushes and log lines lag the
// tick by at most this much.
const pollInterval = 10 * time.Millisecond

// Run boots the board and never returns. A boot failure is logged, shown
// on the OLED and leaves the board halted with the watchdog off. A tick
// failure stops feeding the watchdog, which resets the board.
func Run(h hal.HAL, cfg config.Config) {
	log := logging.NewHAL(h.Logger(), slog.LevelInfo)
	s, err := New(h, Options{Config: cfg, Logger: log, DeferScreen: true})
	if err == nil {
		err = s.Start()
	}
	if err != nil {
		log.Error("boot failed", "err", err)
		if d := h.Display(); d != nil {
			_ = showText(d, "BOOT FAILED", err.Error())
		}
		select {}
	}
	for {
		if err := s.Poll(); err != nil {
			select {}
		}
		time.Sleep(pollInterval)
	}
}
