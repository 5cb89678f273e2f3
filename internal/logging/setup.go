//go:build !tinygo

package logging

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// SetupLogger builds the host logger. Records below error go to stdout and
// errors to stderr, like any other command line tool. Format "auto" picks
// text on a terminal and JSON otherwise. A non-empty file receives every
// record as well; the returned closers must be closed on exit.
func SetupLogger(level, format, file string) (*slog.Logger, []io.Closer, error) {
	lvl := ParseLevel(level)
	if format == "" || format == "auto" {
		format = "json"
		if term.IsTerminal(int(os.Stdout.Fd())) {
			format = "text"
		}
	}

	hs := []slog.Handler{
		NewLevelFilter(func(l slog.Level) bool { return l < slog.LevelError }, New(os.Stdout, lvl, format).Handler()),
		NewLevelFilter(func(l slog.Level) bool { return l >= slog.LevelError }, New(os.Stderr, lvl, format).Handler()),
	}
	var closers []io.Closer
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, f)
		hs = append(hs, New(f, lvl, "text").Handler())
	}
	return slog.New(NewMultiHandler(hs...)), closers, nil
}
