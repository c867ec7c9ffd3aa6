package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"rtest/internal/harness"
)

// lineSink prints one colored line per finished unit. It is the progress
// display used when the TUI is off.
type lineSink struct {
	mu  sync.Mutex
	out io.Writer
}

func (s *lineSink) OnEvent(evt harness.Event) {
	if evt.Unit == "" {
		return
	}
	var line string
	switch evt.Status {
	case harness.StatusPassed:
		line = fmt.Sprintf("%s %s (%.2fs)", color.GreenString("PASS"), evt.Unit, evt.Elapsed.Seconds())
	case harness.StatusFailed:
		line = fmt.Sprintf("%s %s", color.RedString("FAIL"), evt.Unit)
		if evt.Err != nil {
			line += ": " + evt.Err.Error()
		}
	default:
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, line)
}
