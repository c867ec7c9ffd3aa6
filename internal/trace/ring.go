package trace

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// DefaultRingSize is the ring capacity used when none is given.
const DefaultRingSize = 4096

// RingTracer keeps the most recent events of a run in memory so they can be
// dumped when the run ends in an internal error.
type RingTracer struct {
	mu      sync.RWMutex
	buf     []Event
	start   int // oldest event
	n       int // events stored
	dropped uint64
	level   Level
}

// NewRingTracer returns a ring holding up to capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.n < len(t.buf) {
		t.buf[(t.start+t.n)%len(t.buf)] = *ev
		t.n++
		return
	}
	// full: overwrite the oldest
	t.buf[t.start] = *ev
	t.start = (t.start + 1) % len(t.buf)
	t.dropped++
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Event, t.n)
	for i := range out {
		out[i] = t.buf[(t.start+i)%len(t.buf)]
	}
	return out
}

// Dropped returns how many events were overwritten.
func (t *RingTracer) Dropped() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.dropped
}

// Dump writes the stored events in format. When older events were
// overwritten, a point event noting how many precedes them.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	if dropped := t.Dropped(); dropped > 0 {
		note := Event{
			Time:   time.Now(),
			Kind:   KindPoint,
			Scope:  ScopeRun,
			Name:   "ring",
			Detail: fmt.Sprintf("%d earlier events dropped", dropped),
		}
		if _, err := w.Write(FormatEvent(&note, format)); err != nil {
			return err
		}
	}
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }
func (t *RingTracer) Level() Level { return t.level }
func (t *RingTracer) Enabled() bool {
	return t.level > LevelOff
}
