package trace

import (
	"bufio"
	"io"
	"sync"
)

// StreamTracer writes events to an output as the run goes. Step events are
// buffered; the buffer is flushed on every run or unit event and on
// heartbeats, so a trace file of a hung run ends at the last finished unit.
type StreamTracer struct {
	mu     sync.Mutex
	out    io.Writer
	buf    *bufio.Writer
	level  Level
	format Format
	// first write error; tracing never fails a run
	werr error
}

// NewStreamTracer returns a tracer writing to w in format.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{
		out:    w,
		buf:    bufio.NewWriter(w),
		level:  level,
		format: format,
	}
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.buf.Write(data); err != nil {
		t.keep(err)
		return
	}
	if ev.Kind == KindHeartbeat || ev.Scope <= ScopeUnit {
		t.keep(t.buf.Flush())
	}
}

func (t *StreamTracer) keep(err error) {
	if t.werr == nil {
		t.werr = err
	}
}

// Flush writes buffered step events. It returns the first write error seen.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.keep(t.buf.Flush())
	return t.werr
}

// Close flushes and closes the output when it is an io.Closer.
func (t *StreamTracer) Close() error {
	err := t.Flush()
	if closer, ok := t.out.(io.Closer); ok {
		if cerr := closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
