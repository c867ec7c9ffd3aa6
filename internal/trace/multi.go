package trace

import (
	"errors"
	"io"
)

// MultiTracer backs the "both" storage mode: events stream to the output
// and are kept in a ring for dumping after an internal error.
type MultiTracer struct {
	tracers []Tracer
	level   Level
}

// NewMultiTracer returns a tracer emitting to every non-nop tracer given.
func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	kept := make([]Tracer, 0, len(tracers))
	for _, tr := range tracers {
		if tr == nil || !tr.Enabled() {
			continue
		}
		kept = append(kept, tr)
	}
	return &MultiTracer{tracers: kept, level: level}
}

// Emit hands each tracer its own copy; tracers may stamp the event.
func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		cp := *ev
		tr.Emit(&cp)
	}
}

// Dump writes the events of the first tracer that buffers them.
func (t *MultiTracer) Dump(w io.Writer, format Format) error {
	for _, tr := range t.tracers {
		if d, ok := tr.(Dumper); ok {
			return d.Dump(w, format)
		}
	}
	return nil
}

func (t *MultiTracer) Flush() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

// Close closes every tracer and reports all failures.
func (t *MultiTracer) Close() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Level() Level  { return t.level }
func (t *MultiTracer) Enabled() bool { return t.level > LevelOff }
