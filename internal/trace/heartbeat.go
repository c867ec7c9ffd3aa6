package trace

import (
	"fmt"
	"strconv"
	"sync"
	"time"
)

// StallBeats is the number of consecutive beats without a finished unit,
// while units are open, after which a beat is marked as stalled.
const StallBeats = 3

// Heartbeat periodically reports how many unit spans are open. Beats that
// keep reporting open units with none finishing point at a hung subject.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// StartHeartbeat starts emitting beats every interval. It returns nil when
// tracing is disabled or interval is not positive.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}

	h := &Heartbeat{
		tracer:   tracer,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
	h.wg.Add(1)
	go h.run()
	return h
}

// beatState follows unit progress between beats.
type beatState struct {
	seq       uint64
	lastEnded uint64
	idle      int
}

// next records one beat given the current open and ended unit counts and
// reports whether the run looks stalled.
func (b *beatState) next(open int64, ended uint64) bool {
	b.seq++
	if open > 0 && ended == b.lastEnded {
		b.idle++
	} else {
		b.idle = 0
	}
	b.lastEnded = ended
	return b.idle >= StallBeats
}

func (h *Heartbeat) run() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	state := beatState{lastEnded: endedUnits.Load()}
	for {
		select {
		case <-ticker.C:
			open := openUnits.Load()
			stalled := state.next(open, endedUnits.Load())
			detail := fmt.Sprintf("#%d open=%d", state.seq, open)
			if stalled {
				detail += " stalled"
			}
			h.tracer.Emit(&Event{
				Time:   time.Now(),
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeRun,
				GID:    goroutineID(),
				Name:   "heartbeat",
				Detail: detail,
				Extra: map[string]string{
					"open_units": strconv.FormatInt(open, 10),
					"idle_beats": strconv.Itoa(state.idle),
				},
			})
		case <-h.stopCh:
			return
		}
	}
}

// Stop stops the heartbeat goroutine and waits for it. Safe on nil.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stopCh) })
	h.wg.Wait()
}
