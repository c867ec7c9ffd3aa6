package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"off", "error", "run", "unit", "STEP"} {
		lvl, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", name, err)
		}
		if lvl.String() != strings.ToLower(name) {
			t.Fatalf("ParseLevel(%q) = %s", name, lvl)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestShouldEmit(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeRun, false},
		{LevelRun, ScopeRun, true},
		{LevelRun, ScopeUnit, false},
		{LevelUnit, ScopeUnit, true},
		{LevelUnit, ScopeStep, false},
		{LevelStep, ScopeStep, true},
		{LevelError, ScopeUnit, true},
		{LevelError, ScopeStep, false},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Fatalf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelUnit, FormatText)

	run := Begin(tr, ScopeRun, "run", 0)
	unit := Begin(tr, ScopeUnit, "unit:a.in", run.ID())
	step := Begin(tr, ScopeStep, "diff:stdout", unit.ID())
	step.End("")
	unit.WithExtra("passed", "true").End("")
	run.End("1 units")

	out := buf.String()
	if !strings.Contains(out, "→ run") || !strings.Contains(out, "← run (1 units)") {
		t.Fatalf("missing run span:\n%s", out)
	}
	if !strings.Contains(out, "unit:a.in {passed=true}") {
		t.Fatalf("missing unit extra:\n%s", out)
	}
	if strings.Contains(out, "diff:stdout") {
		t.Fatalf("step event leaked at unit level:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelStep, FormatNDJSON)
	Point(tr, ScopeStep, "cleanup", "rtest_stdout0", 7)
	if err := tr.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if got["kind"] != "point" || got["scope"] != "step" || got["name"] != "cleanup" {
		t.Fatalf("unexpected event: %v", got)
	}
	if got["parent_id"] != float64(7) {
		t.Fatalf("parent_id = %v", got["parent_id"])
	}
}

func TestRingTracerWraps(t *testing.T) {
	tr := NewRingTracer(3, LevelStep)
	for i := range 5 {
		tr.Emit(&Event{Seq: uint64(i), Scope: ScopeStep, Name: "e"})
	}
	snap := tr.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("len = %d, want 3", len(snap))
	}
	for i, ev := range snap {
		if ev.Seq != uint64(i+2) {
			t.Fatalf("snap[%d].Seq = %d, want %d", i, ev.Seq, i+2)
		}
	}
	if tr.Dropped() != 2 {
		t.Fatalf("Dropped = %d, want 2", tr.Dropped())
	}
	var buf bytes.Buffer
	if err := tr.Dump(&buf, FormatText); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.Contains(buf.String(), "2 earlier events dropped") {
		t.Fatalf("dump lacks dropped note:\n%s", buf.String())
	}
}

func TestNewErrorLevelUsesRing(t *testing.T) {
	tr, err := New(Config{Level: LevelError, Mode: ModeStream})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ring, ok := tr.(*RingTracer)
	if !ok {
		t.Fatalf("tracer = %T, want *RingTracer", tr)
	}
	Begin(ring, ScopeUnit, "unit:x.in", 0).End("")

	var buf bytes.Buffer
	if err := DumpTo(tr, &buf); err != nil {
		t.Fatalf("DumpTo: %v", err)
	}
	if strings.Count(buf.String(), "unit:x.in") != 2 {
		t.Fatalf("dump:\n%s", buf.String())
	}
}

func TestNewBothPicksNDJSONByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ndjson")
	tr, err := New(Config{Level: LevelRun, Mode: ModeBoth, OutputPath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := tr.(*MultiTracer); !ok {
		t.Fatalf("tracer = %T, want *MultiTracer", tr)
	}
	Begin(tr, ScopeRun, "run", 0).End("")
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Fatalf("off tracer must be disabled")
	}
	span := Begin(tr, ScopeRun, "run", 0)
	if span.ID() != 0 || span.End("") != 0 {
		t.Fatalf("nop span should be inert")
	}
}

func TestContextPropagation(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != Nop {
		t.Fatalf("empty context should yield Nop")
	}
	tr := NewRingTracer(8, LevelUnit)
	ctx = WithTracer(ctx, tr)
	if FromContext(ctx) != tr {
		t.Fatalf("tracer not propagated")
	}
	span := Begin(tr, ScopeRun, "run", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx) != span.ID() {
		t.Fatalf("CurrentSpan = %d, want %d", CurrentSpan(ctx), span.ID())
	}
}

func TestHeartbeat(t *testing.T) {
	tr := NewRingTracer(64, LevelRun)
	hb := StartHeartbeat(tr, 5*time.Millisecond)
	if hb == nil {
		t.Fatalf("heartbeat not started")
	}
	deadline := time.Now().Add(2 * time.Second)
	for len(tr.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	hb.Stop()
	hb.Stop()
	snap := tr.Snapshot()
	if len(snap) == 0 || snap[0].Kind != KindHeartbeat {
		t.Fatalf("expected heartbeat events, got %v", snap)
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatalf("heartbeat on Nop tracer should be nil")
	}
}

func TestBeatStateStall(t *testing.T) {
	var b beatState
	for i := 0; i < StallBeats-1; i++ {
		if b.next(2, 0) {
			t.Fatalf("beat %d stalled too early", i+1)
		}
	}
	if !b.next(2, 0) {
		t.Fatalf("expected stall after %d idle beats", StallBeats)
	}
	if b.next(2, 1) {
		t.Fatalf("a finished unit must reset the stall")
	}
	for i := 0; i < StallBeats+1; i++ {
		if b.next(0, 1) {
			t.Fatalf("no open units is never a stall")
		}
	}
}

func TestStreamTracerBuffersStepsUntilUnitEvent(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelStep, FormatText)

	unit := Begin(tr, ScopeUnit, "unit:a.in", 0)
	flushed := buf.Len()
	if flushed == 0 {
		t.Fatalf("unit begin must be flushed")
	}
	Begin(tr, ScopeStep, "run", unit.ID()).End("")
	if buf.Len() != flushed {
		t.Fatalf("step events written before the unit ended:\n%s", buf.String())
	}
	unit.End("passed")
	if !strings.Contains(buf.String(), "← run") || !strings.Contains(buf.String(), "← unit:a.in (passed)") {
		t.Fatalf("unit end did not flush the steps:\n%s", buf.String())
	}
}

func TestMultiTracerDumpsItsRing(t *testing.T) {
	var out bytes.Buffer
	stream := NewStreamTracer(&out, LevelUnit, FormatText)
	ring := NewRingTracer(8, LevelUnit)
	tr := NewMultiTracer(LevelUnit, stream, Nop, ring)
	if len(tr.tracers) != 2 {
		t.Fatalf("disabled tracers must be dropped, got %d", len(tr.tracers))
	}

	Begin(tr, ScopeUnit, "unit:b.in", 0).End("failed")
	var dump bytes.Buffer
	if err := DumpTo(tr, &dump); err != nil {
		t.Fatalf("DumpTo: %v", err)
	}
	if strings.Count(dump.String(), "unit:b.in") != 2 || strings.Count(out.String(), "unit:b.in") != 2 {
		t.Fatalf("stream:\n%s\ndump:\n%s", out.String(), dump.String())
	}
}

func TestStartSpanNestsUnderCurrent(t *testing.T) {
	tr := NewRingTracer(8, LevelStep)
	ctx := WithTracer(context.Background(), tr)

	ctx, run := StartSpan(ctx, ScopeRun, "run")
	unitCtx, unit := StartSpan(ctx, ScopeUnit, "unit:c.in")
	if CurrentSpan(unitCtx) != unit.ID() || CurrentSpan(ctx) != run.ID() {
		t.Fatalf("span context not nested")
	}
	unit.End("")
	run.End("")

	snap := tr.Snapshot()
	if len(snap) != 4 || snap[1].ParentID != run.ID() {
		t.Fatalf("unexpected events: %+v", snap)
	}

	plain, span := StartSpan(context.Background(), ScopeRun, "run")
	if span.ID() != 0 || CurrentSpan(plain) != 0 {
		t.Fatalf("span without a tracer must be disabled")
	}
}
