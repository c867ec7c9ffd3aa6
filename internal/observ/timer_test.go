package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerRecordsStepsInOrder(t *testing.T) {
	timer := NewTimer()
	a := timer.Begin("compile")
	time.Sleep(time.Millisecond)
	timer.End(a, "")
	b := timer.Begin("run")
	timer.End(b, "exit 3")
	timer.End(42, "ignored")

	report := timer.Report()
	if len(report.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(report.Steps))
	}
	if report.Steps[0].Name != "compile" || report.Steps[1].Name != "run" {
		t.Fatalf("unexpected step order: %+v", report.Steps)
	}
	if report.Steps[0].DurationMS <= 0 {
		t.Fatalf("compile duration not recorded: %+v", report.Steps[0])
	}
	if report.Steps[1].Note != "exit 3" {
		t.Fatalf("note = %q", report.Steps[1].Note)
	}
	if report.TotalMS < report.Steps[0].DurationMS {
		t.Fatalf("total %f below first step %f", report.TotalMS, report.Steps[0].DurationMS)
	}
	if !strings.Contains(report.Summary(), "total") {
		t.Fatalf("summary lacks total line:\n%s", report.Summary())
	}
}

func TestEmptyReport(t *testing.T) {
	var timer *Timer
	if r := timer.Report(); len(r.Steps) != 0 || r.Summary() != "" {
		t.Fatalf("expected empty report, got %+v", r)
	}
}
