package result

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"rtest/internal/corpus"
)

func TestSummarizeCountsByPhase(t *testing.T) {
	outcomes := []Outcome{
		passed("a.in", time.Second),
		failed("b.in", MemoryCheckFailure{Report: "leak"}),
		failed("c.in", ComparisonFailure{Stream: StreamStdout, Diff: "-x\n+y"}),
		failed("d.in", ComparisonFailure{Stream: StreamStderr, Diff: "-x\n+y"}),
		failed("e.c", CompilationFailure{Stderr: "error: expected ';'"}),
		failed("f.in", ToolInvocationFailure{Tool: "diff", Stream: StreamStdout, Message: "No such file"}),
		passed("g.in", 2*time.Second),
	}

	got := Summarize(outcomes)
	want := Summary{
		Total:       7,
		Passed:      2,
		Failed:      5,
		MemoryCheck: 1,
		Comparison:  2,
		Compilation: 1,
		Other:       1,
		Elapsed:     3 * time.Second,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	if got.AllPassed() {
		t.Fatalf("AllPassed should be false")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || !s.AllPassed() {
		t.Fatalf("unexpected summary for empty run: %+v", s)
	}
}

func TestPassAndFailKeepSingleCause(t *testing.T) {
	o := Pending(corpus.Unit{Path: "t/x.in"}, 3)
	if o.ExitCode != ExitCodeNotRun || o.Passed || o.Failure != nil {
		t.Fatalf("pending outcome = %+v", o)
	}
	o.Fail(CompilationFailure{Stderr: "boom"})
	if o.Passed || o.Failure == nil || !o.FailedWith(KindCompilation) {
		t.Fatalf("after Fail: %+v", o)
	}
	o.Pass()
	if !o.Passed || o.Failure != nil {
		t.Fatalf("after Pass: %+v", o)
	}
	if o.Name() != "x.in" {
		t.Fatalf("Name() = %q", o.Name())
	}
}

func TestStreamOf(t *testing.T) {
	cases := []struct {
		f    Failure
		want Stream
	}{
		{ComparisonFailure{Stream: StreamStderr}, StreamStderr},
		{ToolInvocationFailure{Tool: "diff", Stream: StreamStdout}, StreamStdout},
		{MemoryCheckFailure{}, StreamUnspecified},
		{CompilationFailure{}, StreamUnspecified},
	}
	for _, tc := range cases {
		if got := StreamOf(tc.f); got != tc.want {
			t.Fatalf("StreamOf(%T) = %v, want %v", tc.f, got, tc.want)
		}
	}
}

func passed(name string, d time.Duration) Outcome {
	o := Pending(corpus.Unit{Path: "t/" + name}, 0)
	o.ExitCode = 0
	o.Elapsed = d
	o.Pass()
	return o
}

func failed(name string, f Failure) Outcome {
	o := Pending(corpus.Unit{Path: "t/" + name}, 0)
	o.Fail(f)
	return o
}
