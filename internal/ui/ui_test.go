package ui

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rtest/internal/corpus"
	"rtest/internal/harness"
	"rtest/internal/history"
	"rtest/internal/i18n"
	"rtest/internal/result"
	"rtest/internal/toolchain"
)

func TestFold(t *testing.T) {
	cases := []struct {
		text  string
		width int
		want  string
	}{
		{"abcdef", 0, "abcdef"},
		{"abcdef", 3, "abc\ndef"},
		{"abcdefg", 3, "abc\ndef\ng"},
		{"ab\ncdef", 3, "ab\ncde\nf"},
		{"日本語", 4, "日本\n語"},
		{"", 5, ""},
	}
	for _, tc := range cases {
		if got := Fold(tc.text, tc.width); got != tc.want {
			t.Fatalf("Fold(%q, %d) = %q, want %q", tc.text, tc.width, got, tc.want)
		}
	}
}

func TestProblemTitle(t *testing.T) {
	d := i18n.MustLoad("EN_en")
	cases := []struct {
		f    result.Failure
		want string
	}{
		{result.MemoryCheckFailure{}, "Valgrind ERROR"},
		{result.CompilationFailure{}, "Compilation ERROR"},
		{result.ComparisonFailure{Stream: result.StreamStdout}, "Diff ERROR: Difference (stdout)"},
		{result.ComparisonFailure{Stream: result.StreamStderr}, "Diff ERROR: Difference (stderr)"},
		{result.ComparisonFailure{}, "Diff ERROR: Difference (not specified)"},
		{result.ToolInvocationFailure{Tool: toolchain.ToolDiff, Stream: result.StreamStderr}, "Diff ERROR: Trouble (stderr)"},
		{result.ToolInvocationFailure{Tool: toolchain.ToolProgram}, "SYSTEM: program failed"},
	}
	for _, tc := range cases {
		if got := ProblemTitle(d, tc.f); got != tc.want {
			t.Fatalf("ProblemTitle(%#v) = %q, want %q", tc.f, got, tc.want)
		}
	}
}

func sampleOutcomes() []result.Outcome {
	ok := result.Pending(corpus.Unit{Path: "testy/a.in"}, 0)
	ok.ExitCode = 0
	ok.Elapsed = 1500 * time.Millisecond
	ok.Warnings = "warning: unused variable 'x'"
	ok.Pass()

	bad := result.Pending(corpus.Unit{Path: "testy/b.in"}, 1)
	bad.Fail(result.ComparisonFailure{Stream: result.StreamStdout, Diff: strings.Repeat("x", 30)})
	return []result.Outcome{ok, bad}
}

func TestResultsTable(t *testing.T) {
	rep := NewReport(i18n.MustLoad("EN_en"), 10, io.Discard)
	out := rep.Results(sampleOutcomes())

	for _, want := range []string{"ID", "PROBLEM / EXITCODE", "a.in", "1.500 s", "TRUE", "| 0 |", "b.in", "FALSE", "Diff ERROR: Difference (stdout)", "xxxxxxxxxx"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table misses %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, strings.Repeat("x", 11)) {
		t.Fatalf("detail not folded:\n%s", out)
	}
}

func TestResultCellStyles(t *testing.T) {
	rep := NewReport(i18n.MustLoad("EN_en"), 0, io.Discard)
	outcomes := sampleOutcomes()

	if !rep.resultCell(outcomes, 0, 3).GetBold() {
		t.Fatalf("header row must be bold")
	}
	// rows 1 and 2 are the passed and the failed unit
	cases := []struct {
		row, col int
		want     lipgloss.TerminalColor
	}{
		{1, 3, lipgloss.Color("2")},
		{2, 3, lipgloss.Color("1")},
		{1, 1, lipgloss.Color("14")},
		{2, 2, lipgloss.Color("3")},
	}
	for _, tc := range cases {
		if got := rep.resultCell(outcomes, tc.row, tc.col).GetForeground(); got != tc.want {
			t.Fatalf("cell(%d,%d) foreground = %v, want %v", tc.row, tc.col, got, tc.want)
		}
	}
	if _, ok := rep.resultCell(outcomes, 3, 3).GetForeground().(lipgloss.NoColor); !ok {
		t.Fatalf("row past the data must be unstyled")
	}
	if got := dataRow(1); got != 0 {
		t.Fatalf("dataRow(1) = %d, want 0", got)
	}
}

func TestSummaryTable(t *testing.T) {
	rep := NewReport(i18n.MustLoad("PL_pl"), 0, io.Discard)
	out := rep.Summary(result.Summarize(sampleOutcomes()))
	for _, want := range []string{"RAZEM", "ZALICZONE", "BŁĘDY DIFFA", "BŁĘDY KOMPILACJI"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary misses %q:\n%s", want, out)
		}
	}
}

func TestWarningsAndChanges(t *testing.T) {
	rep := NewReport(i18n.MustLoad("EN_en"), 0, io.Discard)
	warn := rep.Warnings(sampleOutcomes())
	if !strings.Contains(warn, "Compilation warnings") || !strings.Contains(warn, "unused variable") {
		t.Fatalf("warnings = %q", warn)
	}
	if got := rep.Warnings(sampleOutcomes()[1:]); got != "" {
		t.Fatalf("expected no warnings, got %q", got)
	}

	changes := rep.Changes(history.Changes{Regressions: []string{"b.in"}, Fixes: []string{"c.in", "d.in"}})
	if !strings.Contains(changes, "Failing since last run: b.in") || !strings.Contains(changes, "c.in, d.in") {
		t.Fatalf("changes = %q", changes)
	}
}

func TestWriteHistoryLogIsPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryLogName)
	if err := WriteHistoryLog(path, i18n.MustLoad("EN_en"), 200, sampleOutcomes()); err != nil {
		t.Fatalf("WriteHistoryLog: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(data), "\x1b[") {
		t.Fatalf("history log contains escape sequences")
	}
	if !strings.Contains(string(data), "b.in") {
		t.Fatalf("history log misses rows:\n%s", data)
	}
}

func TestProgressModelTracksEvents(t *testing.T) {
	events := make(chan harness.Event)
	m := NewProgressModel("Running tests", []string{"testy/a.in", "testy/b.in"}, events, nil).(*progressModel)

	m.applyEvent(harness.Event{Stage: harness.StageLoad, Status: harness.StatusWorking})
	if m.stageLabel != "loading" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}
	m.applyEvent(harness.Event{Unit: "testy/a.in", Stage: harness.StageRun, Status: harness.StatusWorking})
	if m.items[0].status != "running" {
		t.Fatalf("status = %q", m.items[0].status)
	}
	m.applyEvent(harness.Event{Unit: "testy/a.in", Status: harness.StatusPassed})
	m.applyEvent(harness.Event{Unit: "testy/b.in", Status: harness.StatusFailed})
	m.applyEvent(harness.Event{Unit: "testy/unknown.in", Status: harness.StatusFailed})
	if m.passed != 1 || m.failed != 1 {
		t.Fatalf("passed=%d failed=%d", m.passed, m.failed)
	}

	view := m.View()
	if !strings.Contains(view, "2/2") || !strings.Contains(view, "testy/b.in") {
		t.Fatalf("view:\n%s", view)
	}

	close(events)
	if _, ok := m.listenForEvent()().(doneMsg); !ok {
		t.Fatalf("closed channel must finish the model")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefgh", 5); got != "ab..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("testy/long_unit_name.in", 12); got != "testy/lon..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 5); got != "abc" {
		t.Fatalf("truncate = %q", got)
	}
}

func TestProgressModelQuitCancelsRun(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
	} {
		ctx, cancel := context.WithCancel(context.Background())
		events := make(chan harness.Event)
		m := NewProgressModel("Running tests", []string{"testy/a.in"}, events, cancel).(*progressModel)

		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("%s: expected a quit command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s: command is not tea.Quit", key)
		}
		if ctx.Err() == nil {
			t.Fatalf("%s: run context not cancelled", key)
		}
		if !strings.Contains(m.View(), "cancelled") {
			t.Fatalf("%s: view does not show cancellation:\n%s", key, m.View())
		}
	}
}

func TestProgressModelIgnoresOtherKeys(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewProgressModel("Running tests", nil, make(chan harness.Event), cancel).(*progressModel)
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}); cmd != nil {
		t.Fatalf("unexpected command for an unbound key")
	}
	if ctx.Err() != nil {
		t.Fatalf("unbound key cancelled the run")
	}
}
