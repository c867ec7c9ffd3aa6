package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"rtest/internal/history"
	"rtest/internal/i18n"
	"rtest/internal/result"
	"rtest/internal/toolchain"
)

// HistoryLogName is the results log written to the working directory.
const HistoryLogName = "history.log"

// Report renders run results in one language.
type Report struct {
	dict      *i18n.Dictionary
	foldWidth int
	r         *lipgloss.Renderer
}

// NewReport renders for w; colors are used only when w is a color terminal.
func NewReport(dict *i18n.Dictionary, foldWidth int, w io.Writer) *Report {
	return &Report{dict: dict, foldWidth: foldWidth, r: lipgloss.NewRenderer(w)}
}

func (rep *Report) fg(color string) lipgloss.Style {
	return rep.r.NewStyle().Foreground(lipgloss.Color(color))
}

// headerRow is the StyleFunc row of the table header; data rows follow it
// starting at 1.
const headerRow = 0

// dataRow converts a StyleFunc row to an index into the rows slice.
func dataRow(row int) int {
	return row - 1
}

// Results renders one row per outcome.
func (rep *Report) Results(outcomes []result.Outcome) string {
	d := rep.dict
	rows := make([][]string, 0, len(outcomes))
	for i := range outcomes {
		o := &outcomes[i]
		id := strconv.Itoa(o.Index + 1)
		if o.Passed {
			rows = append(rows, []string{
				id,
				o.Name(),
				fmt.Sprintf("%.3f s", o.Seconds()),
				d.T(i18n.ResultTrue),
				fmt.Sprintf("%s: | %d |", d.T(i18n.ResultExitCode), o.ExitCode),
			})
			continue
		}
		rows = append(rows, []string{
			id,
			o.Name(),
			"-",
			d.T(i18n.ResultFalse),
			rep.problem(o.Failure),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(
			d.T(i18n.ResultID),
			d.T(i18n.ResultName),
			d.T(i18n.ResultTime),
			d.T(i18n.ResultPassed),
			d.T(i18n.ResultOutcome),
		).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			return rep.resultCell(outcomes, row, col)
		})
	return t.Render()
}

// resultCell styles one cell of the results table.
func (rep *Report) resultCell(outcomes []result.Outcome, row, col int) lipgloss.Style {
	base := rep.r.NewStyle().Padding(0, 1)
	if row == headerRow {
		return base.Bold(true)
	}
	idx := dataRow(row)
	if idx < 0 || idx >= len(outcomes) {
		return base
	}
	switch col {
	case 1:
		return base.Inherit(rep.fg("14"))
	case 2:
		return base.Inherit(rep.fg("3"))
	case 3:
		if outcomes[idx].Passed {
			return base.Inherit(rep.fg("2"))
		}
		return base.Inherit(rep.fg("1"))
	}
	return base
}

// problem renders the title and folded detail of a failure.
func (rep *Report) problem(f result.Failure) string {
	if f == nil {
		return rep.dict.T(i18n.ProblemTool, "harness")
	}
	return ProblemTitle(rep.dict, f) + ":\n" + Fold(strings.TrimRight(f.Detail(), "\n"), rep.foldWidth)
}

// ProblemTitle names the phase (and stream) a unit failed in.
func ProblemTitle(d *i18n.Dictionary, f result.Failure) string {
	switch v := f.(type) {
	case result.MemoryCheckFailure:
		return d.T(i18n.ProblemMemCheck)
	case result.CompilationFailure:
		return d.T(i18n.ProblemCompilation)
	case result.ComparisonFailure:
		switch v.Stream {
		case result.StreamStdout:
			return d.T(i18n.ProblemDiffStdout)
		case result.StreamStderr:
			return d.T(i18n.ProblemDiffStderr)
		default:
			return d.T(i18n.ProblemDiffUnspecified)
		}
	case result.ToolInvocationFailure:
		if v.Tool == toolchain.ToolDiff {
			return d.T(i18n.ProblemDiffTrouble, v.Stream.String())
		}
		return d.T(i18n.ProblemTool, v.Tool)
	default:
		return d.T(i18n.ProblemTool, "harness")
	}
}

// Summary renders the counts of a run.
func (rep *Report) Summary(s result.Summary) string {
	d := rep.dict
	type line struct {
		key   i18n.Key
		value int
		color string
	}
	lines := []line{
		{i18n.TestTotal, s.Total, "14"},
		{i18n.TestPassed, s.Passed, "2"},
		{i18n.TestFailed, s.Failed, "1"},
		{i18n.TestMemCheckFailed, s.MemoryCheck, "1"},
		{i18n.TestDiffFailed, s.Comparison, "1"},
		{i18n.TestCompilationFailed, s.Compilation, "1"},
		{i18n.TestOtherFailed, s.Other, "1"},
	}
	t := table.New().Border(lipgloss.NormalBorder())
	for _, l := range lines {
		t.Row(d.T(l.key), strconv.Itoa(l.value))
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		base := rep.r.NewStyle().Padding(0, 1)
		idx := dataRow(row)
		if col != 0 || idx < 0 || idx >= len(lines) {
			return base
		}
		return base.Inherit(rep.fg(lines[idx].color))
	})
	return t.Render()
}

// Warnings lists compiler warnings of units that passed. It is empty when
// there are none.
func (rep *Report) Warnings(outcomes []result.Outcome) string {
	var b strings.Builder
	for i := range outcomes {
		o := &outcomes[i]
		if !o.Passed || strings.TrimSpace(o.Warnings) == "" {
			continue
		}
		if b.Len() == 0 {
			b.WriteString(rep.r.NewStyle().Bold(true).Render(rep.dict.T(i18n.WarningsTitle)))
			b.WriteString("\n")
		}
		b.WriteString(rep.fg("3").Render(o.Name()))
		b.WriteString(":\n")
		b.WriteString(Fold(strings.TrimRight(o.Warnings, "\n"), rep.foldWidth))
		b.WriteString("\n")
	}
	return b.String()
}

// Changes lists units whose verdict flipped since the previous run.
func (rep *Report) Changes(c history.Changes) string {
	var b strings.Builder
	if len(c.Regressions) > 0 {
		fmt.Fprintf(&b, "%s: %s\n", rep.fg("1").Render(rep.dict.T(i18n.Regressions)), strings.Join(c.Regressions, ", "))
	}
	if len(c.Fixes) > 0 {
		fmt.Fprintf(&b, "%s: %s\n", rep.fg("2").Render(rep.dict.T(i18n.Fixes)), strings.Join(c.Fixes, ", "))
	}
	return b.String()
}

// WriteHistoryLog writes the uncolored results table to path.
func WriteHistoryLog(path string, dict *i18n.Dictionary, foldWidth int, outcomes []result.Outcome) error {
	plain := NewReport(dict, foldWidth, io.Discard)
	content := plain.Results(outcomes) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
