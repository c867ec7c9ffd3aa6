// Package observ records how long each step of a unit took.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Step records the duration and outcome note of one state-machine step.
type Step struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks the steps of a single unit. It is owned by one goroutine.
type Timer struct {
	steps []Step
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{steps: make([]Step, 0, 4)} }

// Begin starts a new step and returns its index.
func (t *Timer) Begin(name string) int {
	t.steps = append(t.steps, Step{Name: name, Start: time.Now()})
	return len(t.steps) - 1
}

// End finishes a step by its index.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.steps) {
		return
	}
	s := &t.steps[idx]
	s.Dur = time.Since(s.Start)
	s.Note = note
}

// StepReport is the serializable form of a Step.
type StepReport struct {
	Name       string  `json:"name" msgpack:"name"`
	DurationMS float64 `json:"duration_ms" msgpack:"duration_ms"`
	Note       string  `json:"note,omitempty" msgpack:"note,omitempty"`
}

// Report aggregates the steps of one unit.
type Report struct {
	TotalMS float64      `json:"total_ms" msgpack:"total_ms"`
	Steps   []StepReport `json:"steps" msgpack:"steps"`
}

// Report returns the recorded steps and their total in milliseconds.
func (t *Timer) Report() Report {
	if t == nil || len(t.steps) == 0 {
		return Report{}
	}
	report := Report{
		Steps: make([]StepReport, len(t.steps)),
	}
	var total time.Duration
	for i, step := range t.steps {
		total += step.Dur
		report.Steps[i] = StepReport{
			Name:       step.Name,
			DurationMS: durationToMillis(step.Dur),
			Note:       step.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// Summary renders the report as an indented block.
func (r Report) Summary() string {
	if len(r.Steps) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range r.Steps {
		fmt.Fprintf(&b, "  %-10s %9.2f ms", s.Name, s.DurationMS)
		if s.Note != "" {
			b.WriteString("  // ")
			b.WriteString(s.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-10s %9.2f ms\n", "total", r.TotalMS)
	return b.String()
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
