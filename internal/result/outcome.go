package result

import (
	"time"

	"rtest/internal/corpus"
	"rtest/internal/observ"
)

// ExitCodeNotRun is the exit code of a unit whose subject never finished.
const ExitCodeNotRun = -1

// Outcome is the record of executing one unit. The worker that runs the unit
// fills it exactly once; afterwards it is read-only.
type Outcome struct {
	Unit  corpus.Unit
	Index int

	Passed   bool
	Elapsed  time.Duration
	ExitCode int
	// Warnings holds compiler diagnostics of a successful compilation.
	Warnings string
	// Failure is nil if and only if Passed is true.
	Failure Failure
	// Steps holds per-step timings in execution order.
	Steps observ.Report
}

// Pending returns the "not yet run" outcome of unit.
func Pending(unit corpus.Unit, index int) Outcome {
	return Outcome{
		Unit:     unit,
		Index:    index,
		ExitCode: ExitCodeNotRun,
	}
}

// Name returns the unit's file name.
func (o *Outcome) Name() string {
	return o.Unit.Name()
}

// Seconds returns the elapsed wall time in fractional seconds.
func (o *Outcome) Seconds() float64 {
	return o.Elapsed.Seconds()
}

// Pass marks the outcome passed and clears any failure.
func (o *Outcome) Pass() {
	o.Passed = true
	o.Failure = nil
}

// Fail marks the outcome failed with cause f.
func (o *Outcome) Fail(f Failure) {
	o.Passed = false
	o.Failure = f
}

// FailedWith reports whether the outcome failed in phase k.
func (o *Outcome) FailedWith(k Kind) bool {
	return !o.Passed && o.Failure != nil && o.Failure.Kind() == k
}
