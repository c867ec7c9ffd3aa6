package harness

import "time"

// Stage describes one step of a unit, or the run itself.
type Stage string

const (
	// StageLoad is the corpus discovery stage of a run.
	StageLoad Stage = "load"
	// StageCompile compiles the unit's source.
	StageCompile Stage = "compile"
	// StageRun runs the subject directly.
	StageRun Stage = "run"
	// StageMemCheck runs the subject under the memory checker.
	StageMemCheck Stage = "memcheck"
	// StageCompareStdout diffs the captured stdout.
	StageCompareStdout Stage = "diff-stdout"
	// StageCompareStderr diffs the captured stderr.
	StageCompareStderr Stage = "diff-stderr"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the unit is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is in progress.
	StatusWorking Status = "working"
	// StatusPassed indicates the unit passed.
	StatusPassed Status = "passed"
	// StatusFailed indicates the unit failed.
	StatusFailed Status = "failed"
)

// Event reports progress for a unit (or for the whole run when Unit is empty).
type Event struct {
	Unit    string
	Index   int
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. OnEvent is called from worker
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
