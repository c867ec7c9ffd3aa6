package result

import "time"

// Summary aggregates a run.
type Summary struct {
	Total       int
	Passed      int
	Failed      int
	MemoryCheck int
	Comparison  int
	Compilation int
	Other       int
	Elapsed     time.Duration
}

// Summarize counts outcomes by failure phase. Elapsed is the sum of unit
// wall times, not the run's wall time.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for i := range outcomes {
		o := &outcomes[i]
		s.Total++
		s.Elapsed += o.Elapsed
		if o.Passed {
			s.Passed++
			continue
		}
		s.Failed++
		kind := Kind(0)
		if o.Failure != nil {
			kind = o.Failure.Kind()
		}
		switch kind {
		case KindMemoryCheck:
			s.MemoryCheck++
		case KindComparison:
			s.Comparison++
		case KindCompilation:
			s.Compilation++
		default:
			s.Other++
		}
	}
	return s
}

// AllPassed reports whether every unit passed.
func (s Summary) AllPassed() bool {
	return s.Failed == 0
}
