package harness

// strategy is the fixed sequence of stages every unit of a run goes through.
// It is chosen once per run from the configuration.
type strategy struct {
	name   string
	stages []Stage
}

// selectStrategy picks one of the four execution strategies
// ({feeder, compiled} x {plain run, memory check}) and appends the
// comparisons.
func selectStrategy(cfg Config) strategy {
	var s strategy
	switch {
	case cfg.Compiled && cfg.MemCheck:
		s = strategy{name: "compiled+memcheck", stages: []Stage{StageCompile, StageMemCheck}}
	case cfg.Compiled:
		s = strategy{name: "compiled", stages: []Stage{StageCompile, StageRun}}
	case cfg.MemCheck:
		s = strategy{name: "feeder+memcheck", stages: []Stage{StageMemCheck}}
	default:
		s = strategy{name: "feeder", stages: []Stage{StageRun}}
	}
	s.stages = append(s.stages, StageCompareStdout)
	if cfg.CompareStderr {
		s.stages = append(s.stages, StageCompareStderr)
	}
	return s
}
