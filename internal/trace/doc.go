// Package trace records what a corpus run is doing.
//
// Tracing is how rtest logs: every orchestration, unit and step emits span
// begin/end events through a Tracer carried in the context. A run that hangs
// on a subject is visible as a unit span that never ends while heartbeats
// keep arriving.
//
// # Usage
//
//	rtest run --trace=- --trace-level=unit
//
// # Tracers
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: writes events as the run goes (text or NDJSON), flushed
//     at every run and unit boundary
//   - RingTracer: keeps the last events in memory for dumps after a crash
//   - MultiTracer: streams and keeps a ring at once (--trace-mode=both)
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: unit events kept in memory, dumped on internal errors
//   - LevelRun: orchestration boundaries
//   - LevelUnit: one span per test unit
//   - LevelStep: compile, run, memcheck and compare steps
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.StartSpan(ctx, trace.ScopeUnit, "unit:t1")
//	defer span.End("passed")
package trace
