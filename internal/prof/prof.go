// Package prof profiles rtest itself, for investigating slow orchestration
// of large corpora.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Options names the profile outputs; empty paths disable that profile.
type Options struct {
	CPU   string
	Mem   string
	Trace string
}

// Session is an active set of profiles started by Start.
type Session struct {
	opts      Options
	cpuFile   *os.File
	traceFile *os.File
}

// Start begins the CPU profile and runtime trace requested by opts.
func Start(opts Options) (*Session, error) {
	s := &Session{opts: opts}
	if opts.CPU != "" {
		f, err := os.Create(opts.CPU)
		if err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		s.cpuFile = f
	}
	if opts.Trace != "" {
		f, err := os.Create(opts.Trace)
		if err != nil {
			s.stopCPU()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			s.stopCPU()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		s.traceFile = f
	}
	return s, nil
}

// Active reports whether any profile was requested.
func (o Options) Active() bool {
	return o.CPU != "" || o.Mem != "" || o.Trace != ""
}

func (s *Session) stopCPU() {
	if s.cpuFile == nil {
		return
	}
	pprof.StopCPUProfile()
	_ = s.cpuFile.Close()
	s.cpuFile = nil
}

// Stop ends the profiles and writes the heap profile. Safe to call on nil.
func (s *Session) Stop() error {
	if s == nil {
		return nil
	}
	s.stopCPU()
	if s.traceFile != nil {
		trace.Stop()
		_ = s.traceFile.Close()
		s.traceFile = nil
	}
	if s.opts.Mem == "" {
		return nil
	}
	return writeMem(s.opts.Mem)
}

func writeMem(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	return nil
}
