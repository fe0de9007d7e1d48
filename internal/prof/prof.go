// Package prof starts and stops the runtime profilers behind the
// --cpu-profile, --mem-profile and --runtime-trace flags.
package prof

import (
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/cockroachdb/errors"
)

// Session owns the profiler outputs of one command invocation.
type Session struct {
	cpuFile   *os.File
	traceFile *os.File
	memPath   string
	stopped   bool
}

// Start enables the profilers whose path is non-empty. On error nothing is
// left running.
func Start(cpuPath, memPath, tracePath string) (*Session, error) {
	s := &Session{memPath: memPath}
	if cpuPath != "" {
		f, err := os.Create(cpuPath)
		if err != nil {
			return nil, errors.Wrap(err, "create cpu profile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, "start cpu profile")
		}
		s.cpuFile = f
	}
	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			s.stopCPU()
			return nil, errors.Wrap(err, "create runtime trace")
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			s.stopCPU()
			return nil, errors.Wrap(err, "start runtime trace")
		}
		s.traceFile = f
	}
	return s, nil
}

// Stop ends running profilers and writes the heap profile. Safe to call more
// than once and on a nil session.
func (s *Session) Stop() error {
	if s == nil || s.stopped {
		return nil
	}
	s.stopped = true
	if s.traceFile != nil {
		trace.Stop()
		_ = s.traceFile.Close()
		s.traceFile = nil
	}
	s.stopCPU()
	if s.memPath == "" {
		return nil
	}
	return writeMem(s.memPath)
}

func (s *Session) stopCPU() {
	if s.cpuFile == nil {
		return
	}
	pprof.StopCPUProfile()
	_ = s.cpuFile.Close()
	s.cpuFile = nil
}

func writeMem(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create heap profile")
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "write heap profile")
	}
	return errors.Wrap(f.Close(), "close heap profile")
}
