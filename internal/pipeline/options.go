package pipeline

import (
	"io"

	"hdrgen/internal/cache"
	"hdrgen/internal/header"
	"hdrgen/internal/observ"
)

// Mode selects what happens to a rendered header.
type Mode uint8

const (
	// ModeWrite writes <OutDir>/<unit_name>.h.
	ModeWrite Mode = iota
	// ModeStdout prints headers to Options.Stdout in input order.
	ModeStdout
	// ModeCheck writes nothing and fails units whose header on disk differs.
	ModeCheck
)

func (m Mode) String() string {
	switch m {
	case ModeWrite:
		return "write"
	case ModeStdout:
		return "stdout"
	case ModeCheck:
		return "check"
	default:
		return "unknown"
	}
}

// Options configure a run.
type Options struct {
	OutDir string
	Mode   Mode
	Header header.Options
	// Jobs bounds the number of units processed at once; <= 0 means
	// GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps each unit's bag (fatal entries always fit).
	MaxDiagnostics int
	// Cache may be nil.
	Cache *cache.Cache
	// Progress may be nil.
	Progress ProgressSink
	// Timer collects per-stage phases when set.
	Timer *observ.Timer
	// Timings adds an ObsTimings info diagnostic with stage durations to
	// every unit's bag.
	Timings bool
	// Stdout receives headers in ModeStdout.
	Stdout io.Writer
	// RunID tags log lines; generated when empty.
	RunID string
}
