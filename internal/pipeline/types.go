package pipeline

import "time"

// Stage describes a phase of generating one unit's header.
type Stage string

const (
	// StageLoad reads and decodes the resolved unit.
	StageLoad Stage = "load"
	// StageWalk collects declarations from the module tree.
	StageWalk Stage = "walk"
	// StageEmit renders the header text.
	StageEmit Stage = "emit"
	// StageWrite persists the header (or compares it in check mode).
	StageWrite Stage = "write"
)

// Stages lists stages in execution order.
var Stages = []Stage{StageLoad, StageWalk, StageEmit, StageWrite}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the unit is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running.
	StatusWorking Status = "working"
	// StatusCached indicates the header came from the cache.
	StatusCached Status = "cached"
	// StatusDone indicates the unit finished successfully.
	StatusDone Status = "done"
	// StatusError indicates the unit failed.
	StatusError Status = "error"
)

// Event reports progress for a unit (or for the whole run when Unit is empty).
type Event struct {
	Unit    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: units report from their own goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] = dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	if t.stages == nil {
		return false
	}
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages, or across
// all of them when none is given.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	if len(stages) == 0 {
		stages = Stages
	}
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
