package observ

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Phase records the duration and metadata of one generation phase.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks phases of a run. Units are generated in parallel, so the
// timer is safe for concurrent use; Begin/End pairs are matched by index.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 16)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Record adds an already measured phase.
func (t *Timer) Record(name string, dur time.Duration, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now().Add(-dur), Dur: dur, Note: note})
}

// Summary returns a human-readable table: one row per phase name with the
// summed duration and the number of times it ran.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Count > 1 {
			fmt.Fprintf(&sb, "  x%d", p.Count)
		}
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "  %-20s %7.2f ms\n", "total", report.TotalMS)
	return sb.String()
}

// PhaseReport is the aggregated view of all phases sharing a name.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count"`
	Note       string  `json:"note,omitempty"`
}

// Report is the serializable form of a Timer.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report aggregates phases by name in order of first appearance. The note
// of a group is kept only when it ran once. TotalMS sums all phases, so with
// parallel units it is CPU-side work, not wall time.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	phases := append([]Phase(nil), t.phases...)
	t.mu.Unlock()
	if len(phases) == 0 {
		return Report{}
	}

	type group struct {
		first int
		dur   time.Duration
		count int
		note  string
	}
	groups := make(map[string]*group, len(phases))
	var total time.Duration
	for i, p := range phases {
		total += p.Dur
		g, ok := groups[p.Name]
		if !ok {
			g = &group{first: i, note: p.Note}
			groups[p.Name] = g
		}
		g.dur += p.Dur
		g.count++
	}

	report := Report{Phases: make([]PhaseReport, 0, len(groups))}
	for name, g := range groups {
		note := g.note
		if g.count > 1 {
			note = ""
		}
		report.Phases = append(report.Phases, PhaseReport{
			Name:       name,
			DurationMS: durationToMillis(g.dur),
			Count:      g.count,
			Note:       note,
		})
	}
	sort.Slice(report.Phases, func(i, j int) bool {
		return groups[report.Phases[i].Name].first < groups[report.Phases[j].Name].first
	})
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
