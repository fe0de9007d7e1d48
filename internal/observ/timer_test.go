package observ

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportGroupsByName(t *testing.T) {
	tm := NewTimer()
	tm.Record("load", 2*time.Millisecond, "a.json")
	tm.Record("walk", time.Millisecond, "")
	tm.Record("load", 4*time.Millisecond, "b.json")

	r := tm.Report()
	require.Len(t, r.Phases, 2)
	assert.Equal(t, "load", r.Phases[0].Name)
	assert.Equal(t, 2, r.Phases[0].Count)
	assert.InDelta(t, 6.0, r.Phases[0].DurationMS, 0.001)
	assert.Empty(t, r.Phases[0].Note)
	assert.Equal(t, "walk", r.Phases[1].Name)
	assert.InDelta(t, 7.0, r.TotalMS, 0.001)

	s := tm.Summary()
	assert.Contains(t, s, "timings:\n")
	assert.Contains(t, s, "x2")
	assert.Contains(t, s, "total")
}

func TestBeginEndConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx := tm.Begin("unit")
			tm.End(idx, "")
		}()
	}
	wg.Wait()
	r := tm.Report()
	require.Len(t, r.Phases, 1)
	assert.Equal(t, 16, r.Phases[0].Count)
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	assert.Equal(t, -1, tm.Begin("x"))
	tm.End(0, "")
	tm.Record("x", time.Second, "")
	assert.Equal(t, Report{}, tm.Report())
}
