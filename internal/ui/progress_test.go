package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdrgen/internal/pipeline"
)

func newModel(units ...string) *model {
	return NewProgressModel("hdrgen", units, make(chan pipeline.Event)).(*model)
}

func TestApplyTracksStages(t *testing.T) {
	m := newModel("a.json", "b.json")

	m.apply(pipeline.Event{Unit: "a.json", Stage: pipeline.StageWalk, Status: pipeline.StatusWorking})
	assert.Equal(t, "walking", m.rows[0].label())
	assert.InDelta(t, 0.125, m.percent(), 1e-9)

	m.apply(pipeline.Event{Unit: "a.json", Status: pipeline.StatusDone, Elapsed: 3 * time.Millisecond})
	m.apply(pipeline.Event{Unit: "b.json", Status: pipeline.StatusError})
	assert.Equal(t, "done", m.rows[0].label())
	assert.Equal(t, pipeline.StageWalk, m.rows[0].stage, "finishing events carry no stage")
	assert.Equal(t, "error", m.rows[1].label())
	assert.Equal(t, tally{finished: 2, failed: 1}, m.tally)
	assert.InDelta(t, 1.0, m.percent(), 1e-9)

	// finished rows stay finished
	m.apply(pipeline.Event{Unit: "a.json", Stage: pipeline.StageLoad, Status: pipeline.StatusWorking})
	assert.Equal(t, "done", m.rows[0].label())
	assert.Equal(t, 2, m.tally.finished)

	assert.Nil(t, m.apply(pipeline.Event{Unit: "zzz", Status: pipeline.StatusDone}))
}

func TestViewAfterClose(t *testing.T) {
	m := newModel("first.json", "second.mp")
	m.apply(pipeline.Event{Unit: "second.mp", Status: pipeline.StatusCached, Elapsed: 1500 * time.Microsecond})
	_, cmd := m.Update(closedMsg{})
	require.NotNil(t, cmd)
	require.True(t, m.closed)

	view := m.View()
	assert.Contains(t, view, "hdrgen 1/2, 1 cached")
	assert.Contains(t, view, "first.json")
	assert.Contains(t, view, "queued")
	assert.Contains(t, view, "cached")
	assert.Contains(t, view, "2ms")
	assert.NotContains(t, view, "failed")
}

func TestNextReportsClosedChannel(t *testing.T) {
	ch := make(chan pipeline.Event, 1)
	m := NewProgressModel("x", []string{"u"}, ch).(*model)
	ch <- pipeline.Event{Unit: "u", Status: pipeline.StatusDone}
	close(ch)

	msg := m.next()()
	assert.Equal(t, eventMsg(pipeline.Event{Unit: "u", Status: pipeline.StatusDone}), msg)
	assert.Equal(t, closedMsg{}, m.next()())
}

func TestClipKeepsTail(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "...klmnop", clip("abcdefghijklmnop", 9))
	assert.Equal(t, "ab", clip("abcdef", 2))
	clipped := clip("units/日本語のパス.json", 12)
	assert.True(t, strings.HasPrefix(clipped, "..."))
	assert.True(t, strings.HasSuffix(clipped, ".json"))
	assert.LessOrEqual(t, len([]rune(clipped)), 12)
	assert.Equal(t, "ab   ", padRight("ab", 5))
}
