// Package ui renders live progress of a multi-unit run in the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"hdrgen/internal/pipeline"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// unitRow is the display state of one input unit.
type unitRow struct {
	path    string
	stage   pipeline.Stage
	status  pipeline.Status
	elapsed time.Duration
}

func (r unitRow) finished() bool {
	switch r.status {
	case pipeline.StatusDone, pipeline.StatusCached, pipeline.StatusError:
		return true
	}
	return false
}

// label is the word shown in the status column.
func (r unitRow) label() string {
	if r.status != pipeline.StatusWorking {
		return string(r.status)
	}
	switch r.stage {
	case pipeline.StageLoad:
		return "loading"
	case pipeline.StageWalk:
		return "walking"
	case pipeline.StageEmit:
		return "emitting"
	case pipeline.StageWrite:
		return "writing"
	}
	return string(r.status)
}

func (r unitRow) style() lipgloss.Style {
	switch r.status {
	case pipeline.StatusDone, pipeline.StatusCached:
		return okStyle
	case pipeline.StatusError:
		return failStyle
	case pipeline.StatusWorking:
		return activeStyle
	}
	return pendingStyle
}

// fraction estimates how far along the unit is, in [0, 1].
func (r unitRow) fraction() float64 {
	if r.finished() {
		return 1
	}
	if r.status != pipeline.StatusWorking {
		return 0
	}
	for i, s := range pipeline.Stages {
		if s == r.stage {
			return float64(i) / float64(len(pipeline.Stages))
		}
	}
	return 0
}

type tally struct {
	finished, cached, failed int
}

type model struct {
	title  string
	events <-chan pipeline.Event
	spin   spinner.Model
	bar    progress.Model
	rows   []unitRow
	byPath map[string]int
	tally  tally
	width  int
	closed bool
}

type eventMsg pipeline.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model with one row per unit. It
// quits when events is closed.
func NewProgressModel(title string, units []string, events <-chan pipeline.Event) tea.Model {
	m := &model{
		title:  title,
		events: events,
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(activeStyle)),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		rows:   make([]unitRow, len(units)),
		byPath: make(map[string]int, len(units)),
		width:  80,
	}
	for i, u := range units {
		m.rows[i] = unitRow{path: u, status: pipeline.StatusQueued}
		m.byPath[u] = i
	}
	return m
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next())
}

// next waits for the following pipeline event.
func (m *model) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return closedMsg{}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(pipeline.Event(msg)), m.next())
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	case tea.KeyMsg:
		// the run keeps going; only the view stops
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
	case spinner.TickMsg:
		if !m.closed {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// apply folds an event into the rows. Events for unknown units and events
// after a unit finished are ignored.
func (m *model) apply(ev pipeline.Event) tea.Cmd {
	i, ok := m.byPath[ev.Unit]
	if !ok || m.rows[i].finished() {
		return nil
	}
	row := &m.rows[i]
	row.status = ev.Status
	if ev.Stage != "" {
		row.stage = ev.Stage
	}
	if ev.Elapsed > 0 {
		row.elapsed = ev.Elapsed
	}
	if row.finished() {
		m.tally.finished++
		switch ev.Status {
		case pipeline.StatusCached:
			m.tally.cached++
		case pipeline.StatusError:
			m.tally.failed++
		}
	}
	return m.bar.SetPercent(m.percent())
}

func (m *model) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range m.rows {
		sum += r.fraction()
	}
	return sum / float64(len(m.rows))
}

func (m *model) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	lead := m.spin.View()
	if m.closed {
		lead = okStyle.Render("✓")
		if m.tally.failed > 0 {
			lead = failStyle.Render("✗")
		}
	}
	head := fmt.Sprintf("%s %d/%d", m.title, m.tally.finished, len(m.rows))
	if m.tally.cached > 0 {
		head += fmt.Sprintf(", %d cached", m.tally.cached)
	}
	if m.tally.failed > 0 {
		head += fmt.Sprintf(", %d failed", m.tally.failed)
	}
	fmt.Fprintf(&b, "%s %s\n\n", lead, titleStyle.Render(head))

	const labelWidth, timeWidth = 9, 9
	pathWidth := max(m.width-labelWidth-timeWidth-6, 20)
	for _, r := range m.rows {
		took := ""
		if r.finished() && r.elapsed > 0 {
			took = r.elapsed.Round(time.Millisecond).String()
		}
		fmt.Fprintf(&b, "  %s  %s %s\n",
			r.style().Render(fmt.Sprintf("%-*s", labelWidth, r.label())),
			padRight(clip(r.path, pathWidth), pathWidth),
			pendingStyle.Render(fmt.Sprintf("%*s", timeWidth, took)),
		)
	}
	b.WriteByte('\n')
	if m.closed {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

// clip shortens s to width display columns, keeping the tail: the file name
// is the informative end of a path.
func clip(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	runes := []rune(s)
	w := 0
	i := len(runes)
	for i > 0 {
		rw := runewidth.RuneWidth(runes[i-1])
		if w+rw > width-3 {
			break
		}
		w += rw
		i--
	}
	return "..." + string(runes[i:])
}

func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}
