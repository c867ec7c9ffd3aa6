package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"rtest/internal/harness"
)

type progressModel struct {
	title      string
	events     <-chan harness.Event
	spinner    spinner.Model
	prog       progress.Model
	items      []unitItem
	index      map[string]int
	stageLabel string
	passed     int
	failed     int
	width      int
	done       bool
	// cancel stops the run when the user quits the view.
	cancel    context.CancelFunc
	cancelled bool
}

type unitItem struct {
	path   string
	status string
	stage  harness.Stage
}

type eventMsg harness.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders the progress of a
// corpus run. It quits when events is closed. Ctrl+C or q cancels the run
// through cancel and quits the view.
func NewProgressModel(title string, units []string, events <-chan harness.Event, cancel context.CancelFunc) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]unitItem, 0, len(units))
	index := make(map[string]int, len(units))
	for i, unit := range units {
		items = append(items, unitItem{path: unit, status: statusQueued})
		index[unit] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
		cancel:  cancel,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
		return m, nil
	case eventMsg:
		cmd := m.applyEvent(harness.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.stageLabel != "" {
		header = fmt.Sprintf("%s (%s)", header, m.stageLabel)
	}
	counts := fmt.Sprintf("%d/%d", m.passed+m.failed, len(m.items))
	switch {
	case m.cancelled:
		header = fmt.Sprintf("cancelled: %s %s", header, counts)
	case m.done:
		header = fmt.Sprintf("done: %s %s", header, counts)
	default:
		header = fmt.Sprintf("%s %s %s", m.spinner.View(), header, counts)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := max(m.width-statusWidth-4, 20)

	for _, item := range m.visibleItems() {
		name := truncate(item.path, nameWidth)
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status))
		fmt.Fprintf(&b, "  %s %s\n", statusStyled, name)
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

// maxVisible caps the list so large corpora do not scroll the terminal.
const maxVisible = 12

// visibleItems shows units in progress first, then failures, then the rest
// in corpus order.
func (m *progressModel) visibleItems() []unitItem {
	if len(m.items) <= maxVisible {
		return m.items
	}
	rank := func(status string) int {
		switch status {
		case statusFailed:
			return 1
		case statusQueued, statusPassed:
			return 2
		default:
			return 0
		}
	}
	out := make([]unitItem, 0, maxVisible)
	for want := 0; want <= 2; want++ {
		for _, item := range m.items {
			if len(out) == maxVisible {
				return out
			}
			if rank(item.status) == want {
				out = append(out, item)
			}
		}
	}
	return out
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev harness.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	if ev.Unit == "" {
		if label != "" {
			m.stageLabel = label
		}
		return nil
	}
	idx, ok := m.index[ev.Unit]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	if label == "" {
		return nil
	}
	switch ev.Status {
	case harness.StatusPassed:
		m.passed++
	case harness.StatusFailed:
		m.failed++
	}
	item.status = label
	if ev.Stage != "" {
		item.stage = ev.Stage
	}

	total := 0.0
	for _, it := range m.items {
		switch it.status {
		case statusPassed, statusFailed:
			total += 1.0
		case statusQueued:
		default:
			total += progressFromStage(it.stage)
		}
	}
	return m.prog.SetPercent(total / float64(len(m.items)))
}

const (
	statusQueued = "queued"
	statusPassed = "passed"
	statusFailed = "failed"
)

func progressFromStage(stage harness.Stage) float64 {
	switch stage {
	case harness.StageCompile:
		return 0.2
	case harness.StageRun, harness.StageMemCheck:
		return 0.5
	case harness.StageCompareStdout:
		return 0.8
	case harness.StageCompareStderr:
		return 0.9
	default:
		return 0.0
	}
}

func statusLabel(stage harness.Stage, status harness.Status) string {
	switch status {
	case harness.StatusQueued:
		return statusQueued
	case harness.StatusPassed:
		if stage == harness.StageLoad {
			return "loaded"
		}
		return statusPassed
	case harness.StatusFailed:
		return statusFailed
	case harness.StatusWorking:
		return stageLabel(stage)
	default:
		return ""
	}
}

func stageLabel(stage harness.Stage) string {
	switch stage {
	case harness.StageLoad:
		return "loading"
	case harness.StageCompile:
		return "compiling"
	case harness.StageRun:
		return "running"
	case harness.StageMemCheck:
		return "memcheck"
	case harness.StageCompareStdout, harness.StageCompareStderr:
		return "diffing"
	default:
		return ""
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case statusPassed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case statusFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "compiling", "running", "memcheck", "diffing":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
