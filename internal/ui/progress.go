// Package ui renders the regression walk as a live terminal view.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"ccregress/internal/regress"
)

type walkModel struct {
	title   string
	events  <-chan regress.Trial
	spinner spinner.Model
	prog    progress.Model
	items   []trialItem
	index   map[string]int
	width   int
	done    bool
}

type trialItem struct {
	flag   string
	change string
	status string
}

type trialMsg regress.Trial
type doneMsg struct{}

// NewWalkModel returns a Bubble Tea model that renders the walk. Rows are
// created from queued events as they arrive, so the channel must carry the
// engine's full event stream.
func NewWalkModel(title string, events <-chan regress.Trial) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76 // Default width

	return &walkModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		index:   make(map[string]int),
		width:   80,
	}
}

func (m *walkModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForTrial())
}

func (m *walkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case trialMsg:
		cmd := m.applyTrial(regress.Trial(msg))
		return m, tea.Batch(cmd, m.listenForTrial())
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

func (m *walkModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 8
	flagWidth := m.width/2 - statusWidth
	if flagWidth < 20 {
		flagWidth = 20
	}

	for _, item := range m.items {
		flag := truncate(item.flag, flagWidth)
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%8s", item.status))
		fmt.Fprintf(&b, "  %s %-*s %s\n", statusStyled, flagWidth, flag, item.change)
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

func (m *walkModel) listenForTrial() tea.Cmd {
	return func() tea.Msg {
		t, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return trialMsg(t)
	}
}

func (m *walkModel) applyTrial(t regress.Trial) tea.Cmd {
	idx, ok := m.index[t.Flag]
	if !ok {
		idx = len(m.items)
		m.index[t.Flag] = idx
		m.items = append(m.items, trialItem{flag: t.Flag})
	}
	m.items[idx].status = string(t.Status)
	if t.Status != regress.StatusQueued {
		m.items[idx].change = fmt.Sprintf("%s => %s", t.Old, t.New)
	}

	settled := 0
	for _, item := range m.items {
		if item.status == string(regress.StatusPass) || item.status == string(regress.StatusFail) {
			settled++
		}
	}
	if len(m.items) == 0 {
		return nil
	}
	return m.prog.SetPercent(float64(settled) / float64(len(m.items)))
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case string(regress.StatusPass):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case string(regress.StatusFail):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case string(regress.StatusTesting):
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
	return runewidth.Truncate(value, width-3, "...")
}
