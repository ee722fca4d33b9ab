package cmd

import (
	"fmt"

	"modlist-manager/tracked"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type syncProgressMsg tracked.Progress

type syncDoneMsg struct {
	result *tracked.Result
	err    error
}

type syncFunc func(progress chan<- tracked.Progress) (*tracked.Result, error)

// SyncModel renders a running tracked-mods sync.
type SyncModel struct {
	spinner      spinner.Model
	progressChan chan tracked.Progress
	doneChan     chan syncDoneMsg
	run          syncFunc

	// State
	status string
	step   int
	total  int
	result *tracked.Result
	err    error
	done   bool
}

func initialSyncModel(run syncFunc) SyncModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return SyncModel{
		spinner:      s,
		progressChan: make(chan tracked.Progress, 100),
		doneChan:     make(chan syncDoneMsg, 1),
		run:          run,
		status:       "Initializing...",
	}
}

func (m SyncModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.startSync(),
		m.waitForActivity(),
	)
}

func (m SyncModel) startSync() tea.Cmd {
	return func() tea.Msg {
		go func() {
			res, err := m.run(m.progressChan)
			close(m.progressChan)
			m.doneChan <- syncDoneMsg{result: res, err: err}
		}()
		return nil
	}
}

func (m SyncModel) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		p, ok := <-m.progressChan
		if !ok {
			return <-m.doneChan
		}
		return syncProgressMsg(p)
	}
}

func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.done {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case syncProgressMsg:
		m.status = msg.Message
		if msg.Phase == tracked.PhaseBackfill {
			m.step, m.total = msg.Step, msg.Total
		}
		return m, m.waitForActivity()

	case syncDoneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		if msg.err != nil {
			m.status = "Sync failed"
		} else {
			m.status = "Finished"
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m SyncModel) View() string {
	var symbol string
	switch {
	case m.done && m.err != nil:
		symbol = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("✗")
	case m.done:
		symbol = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("✓")
	default:
		symbol = m.spinner.View()
	}

	s := fmt.Sprintf("\n %s %s\n", symbol, m.status)
	if !m.done && m.total > 0 {
		s += fmt.Sprintf("   %d/%d mods fetched\n", m.step, m.total)
	}
	s += "\n"

	if m.result != nil && len(m.result.Warnings) > 0 {
		s += lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("Warnings:") + "\n"
		for _, w := range m.result.Warnings {
			s += fmt.Sprintf("  • %s\n", w)
		}
		s += "\n"
	}

	if m.done {
		if m.err != nil {
			s += lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(describeError(m.err)) + "\n"
		} else if m.result != nil {
			s += lipgloss.NewStyle().Bold(true).Render(summarize(m.result)) + "\n"
		}
	}

	return s
}

func summarize(r *tracked.Result) string {
	return fmt.Sprintf("Tracked mods synced: %d added, %d removed, %d fetched from Nexus.",
		len(r.Added), len(r.Removed), len(r.Fetched))
}
