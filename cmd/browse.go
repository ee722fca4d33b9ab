package cmd

import (
	"errors"
	"fmt"
	"time"

	"modlist-manager/db"
	"modlist-manager/logger"
	"modlist-manager/query"
	"modlist-manager/tracked"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse your tracked mods interactively",
	Long:  `Launch an interactive TUI to browse your tracked mods, keep or unkeep them, and re-sync with Nexus.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg, client := bootstrap(configDir)
		user := currentUser()
		engine := newEngine(cfg)

		m := newBrowseModel(db.DB, user)
		m.sync = func() (*tracked.Result, error) {
			return engine.Sync(cmd.Context(), user.ID, client, nil)
		}

		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			logger.Log.Fatalw("Failed to run browser", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

// ModRow is one tracked mod in the browser.
type ModRow struct {
	ID      int
	Name    string
	Author  string
	Updated string
	NSFW    bool
	Kept    bool
}

// BrowseModel is the state of the tracked-mods browser.
type BrowseModel struct {
	gdb      *gorm.DB
	userID   int
	hideNSFW bool
	sync     func() (*tracked.Result, error)

	rows          []ModRow
	selectedIndex int
	loading       bool
	syncing       bool
	error         string
	message       string
	spinnerFrame  int
}

func newBrowseModel(gdb *gorm.DB, user *db.User) BrowseModel {
	return BrowseModel{
		gdb:      gdb,
		userID:   user.ID,
		hideNSFW: user.HideNSFW,
		loading:  true,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return tea.Batch(
		m.loadRows(),
		tickSpinner(),
	)
}

func tickSpinner() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case rowsLoadedMsg:
		m.rows = msg.rows
		m.loading = false
		if m.selectedIndex >= len(m.rows) {
			m.selectedIndex = max(len(m.rows)-1, 0)
		}
	case spinnerTickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
		if m.loading || m.syncing {
			return m, tickSpinner()
		}
	case errorMsg:
		m.error = string(msg)
		m.loading = false
		m.syncing = false
	case keepToggledMsg:
		if msg.index < len(m.rows) {
			m.rows[msg.index].Kept = msg.kept
		}
		cmd := m.flash(msg.message)
		return m, cmd
	case syncCompleteMsg:
		m.syncing = false
		m.loading = true
		cmd := m.flash(msg.message)
		return m, tea.Batch(m.loadRows(), tickSpinner(), cmd)
	case clearMessageMsg:
		m.message = ""
	}
	return m, nil
}

func (m BrowseModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case "down", "j":
		if m.selectedIndex < len(m.rows)-1 {
			m.selectedIndex++
		}
	case " ":
		if len(m.rows) > 0 && !m.syncing {
			return m, m.toggleKeep(m.selectedIndex)
		}
	case "s":
		if m.sync != nil && !m.syncing && !m.loading {
			m.syncing = true
			return m, tea.Batch(m.runSync(), tickSpinner())
		}
	}
	return m, nil
}

func (m *BrowseModel) flash(text string) tea.Cmd {
	m.message = text
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearMessageMsg{}
	})
}

func (m BrowseModel) View() string {
	if m.loading {
		return loadingStyle.Render(spinnerFrames[m.spinnerFrame]+" Loading tracked mods...") + "\n"
	}
	if m.syncing {
		return loadingStyle.Render(spinnerFrames[m.spinnerFrame]+" Syncing with Nexus...") + "\n"
	}
	if m.error != "" {
		return fmt.Sprintf("Error: %s\n", m.error)
	}
	if len(m.rows) == 0 {
		return "No tracked mods. Track some mods on Nexus and press s to sync.\n" + renderFooter() + "\n"
	}

	var output string
	output += renderHeader()
	output += "\n"
	for i, row := range m.rows {
		output += m.renderRow(i, row)
		output += "\n"
	}
	output += "\n" + renderFooter()

	if m.message != "" {
		output += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.message)
	}
	return output
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var loadingStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("12")).
	Bold(true)

func renderHeader() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Padding(0, 1)

	return headerStyle.Render(fmt.Sprintf("  %-8s %-40s %-20s %-12s", "ID", "Mod Name", "Author", "Updated"))
}

func renderFooter() string {
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Italic(true)

	return footerStyle.Render("↑/k: up  ↓/j: down  space: keep/unkeep  s: sync  q: quit")
}

func (m BrowseModel) renderRow(index int, row ModRow) string {
	rowStyle := lipgloss.NewStyle().Padding(0, 1)
	if index == m.selectedIndex {
		rowStyle = rowStyle.
			Background(lipgloss.Color("8")).
			Bold(true)
	}

	indicator := " "
	if row.Kept {
		indicator = "★"
	}
	name := truncate(row.Name, 38)
	if row.NSFW {
		name = truncate(row.Name, 31) + " [NSFW]"
	}

	return rowStyle.Render(fmt.Sprintf("%s %-8d %-40s %-20s %-12s",
		indicator,
		row.ID,
		name,
		truncate(row.Author, 18),
		row.Updated,
	))
}

func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen-3] + "..."
	}
	return s
}

// Message types
type rowsLoadedMsg struct {
	rows []ModRow
}

type errorMsg string

type spinnerTickMsg struct{}

type keepToggledMsg struct {
	index   int
	kept    bool
	message string
}

type syncCompleteMsg struct {
	message string
}

type clearMessageMsg struct{}

func (m BrowseModel) loadRows() tea.Cmd {
	return func() tea.Msg {
		rows, err := loadTrackedRows(m.gdb, m.userID, m.hideNSFW)
		if err != nil {
			logger.Log.Errorw("Failed to load tracked mods", zap.Error(err))
			return errorMsg(fmt.Sprintf("Failed to load tracked mods: %v", err))
		}
		return rowsLoadedMsg{rows: rows}
	}
}

// loadTrackedRows lists every member of the tracked modlist, kept or not.
func loadTrackedRows(gdb *gorm.DB, userID int, hideNSFW bool) ([]ModRow, error) {
	ml, err := db.FindTrackedModlist(gdb, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []ModRow{}, nil
	}
	if err != nil {
		return nil, err
	}
	var mods []db.Mod
	err = query.ModlistMods(gdb, ml.ID).Scopes(query.OrderRecent.Scope()).Find(&mods).Error
	if err != nil {
		return nil, err
	}
	kept, err := tracked.KeptMods(gdb, userID)
	if err != nil {
		return nil, err
	}
	keptIDs := make(map[int]bool, len(kept))
	for _, k := range kept {
		keptIDs[k.ID] = true
	}

	rows := make([]ModRow, 0, len(mods))
	for _, mod := range visibleMods(mods, hideNSFW) {
		rows = append(rows, ModRow{
			ID:      mod.ID,
			Name:    mod.Name,
			Author:  mod.UploadedBy,
			Updated: formatTimestamp(mod.UpdatedTimestamp),
			NSFW:    mod.IsNSFW,
			Kept:    keptIDs[mod.ID],
		})
	}
	return rows, nil
}

func (m BrowseModel) toggleKeep(index int) tea.Cmd {
	row := m.rows[index]
	return func() tea.Msg {
		if row.Kept {
			_, err := tracked.Unkeep(m.gdb, m.userID, row.ID)
			if err != nil && !errors.Is(err, tracked.ErrNotKept) {
				return errorMsg(describeError(err))
			}
			return keepToggledMsg{index: index, kept: false, message: fmt.Sprintf("'%s' removed from your Keep-Tracked list", row.Name)}
		}
		_, err := tracked.Keep(m.gdb, m.userID, row.ID)
		if err != nil && !errors.Is(err, tracked.ErrAlreadyKept) {
			return errorMsg(describeError(err))
		}
		return keepToggledMsg{index: index, kept: true, message: fmt.Sprintf("'%s' added to your Keep-Tracked list", row.Name)}
	}
}

func (m BrowseModel) runSync() tea.Cmd {
	return func() tea.Msg {
		res, err := m.sync()
		if err != nil {
			logger.Log.Warnw("Sync from browser failed", zap.Error(err))
			return syncCompleteMsg{message: describeError(err)}
		}
		return syncCompleteMsg{message: summarize(res)}
	}
}
