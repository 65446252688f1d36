package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocket/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pocket/internal/app"
	"github.com/MrJamesThe3rd/pocket/internal/filter"
)

type model struct {
	app *app.App

	// filter is shared across views so each one opens where the last left off.
	filter filter.State
	size   tea.WindowSizeMsg

	currentView View

	recordsView view.RecordsModel
	statsView   view.StatsModel
	importView  view.ImportModel
	exportView  view.ExportModel
	reviewView  view.ReviewModel
}

type View int

const (
	ViewMenu    View = 0
	ViewRecords View = 1
	ViewStats   View = 2
	ViewImport  View = 3
	ViewExport  View = 4
	ViewReview  View = 5
)

func initialModel(a *app.App) model {
	return model{
		app:         a,
		filter:      filter.Default(),
		currentView: ViewMenu,
		importView:  view.NewImportModel(a.Records, a.Import),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}
	case tea.WindowSizeMsg:
		m.size = msg
	case view.StateMsg:
		m.filter = msg.State
		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewRecords:
		var newModel tea.Model
		newModel, cmd = m.recordsView.Update(msg)
		m.recordsView = newModel.(view.RecordsModel)
	case ViewStats:
		var newModel tea.Model
		newModel, cmd = m.statsView.Update(msg)
		m.statsView = newModel.(view.StatsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	case ViewReview:
		var newModel tea.Model
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := m.app

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.currentView = ViewRecords
		m.recordsView = view.NewRecordsModel(a.Records, a.Stats, m.filter)

		return m, tea.Batch(m.recordsView.Init(), m.resize())
	case "2":
		m.currentView = ViewStats
		m.statsView = view.NewStatsModel(a.Stats, m.filter)

		return m, tea.Batch(m.statsView.Init(), m.resize())
	case "3":
		m.currentView = ViewImport
		return m, m.importView.Init()
	case "4":
		m.currentView = ViewExport
		m.exportView = view.NewExportModel(a.Export, a.Stats, m.filter)

		return m, m.exportView.Init()
	case "5":
		m.currentView = ViewReview
		m.reviewView = view.NewReviewModel(a.Records, a.Stats, a.Matching, m.filter)

		return m, m.reviewView.Init()
	}

	return m, nil
}

// resize replays the last window size to a freshly built view.
func (m model) resize() tea.Cmd {
	if m.size.Width == 0 {
		return nil
	}

	size := m.size

	return func() tea.Msg { return size }
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.app.Config.App.Name + "\n\n" +
				"1. Records\n" +
				"2. Statistics\n" +
				"3. Import Records\n" +
				"4. Export Records\n" +
				"5. Review Imports\n\n" +
				"q. Quit",
		)
	case ViewRecords:
		return withHelp(m.recordsView)
	case ViewStats:
		return withHelp(m.statsView)
	case ViewImport:
		return withHelp(m.importView)
	case ViewExport:
		return withHelp(m.exportView)
	case ViewReview:
		return withHelp(m.reviewView)
	}

	return "Unknown View"
}

type screen interface {
	View() string
	Title() string
	ShortHelp() string
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).PaddingLeft(1)
	helpStyle  = lipgloss.NewStyle().Faint(true).PaddingLeft(1)
)

func withHelp(s screen) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(s.Title()),
		s.View(),
		helpStyle.Render(s.ShortHelp()),
	)
}

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the program, so logs go to a file.
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		slog.Error("failed to open log file", "path", cfg.Log.File, "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	app.SetupLogger(logFile, cfg.Log.Level)

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(initialModel(a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
