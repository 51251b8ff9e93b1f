package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"purity/internal/app"
	"purity/internal/help"
	"purity/internal/model"
	"purity/internal/nav"
	"purity/internal/procedure"
)

// Overlay is a screen outside the navigation state machine. The report
// screens hang off HOME.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayReportsMenu
	OverlayReportForm
	OverlayReportList
)

// AppModel holds the TUI state.
type AppModel struct {
	app *app.App

	// Navigation
	State       nav.State
	Overlay     Overlay
	SelectedIdx int
	WindowSize  tea.WindowSizeMsg

	// Custom entry
	InputMode   bool
	InputBuffer textinput.Model

	// Pending generation
	Progress    procedure.Progress
	ProgressBar progress.Model

	// Test details
	DetailsViewport viewport.Model
	Rendered        string

	// Reports
	Form           ReportForm
	Reports        []model.Report
	ReportsErr     error
	ReportsLoading bool
	Submitting     bool
	Spinner        spinner.Model

	// Status line; Err takes precedence over Status.
	Status string
	Err    error

	// Help
	ShowHelp    bool
	HelpContent string
	HelpScrollY int
}

// InitialModel returns the initial state.
func InitialModel(a *app.App) AppModel {
	ti := textinput.New()
	ti.CharLimit = 60
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	return AppModel{
		app:             a,
		State:           a.Nav.State(),
		InputBuffer:     ti,
		ProgressBar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		DetailsViewport: viewport.New(80, 20),
		Form:            NewReportForm(),
		Spinner:         sp,
		HelpContent:     help.Markdown(),
	}
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd {
	return nil
}

// menuItems are the HOME choices.
var menuItems = []string{"Start Experiment", "Favorites", "Community Reports", "Quit"}

// reportMenuItems are the reports menu choices.
var reportMenuItems = []string{"Submit a Complaint", "View Reports"}

// listLen is the number of selectable rows on the current screen.
func (m AppModel) listLen() int {
	switch m.Overlay {
	case OverlayReportsMenu:
		return len(reportMenuItems)
	case OverlayReportList:
		return len(m.Reports)
	case OverlayReportForm:
		return 0
	}

	switch m.State.Screen {
	case nav.Home:
		return len(menuItems)
	case nav.SelectFood:
		return m.app.Catalog.Len() + 1 // + custom entry
	case nav.SelectAdulterant:
		if m.State.Food == nil {
			return 1
		}
		return len(m.State.Food.Adulterants) + 1
	case nav.Favorites:
		return m.app.Favorites.Len()
	}
	return 0
}
