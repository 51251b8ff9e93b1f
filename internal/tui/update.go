package tui

import (
	"context"
	"math/rand/v2"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"purity/internal/favorites"
	"purity/internal/nav"
	"purity/internal/procedure"
)

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.DetailsViewport.Width = max(msg.Width-4, 20)
		m.DetailsViewport.Height = max(msg.Height-8, 5)
		m.ProgressBar.Width = min(max(msg.Width-10, 10), 60)
		m.HelpScrollY = min(m.HelpScrollY, m.helpMaxScroll())
		m.renderDetails()
		return m, nil

	case MsgResolved:
		st, applied := m.app.Nav.ApplyResolution(procedure.Outcome(msg))
		if !applied {
			return m, nil
		}
		m.State = st
		if st.ActiveTest() != nil {
			m.Progress.Complete()
		}
		m.renderDetails()
		return m, nil

	case MsgProgressTick:
		if !m.pendingFor(uint64(msg)) {
			return m, nil
		}
		m.Progress.Advance(rand.Float64())
		return m, progressTickCmd(uint64(msg))

	case MsgMessageTick:
		if !m.pendingFor(uint64(msg)) {
			return m, nil
		}
		m.Progress.NextMessage()
		return m, messageTickCmd(uint64(msg))

	case MsgReportSaved:
		m.Submitting = false
		if msg.Err != nil {
			m.Err = msg.Err
			return m, nil
		}
		m.Form.Reset()
		m.Overlay = OverlayReportsMenu
		m.SelectedIdx = 0
		m.Status = "Report submitted. Thank you for helping keep food safe!"
		return m, nil

	case MsgReportsLoaded:
		m.ReportsLoading = false
		m.Reports = msg.Reports
		m.ReportsErr = msg.Err
		m.SelectedIdx = 0
		return m, nil

	case MsgExported:
		if msg.Err != nil {
			m.Err = msg.Err
		} else {
			m.Status = "Saved " + msg.Path
		}
		return m, nil

	case spinner.TickMsg:
		if !m.ReportsLoading && !m.Submitting {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, cmd
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.ShowHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.ShowHelp = false
		case "up", "k":
			if m.HelpScrollY > 0 {
				m.HelpScrollY--
			}
		case "down", "j":
			if m.HelpScrollY < m.helpMaxScroll() {
				m.HelpScrollY++
			}
		}
		return m, nil
	}

	if m.InputMode {
		return m.handleInput(msg)
	}
	if m.Overlay == OverlayReportForm {
		return m.handleFormKey(msg)
	}

	m.Err = nil
	m.Status = ""

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.ShowHelp = true
		m.HelpScrollY = 0
		return m, nil
	case "esc", "backspace", "left", "h":
		return m.back()
	case "enter", "right", "l":
		return m.choose()
	}

	if m.Overlay == OverlayNone && m.State.Screen == nav.TestDetails {
		return m.handleDetailsKey(msg)
	}

	switch msg.String() {
	case "up", "k":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
		}
	case "down", "j":
		if m.SelectedIdx < m.listLen()-1 {
			m.SelectedIdx++
		}
	}

	if m.Overlay != OverlayNone {
		return m, nil
	}

	switch m.State.Screen {
	case nav.Home:
		switch msg.String() {
		case "s":
			return m.enter(m.app.Nav.Start())
		case "f":
			return m.enter(m.app.Nav.ViewFavorites())
		case "r":
			m.Overlay = OverlayReportsMenu
			m.SelectedIdx = 0
		}
	case nav.SelectFood, nav.SelectAdulterant:
		if msg.String() == "o" || msg.String() == "/" {
			return m.startInput()
		}
	case nav.Favorites:
		if msg.String() == "x" || msg.String() == "delete" {
			list := m.app.Favorites.List()
			if m.SelectedIdx < len(list) {
				st, err := m.app.Nav.RemoveFavorite(context.Background(), list[m.SelectedIdx].ID)
				m.State = st
				m.Err = err
				if m.SelectedIdx >= m.listLen() && m.SelectedIdx > 0 {
					m.SelectedIdx--
				}
			}
		}
	}
	return m, nil
}

func (m AppModel) handleDetailsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "*", "s":
		change, err := m.app.Nav.ToggleFavorite(context.Background())
		if err != nil {
			m.Err = err
			return m, nil
		}
		switch change {
		case favorites.Added:
			m.Status = "Saved to favorites"
		case favorites.Removed:
			m.Status = "Removed from favorites"
		}
		return m, nil
	case "r":
		if !m.State.Failed() {
			return m, nil
		}
		return m.enter(m.app.Nav.Retry())
	case "e":
		test := m.State.ActiveTest()
		if test == nil {
			return m, nil
		}
		return m, ExportCmd(m.app.Config.DataDir, m.State.Food.Name, m.State.Adulterant.Name, *test)
	}

	var cmd tea.Cmd
	m.DetailsViewport, cmd = m.DetailsViewport.Update(msg)
	return m, cmd
}

func (m AppModel) back() (tea.Model, tea.Cmd) {
	switch m.Overlay {
	case OverlayReportForm, OverlayReportList:
		m.Overlay = OverlayReportsMenu
		m.SelectedIdx = 0
		return m, nil
	case OverlayReportsMenu:
		m.Overlay = OverlayNone
		m.SelectedIdx = 0
		return m, nil
	}
	return m.enter(m.app.Nav.Back(), nil)
}

func (m AppModel) choose() (tea.Model, tea.Cmd) {
	switch m.Overlay {
	case OverlayReportsMenu:
		if m.SelectedIdx == 0 {
			m.Overlay = OverlayReportForm
			m.Form.Reset()
			return m, textinput.Blink
		}
		m.Overlay = OverlayReportList
		m.ReportsLoading = true
		m.Reports = nil
		m.ReportsErr = nil
		return m, tea.Batch(LoadReportsCmd(m.app.Reports), m.Spinner.Tick)
	case OverlayReportList:
		return m, nil
	}

	switch m.State.Screen {
	case nav.Home:
		switch m.SelectedIdx {
		case 0:
			return m.enter(m.app.Nav.Start())
		case 1:
			return m.enter(m.app.Nav.ViewFavorites())
		case 2:
			m.Overlay = OverlayReportsMenu
			m.SelectedIdx = 0
			return m, nil
		default:
			return m, tea.Quit
		}

	case nav.SelectFood:
		foods := m.app.Catalog.Foods()
		if m.SelectedIdx >= len(foods) {
			return m.startInput()
		}
		return m.enter(m.app.Nav.SelectFood(foods[m.SelectedIdx].ID))

	case nav.SelectAdulterant:
		if m.State.Food == nil || m.SelectedIdx >= len(m.State.Food.Adulterants) {
			return m.startInput()
		}
		return m.enter(m.app.Nav.SelectAdulterant(m.State.Food.Adulterants[m.SelectedIdx].ID))

	case nav.Favorites:
		list := m.app.Favorites.List()
		if m.SelectedIdx >= len(list) {
			return m, nil
		}
		return m.enter(m.app.Nav.SelectFavorite(list[m.SelectedIdx].ID))
	}
	return m, nil
}

func (m AppModel) startInput() (tea.Model, tea.Cmd) {
	m.InputMode = true
	m.InputBuffer.SetValue("")
	if m.State.Screen == nav.SelectFood {
		m.InputBuffer.Placeholder = "Food name, e.g. Coffee Powder"
	} else {
		m.InputBuffer.Placeholder = "Adulterant, e.g. Chicory"
	}
	m.InputBuffer.Focus()
	return m, textinput.Blink
}

func (m AppModel) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		name := m.InputBuffer.Value()
		var (
			st  nav.State
			err error
		)
		if m.State.Screen == nav.SelectFood {
			st, err = m.app.Nav.SelectCustomFood(name)
		} else {
			st, err = m.app.Nav.SelectCustomAdulterant(name)
		}
		if err != nil {
			m.Err = err
			return m, nil
		}
		m.InputMode = false
		m.InputBuffer.Blur()
		return m.enter(st, nil)
	case tea.KeyEsc:
		m.InputMode = false
		m.InputBuffer.Blur()
		m.InputBuffer.SetValue("")
		m.Err = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.InputBuffer, cmd = m.InputBuffer.Update(msg)
	return m, cmd
}

func (m AppModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Submitting {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.Err = nil
		return m.back()
	case "tab", "down":
		m.Form.Next()
		return m, nil
	case "shift+tab", "up":
		m.Form.Prev()
		return m, nil
	case "ctrl+s":
		return m.submit()
	case "enter":
		if m.Form.OnLast() {
			return m.submit()
		}
		m.Form.Next()
		return m, nil
	}

	var cmd tea.Cmd
	m.Form, cmd = m.Form.Update(msg)
	return m, cmd
}

func (m AppModel) submit() (tea.Model, tea.Cmd) {
	d := m.Form.Draft()
	if err := d.Validate(); err != nil {
		m.Err = err
		return m, nil
	}
	m.Err = nil
	m.Submitting = true
	return m, tea.Batch(SubmitReportCmd(m.app, d, m.Form.ImagePath()), m.Spinner.Tick)
}

// enter adopts a controller state. A fresh pending resolution starts the
// generation call plus the progress animation.
func (m AppModel) enter(st nav.State, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.Err = err
		return m, nil
	}
	prev := m.State.Screen
	m.State = st
	if st.Screen != prev {
		m.SelectedIdx = 0
	}
	if st.Screen != nav.TestDetails {
		return m, nil
	}

	if st.Pending() {
		m.Progress.Reset()
		m.Rendered = ""
		gen := st.Resolution.Generation
		return m, tea.Batch(
			ResolveCmd(m.app.Resolver, st.Resolution.Request),
			progressTickCmd(gen),
			messageTickCmd(gen),
		)
	}
	m.renderDetails()
	return m, nil
}

func (m AppModel) pendingFor(gen uint64) bool {
	return m.State.Screen == nav.TestDetails && m.State.Pending() && m.State.Resolution.Generation == gen
}

// renderDetails renders the active procedure through glamour into the
// details viewport.
func (m *AppModel) renderDetails() {
	test := m.State.ActiveTest()
	if m.State.Screen != nav.TestDetails || test == nil {
		return
	}
	md := procedure.Markdown(m.State.Food.Name, m.State.Adulterant.Name, *test)

	out := md
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(m.DetailsViewport.Width),
	)
	if err == nil {
		if rendered, err := r.Render(md); err == nil {
			out = rendered
		} else {
			m.app.Logger.Debug("Markdown render failed", zap.Error(err))
		}
	}
	m.Rendered = out
	m.DetailsViewport.SetContent(out)
	m.DetailsViewport.GotoTop()
}
