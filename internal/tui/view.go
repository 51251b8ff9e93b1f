package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"purity/internal/apperr"
	"purity/internal/catalog"
	"purity/internal/model"
	"purity/internal/nav"
	"purity/internal/reports"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#16A34A")).
			Padding(0, 1)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#16A34A"))

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(lipgloss.Color("205")) // Pinkish

	unselectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(4).
				Foreground(lipgloss.Color("250"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")) // Sky Blue/Cyan

	favoriteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	setupStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("208")). // Orange
			Foreground(lipgloss.Color("214"))

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("#FAFAFA"))

	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			MarginBottom(1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63"))
)

func (m AppModel) View() string {
	if m.ShowHelp {
		return m.renderHelpDialog()
	}

	var body string
	switch m.Overlay {
	case OverlayReportsMenu:
		body = m.viewReportsMenu()
	case OverlayReportForm:
		body = m.viewReportForm()
	case OverlayReportList:
		body = m.viewReportList()
	default:
		switch m.State.Screen {
		case nav.Home:
			body = m.viewHome()
		case nav.SelectFood:
			body = m.viewSelectFood()
		case nav.SelectAdulterant:
			body = m.viewSelectAdulterant()
		case nav.TestDetails:
			body = m.viewTestDetails()
		case nav.Favorites:
			body = m.viewFavorites()
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Pure or Impure?"))
	b.WriteString(" ")
	b.WriteString(dimStyle.Render(m.breadcrumb()))
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n\n")

	if m.InputMode {
		b.WriteString(fmt.Sprintf("%s %s\n", headingStyle.Render(m.inputLabel()), m.InputBuffer.View()))
	}
	switch {
	case m.Err != nil:
		b.WriteString(errorStyle.Render(apperr.UserMessage(m.Err)))
		b.WriteString("\n")
	case m.Status != "":
		b.WriteString(statusStyle.Render(m.Status))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(m.footer()))
	return b.String()
}

func (m AppModel) breadcrumb() string {
	switch m.Overlay {
	case OverlayReportsMenu:
		return "Community Reports"
	case OverlayReportForm:
		return "Community Reports › Submit a Complaint"
	case OverlayReportList:
		return "Community Reports › Recent Reports"
	}
	parts := []string{}
	switch m.State.Screen {
	case nav.Home:
		return "Pioneer Montessori Inter College"
	case nav.Favorites:
		return "Favorites"
	}
	parts = append(parts, "Choose Food")
	if m.State.Screen >= nav.SelectAdulterant && m.State.Food != nil {
		parts = append(parts, m.State.Food.Name)
	}
	if m.State.Screen == nav.TestDetails && m.State.Adulterant != nil {
		parts = append(parts, m.State.Adulterant.Name)
	}
	return strings.Join(parts, " › ")
}

func (m AppModel) footer() string {
	if m.InputMode {
		return "Enter: Continue • Esc: Cancel"
	}
	switch m.Overlay {
	case OverlayReportForm:
		return "Tab/↓: Next field • Shift+Tab/↑: Previous • Enter on last field or Ctrl+S: Submit • Esc: Back"
	case OverlayReportsMenu, OverlayReportList:
		return "↑/↓: Navigate • Enter: Choose • Esc: Back • ?: Help • q: Quit"
	}
	switch m.State.Screen {
	case nav.Home:
		return "↑/↓: Navigate • Enter: Choose • s: Start • f: Favorites • r: Reports • ?: Help • q: Quit"
	case nav.SelectFood, nav.SelectAdulterant:
		return "↑/↓: Navigate • Enter: Choose • o: Other • Esc: Back • ?: Help • q: Quit"
	case nav.TestDetails:
		switch {
		case m.State.Pending():
			return "Esc: Back • q: Quit"
		case m.State.Failed():
			return "r: Retry • Esc: Back • q: Quit"
		}
		return "↑/↓: Scroll • *: Favorite • e: Export • Esc: Back • ?: Help • q: Quit"
	case nav.Favorites:
		return "↑/↓: Navigate • Enter: Open • x: Remove • Esc: Back • ?: Help • q: Quit"
	}
	return ""
}

func (m AppModel) inputLabel() string {
	if m.State.Screen == nav.SelectFood {
		return "Food:"
	}
	return "Adulterant:"
}

func (m AppModel) renderList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		if i == m.SelectedIdx {
			b.WriteString(selectedItemStyle.Render("› " + item))
		} else {
			b.WriteString(unselectedItemStyle.Render(item))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m AppModel) viewHome() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Empowering students with simple scientific experiments to ensure food safety."))
	b.WriteString("\n\n")
	b.WriteString(m.renderList(menuItems))
	return b.String()
}

func (m AppModel) viewSelectFood() string {
	foods := m.app.Catalog.Foods()
	items := make([]string, 0, len(foods)+1)
	for _, f := range foods {
		icon := f.Icon
		if icon == "" {
			icon = model.FoodIcon(f.ID)
		}
		items = append(items, fmt.Sprintf("%s %s", icon, f.Name))
	}
	items = append(items, model.IconCustom+" Other (type a food)")

	return headingStyle.Render("Which food do you want to test?") + "\n\n" + m.renderList(items)
}

func (m AppModel) viewSelectAdulterant() string {
	food := m.State.Food
	if food == nil {
		return ""
	}
	items := make([]string, 0, len(food.Adulterants)+1)
	for _, a := range food.Adulterants {
		items = append(items, a.Name)
	}
	items = append(items, model.IconCustom+" Other (type an adulterant)")

	heading := fmt.Sprintf("What might be mixed into %s?", food.Name)
	if len(food.Adulterants) == 0 {
		heading += "\n" + dimStyle.Render("No known adulterants. Type one to generate a test.")
	}
	return headingStyle.Render(heading) + "\n\n" + m.renderList(items)
}

func (m AppModel) viewTestDetails() string {
	st := m.State
	if st.Food == nil || st.Adulterant == nil {
		return ""
	}

	heart := dimStyle.Render(model.IconNotSaved)
	if m.app.Nav.IsFavorite() {
		heart = favoriteStyle.Render(model.IconFavorite)
	}
	title := fmt.Sprintf("Detecting %s in %s", st.Adulterant.Name, st.Food.Name)
	if catalog.IsCustomID(st.Adulterant.ID) && st.ActiveTest() != nil {
		title += " " + accentStyle.Render(model.IconGenerated)
	}
	header := headingStyle.Render(title) + "  " + heart

	switch {
	case st.Pending():
		return header + "\n\n" +
			m.ProgressBar.ViewAs(m.Progress.Value()) + "\n\n" +
			accentStyle.Render(m.Progress.Message())
	case st.Failed():
		return header + "\n\n" +
			errorStyle.Render(st.Resolution.Message()) + "\n\n" +
			dimStyle.Render("Press r to try again.")
	case st.ActiveTest() != nil:
		return header + "\n" + m.DetailsViewport.View()
	}
	return header
}

func (m AppModel) viewFavorites() string {
	list := m.app.Favorites.List()
	if len(list) == 0 {
		return headingStyle.Render("Favorites") + "\n\n" +
			dimStyle.Render("No favorites yet. Press * on a test to save it here.")
	}
	items := make([]string, len(list))
	for i, f := range list {
		items[i] = fmt.Sprintf("%s %s → %s", model.IconFavorite, f.FoodName, f.AdulterantName)
	}
	return headingStyle.Render("Favorites") + "\n\n" + m.renderList(items)
}

func (m AppModel) modeBadge() string {
	mode := m.app.Reports.Mode()
	bg := lipgloss.Color("240")
	if mode == reports.ModeRemote {
		bg = lipgloss.Color("#16A34A")
	}
	return badgeStyle.Background(bg).Render(mode.Label())
}

func (m AppModel) viewReportsMenu() string {
	return headingStyle.Render("Found adulterated food? Let others know.") + "  " + m.modeBadge() +
		"\n\n" + m.renderList(reportMenuItems)
}

func (m AppModel) viewReportForm() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Submit a Complaint"))
	b.WriteString("  ")
	b.WriteString(m.modeBadge())
	b.WriteString("\n\n")
	for i, in := range m.Form.Inputs {
		label := fieldLabels[i]
		if i == m.Form.Focus {
			b.WriteString(selectedItemStyle.Render(label))
		} else {
			b.WriteString(unselectedItemStyle.Render(label))
		}
		b.WriteString("\n    ")
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if m.Submitting {
		b.WriteString("\n")
		b.WriteString(m.Spinner.View())
		b.WriteString(" Uploading to Database...")
	}
	return b.String()
}

func (m AppModel) viewReportList() string {
	header := headingStyle.Render("Recent Reports") + "  " + m.modeBadge() + "\n\n"
	if m.ReportsLoading {
		return header + m.Spinner.View() + " Loading reports..."
	}
	if m.ReportsErr != nil {
		if apperr.IsKind(m.ReportsErr, apperr.KindStoreUnprovisioned) {
			return header + setupStyle.Render(apperr.UserMessage(m.ReportsErr))
		}
		return header + errorStyle.Render(apperr.UserMessage(m.ReportsErr))
	}
	if len(m.Reports) == 0 {
		return header + dimStyle.Render("No reports yet. Be the first to submit one.")
	}

	height := m.WindowSize.Height - 8
	if height < 6 {
		height = 6
	}
	perCard := 7
	visible := max(height/perCard, 1)
	start := 0
	if m.SelectedIdx >= visible {
		start = m.SelectedIdx - visible + 1
	}
	end := min(start+visible, len(m.Reports))

	var b strings.Builder
	b.WriteString(header)
	for i := start; i < end; i++ {
		b.WriteString(m.renderReport(m.Reports[i], i == m.SelectedIdx))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d of %d", m.SelectedIdx+1, len(m.Reports))))
	return b.String()
}

func (m AppModel) renderReport(r model.Report, selected bool) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(fmt.Sprintf("%s: %s", r.FoodName, r.AdulterantName)))
	if r.BrandName != "" {
		b.WriteString(dimStyle.Render("  Brand: " + r.BrandName))
	}
	b.WriteString("\n")
	b.WriteString(r.Observation)
	b.WriteString("\n")

	meta := "By " + r.ReporterName
	if r.DateOfPurchase != "" {
		meta += " • Bought " + r.DateOfPurchase
	}
	meta += " • Reported " + shortDate(r.DateOfSubmission)
	if r.HasImage() {
		meta += " • photo attached"
	}
	b.WriteString(dimStyle.Render(meta))

	style := cardStyle
	if selected {
		style = style.BorderForeground(lipgloss.Color("205"))
	}
	return style.Render(b.String())
}

// shortDate trims an RFC 3339 timestamp to its date.
func shortDate(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}

// helpLayout sizes the help dialog for the current window. ok is false when
// the window is too small to show it.
func (m AppModel) helpLayout() (width, height, contentHeight int, ok bool) {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return 0, 0, 0, false
	}

	width = w * 80 / 100
	if width < 40 {
		width = 40
	}
	if width > w-4 {
		width = w - 4
	}
	height = h - 6
	if height < 5 {
		height = 5
	}
	// title and border
	return width, height, height - 2, true
}

// helpMaxScroll is the largest useful HelpScrollY.
func (m AppModel) helpMaxScroll() int {
	_, _, contentHeight, ok := m.helpLayout()
	if !ok {
		return 0
	}
	return max(strings.Count(m.HelpContent, "\n")+1-contentHeight, 0)
}

func (m AppModel) renderHelpDialog() string {
	helpWidth, helpHeight, contentHeight, ok := m.helpLayout()
	if !ok {
		return "Window too small"
	}
	w, h := m.WindowSize.Width, m.WindowSize.Height

	lines := strings.Split(m.HelpContent, "\n")
	startY := min(max(m.HelpScrollY, 0), m.helpMaxScroll())

	endY := startY + contentHeight
	if endY > len(lines) {
		endY = len(lines)
	}

	content := strings.Join(lines[startY:endY], "\n")

	dialog := lipgloss.NewStyle().
		Width(helpWidth).
		Height(helpHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1).
		Render(content)

	return lipgloss.Place(w, h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

