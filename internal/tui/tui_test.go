package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purity/internal/app"
	"purity/internal/apperr"
	"purity/internal/config"
	"purity/internal/model"
	"purity/internal/nav"
	"purity/internal/procedure"
)

func newTestApp(t *testing.T, gen procedure.Generator) *app.App {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Generator.APIKey = ""

	a, err := app.Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	if gen != nil {
		a.Generator = gen
		a.Resolver = procedure.NewResolver(gen, nil)
		a.Nav = nav.New(a.Catalog, a.Favorites, a.Resolver, nil)
	}
	return a
}

func newTestModel(t *testing.T, gen procedure.Generator) AppModel {
	t.Helper()
	m := InitialModel(newTestApp(t, gen))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(AppModel)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m AppModel, keys ...string) (AppModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(AppModel)
	}
	return m, cmd
}

func send(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func foodIndex(t *testing.T, m AppModel, id string) int {
	t.Helper()
	for i, f := range m.app.Catalog.Foods() {
		if f.ID == id {
			return i
		}
	}
	t.Fatalf("food %q not in catalog", id)
	return -1
}

func moveTo(t *testing.T, m AppModel, idx int) AppModel {
	t.Helper()
	for i := 0; i < idx; i++ {
		m, _ = press(t, m, "down")
	}
	require.Equal(t, idx, m.SelectedIdx)
	return m
}

var chicory = model.TestProcedure{
	Aim:         "To detect chicory in coffee powder.",
	Materials:   []string{"Glass of water", "Coffee powder"},
	Procedure:   []string{"Sprinkle the powder on water.", "Watch for a few seconds."},
	Observation: "Chicory sinks and leaves a brown trail.",
	Conclusion:  "Pure coffee floats.",
	Precautions: []string{"Use cold water."},
}

func TestCatalogPathToFavorite(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = press(t, m, "s")
	require.Equal(t, nav.SelectFood, m.State.Screen)

	m = moveTo(t, m, foodIndex(t, m, "milk"))
	m, _ = press(t, m, "enter")
	require.Equal(t, nav.SelectAdulterant, m.State.Screen)
	assert.Contains(t, m.View(), "Water")

	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd, "built-in procedures need no generation")
	require.Equal(t, nav.TestDetails, m.State.Screen)
	require.NotNil(t, m.State.ActiveTest())
	assert.NotEmpty(t, m.Rendered)
	assert.Contains(t, m.View(), "Detecting Water in Milk")

	m, _ = press(t, m, "*")
	assert.Equal(t, "Saved to favorites", m.Status)
	assert.True(t, m.app.Favorites.Contains("milk_water"))

	m, _ = press(t, m, "esc")
	assert.Equal(t, nav.SelectAdulterant, m.State.Screen)
	m, _ = press(t, m, "esc", "esc")
	assert.Equal(t, nav.Home, m.State.Screen)

	m, _ = press(t, m, "f")
	require.Equal(t, nav.Favorites, m.State.Screen)
	assert.Contains(t, m.View(), "Milk → Water")

	m, _ = press(t, m, "x")
	assert.Zero(t, m.app.Favorites.Len())
	assert.Contains(t, m.View(), "No favorites yet")
}

func TestCustomEntryGeneratesProcedure(t *testing.T) {
	gen := procedure.GeneratorFunc(func(ctx context.Context, food, adulterant string) (model.TestProcedure, error) {
		return chicory, nil
	})
	m := newTestModel(t, gen)

	m, _ = press(t, m, "s")
	m = moveTo(t, m, m.app.Catalog.Len())
	m, _ = press(t, m, "enter")
	require.True(t, m.InputMode)

	m, _ = press(t, m, "Coffee", "enter")
	require.False(t, m.InputMode)
	require.Equal(t, nav.SelectAdulterant, m.State.Screen)
	assert.Contains(t, m.View(), "No known adulterants")

	m, _ = press(t, m, "enter", "Chicory")
	m, cmd := press(t, m, "enter")
	require.Equal(t, nav.TestDetails, m.State.Screen)
	require.True(t, m.State.Pending())
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), procedure.LoadingMessages[0])

	out := ResolveCmd(m.app.Resolver, m.State.Resolution.Request)()
	m, _ = send(m, out)
	require.NotNil(t, m.State.ActiveTest())
	assert.Equal(t, chicory.Observation, m.State.ActiveTest().Observation)
	assert.Equal(t, 1.0, m.Progress.Value())
	assert.Contains(t, m.View(), model.IconGenerated)

	_, cmd = send(m, MsgProgressTick(m.State.Resolution.Generation))
	assert.Nil(t, cmd, "ticks stop once resolved")
}

func TestFailedGenerationCanRetry(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = press(t, m, "s")
	m, _ = press(t, m, "enter") // first catalog food
	m = moveTo(t, m, len(m.State.Food.Adulterants))
	m, _ = press(t, m, "enter", "Plastic Beads", "enter")
	require.True(t, m.State.Pending())

	m, _ = send(m, ResolveCmd(m.app.Resolver, m.State.Resolution.Request)())
	require.True(t, m.State.Failed())
	assert.Contains(t, m.View(), "Press r to try again")

	gen := m.State.Resolution.Generation
	m, cmd := press(t, m, "r")
	assert.True(t, m.State.Pending())
	assert.NotNil(t, cmd)
	assert.Greater(t, m.State.Resolution.Generation, gen)

	_, cmd = send(m, MsgProgressTick(gen))
	assert.Nil(t, cmd, "stale ticks are dropped")
}

func TestSubmitAndListReports(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = press(t, m, "r")
	require.Equal(t, OverlayReportsMenu, m.Overlay)
	m, _ = press(t, m, "enter")
	require.Equal(t, OverlayReportForm, m.Overlay)

	m, _ = press(t, m, "ctrl+s")
	assert.True(t, apperr.IsKind(m.Err, apperr.KindValidationFailed))
	assert.False(t, m.Submitting)

	m, _ = press(t, m, "tab", "Milk", "tab", "Water", "tab", "tab", "tab", "Thin and watery")
	m, cmd := press(t, m, "ctrl+s")
	require.True(t, m.Submitting)
	require.NotNil(t, cmd)

	m, _ = send(m, SubmitReportCmd(m.app, m.Form.Draft(), m.Form.ImagePath())())
	require.NoError(t, m.Err)
	assert.Equal(t, OverlayReportsMenu, m.Overlay)
	assert.Contains(t, m.Status, "Report submitted")

	m, _ = press(t, m, "down", "enter")
	require.Equal(t, OverlayReportList, m.Overlay)
	require.True(t, m.ReportsLoading)

	m, _ = send(m, LoadReportsCmd(m.app.Reports)())
	require.Len(t, m.Reports, 1)
	assert.Equal(t, model.AnonymousReporter, m.Reports[0].ReporterName)
	view := m.View()
	assert.Contains(t, view, "Milk: Water")
	assert.Contains(t, view, "Thin and watery")

	m, _ = press(t, m, "esc", "esc")
	assert.Equal(t, OverlayNone, m.Overlay)
}

func TestHelpDialog(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = press(t, m, "?")
	require.True(t, m.ShowHelp)
	assert.NotEqual(t, "Window too small", m.View())

	m, _ = press(t, m, "s")
	assert.Equal(t, nav.Home, m.State.Screen, "keys go to the dialog while it is open")

	m, _ = press(t, m, "?")
	assert.False(t, m.ShowHelp)
}

func TestHelpDialog_ScrollStopsAtEnd(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = press(t, m, "?")

	limit := m.helpMaxScroll()
	require.Positive(t, limit)

	for range 200 {
		m, _ = press(t, m, "down")
	}
	assert.Equal(t, limit, m.HelpScrollY)

	m, _ = press(t, m, "k")
	assert.Equal(t, limit-1, m.HelpScrollY, "one step up after scrolling past the end")

	m, _ = send(m, tea.WindowSizeMsg{Width: 100, Height: 200})
	assert.Zero(t, m.HelpScrollY, "a taller window shows everything")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, nil)
	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
