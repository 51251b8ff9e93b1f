package app

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purity/internal/apperr"
	"purity/internal/config"
	"purity/internal/evidence"
	"purity/internal/nav"
	"purity/internal/procedure"
	"purity/internal/reports"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Generator.APIKey = ""
	return cfg
}

func open(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestOpen_LocalMode(t *testing.T) {
	a := open(t, testConfig(t))

	assert.Equal(t, reports.ModeLocal, a.Reports.Mode())
	assert.IsType(t, procedure.Unavailable{}, a.Generator)
	assert.Equal(t, nav.Home, a.Nav.State().Screen)
	assert.ErrorIs(t, a.ProvisionReports(context.Background()), ErrLocalMode)
}

func TestOpen_FavoritesSurviveRestart(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	_, err = a.Nav.Start()
	require.NoError(t, err)
	_, err = a.Nav.SelectFood("milk")
	require.NoError(t, err)
	_, err = a.Nav.SelectAdulterant("water")
	require.NoError(t, err)
	_, err = a.Nav.ToggleFavorite(ctx)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b := open(t, cfg)
	assert.True(t, b.Favorites.Contains("milk_water"))
}

func TestSubmitReport_Local(t *testing.T) {
	ctx := context.Background()
	a := open(t, testConfig(t))

	_, err := a.SubmitReport(ctx, reports.Draft{FoodName: "Milk"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidationFailed))

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1200, 600))))

	saved, err := a.SubmitReport(ctx, reports.Draft{
		FoodName:       "Milk",
		AdulterantName: "Water",
		Observation:    "Flowed without a trail.",
		ImageBase64:    evidence.EncodeDataURI("image/png", buf.Bytes()),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(saved.ImageBase64, "data:image/jpeg;base64,"))

	list, err := a.Reports.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Anonymous", list[0].ReporterName)
}

func TestOpen_RemoteModeSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Reports.Mode = config.ReportsRemote
	cfg.Reports.Driver = config.DriverSQLite
	cfg.Reports.DSN = filepath.Join(cfg.DataDir, "remote.db")

	a := open(t, cfg)
	assert.Equal(t, reports.ModeRemote, a.Reports.Mode())

	_, err := a.Reports.List(ctx)
	assert.True(t, apperr.IsKind(err, apperr.KindStoreUnprovisioned))

	require.NoError(t, a.ProvisionReports(ctx))
	_, err = a.SubmitReport(ctx, reports.Draft{FoodName: "Tea", AdulterantName: "Colour", Observation: "Water turned red."})
	require.NoError(t, err)

	list, err := a.Reports.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOpen_GeneratorWithKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generator.APIKey = "test-key"

	a := open(t, cfg)
	assert.NotEqual(t, procedure.Unavailable{}, a.Generator)
}

func TestLookup(t *testing.T) {
	a := open(t, testConfig(t))

	food, adulterant := a.Lookup("milk", "water")
	assert.Equal(t, "milk", food.ID)
	assert.Equal(t, "Water", adulterant.Name)
	assert.NotNil(t, adulterant.Test)

	food, adulterant = a.Lookup(" MILK ", "Starch")
	assert.Equal(t, "milk", food.ID)
	assert.Equal(t, "starch", adulterant.ID)

	food, adulterant = a.Lookup("Coffee", "Chicory")
	assert.True(t, food.Custom)
	assert.Nil(t, adulterant.Test)
}

func TestProcedure(t *testing.T) {
	ctx := context.Background()
	a := open(t, testConfig(t))

	_, _, res := a.Procedure(ctx, "Milk", "Water")
	assert.Equal(t, procedure.Resolved, res.Status)
	require.NotNil(t, res.Test)

	_, _, res = a.Procedure(ctx, "Coffee", "Chicory")
	assert.Equal(t, procedure.Failed, res.Status)
	assert.True(t, apperr.IsKind(res.Err, apperr.KindGenerationFailed))
}
