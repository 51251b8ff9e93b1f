package reports

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purity/internal/apperr"
	"purity/internal/model"
)

func TestDraft_ValidateMissingFields(t *testing.T) {
	err := Draft{FoodName: "Milk", Observation: "  "}.Validate()
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidationFailed))

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, []string{"adulterant", "observation"}, e.Fields)
}

func TestDraft_BuildDefaults(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r, err := Draft{
		FoodName:       " Milk ",
		AdulterantName: "Water",
		Observation:    "Runs fast on a slope.",
	}.Build(now)
	require.NoError(t, err)

	assert.Equal(t, model.AnonymousReporter, r.ReporterName)
	assert.Equal(t, "Milk", r.FoodName)
	assert.True(t, strings.HasPrefix(r.ID, "1767323045000-"), r.ID)
	assert.Equal(t, "2026-01-02T03:04:05Z", r.DateOfSubmission)
	assert.False(t, r.HasImage())
}

func TestDraft_BuildKeepsReporter(t *testing.T) {
	r, err := Draft{
		ReporterName:   "Asha",
		FoodName:       "Honey",
		AdulterantName: "Sugar Syrup",
		Observation:    "Dissolved quickly.",
		BrandName:      "Golden",
		DateOfPurchase: "2026-01-01",
	}.Build(time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Asha", r.ReporterName)
	assert.Equal(t, "Golden", r.BrandName)
	assert.Equal(t, "2026-01-01", r.DateOfPurchase)
}

func TestDraft_BuildRejectsInvalid(t *testing.T) {
	_, err := Draft{}.Build(time.Now())
	assert.True(t, apperr.IsKind(err, apperr.KindValidationFailed))
}
