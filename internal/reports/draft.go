package reports

import (
	"strings"
	"time"

	"purity/internal/apperr"
	"purity/internal/model"
)

// Draft is report form input before validation.
type Draft struct {
	ReporterName   string `json:"reporterName"`
	FoodName       string `json:"foodName"`
	AdulterantName string `json:"adulterantName"`
	BrandName      string `json:"brandName"`
	DateOfPurchase string `json:"dateOfPurchase"`
	Observation    string `json:"observation"`
	ImageBase64    string `json:"imageBase64"`
}

// Validate checks that the required fields are present.
func (d Draft) Validate() error {
	var missing []string
	if strings.TrimSpace(d.FoodName) == "" {
		missing = append(missing, "food item")
	}
	if strings.TrimSpace(d.AdulterantName) == "" {
		missing = append(missing, "adulterant")
	}
	if strings.TrimSpace(d.Observation) == "" {
		missing = append(missing, "observation")
	}
	if len(missing) > 0 {
		return apperr.Validation(missing...)
	}
	return nil
}

// Build validates d and turns it into a Report submitted at now. The id comes
// from NewLocalID; remote stores may replace it.
func (d Draft) Build(now time.Time) (model.Report, error) {
	if err := d.Validate(); err != nil {
		return model.Report{}, err
	}

	reporter := strings.TrimSpace(d.ReporterName)
	if reporter == "" {
		reporter = model.AnonymousReporter
	}

	return model.Report{
		ID:               NewLocalID(now),
		ReporterName:     reporter,
		FoodName:         strings.TrimSpace(d.FoodName),
		AdulterantName:   strings.TrimSpace(d.AdulterantName),
		BrandName:        strings.TrimSpace(d.BrandName),
		DateOfPurchase:   strings.TrimSpace(d.DateOfPurchase),
		DateOfSubmission: now.UTC().Format(time.RFC3339Nano),
		Observation:      strings.TrimSpace(d.Observation),
		ImageBase64:      d.ImageBase64,
	}, nil
}
