package model

// AnonymousReporter is stored when a report is submitted without a name.
const AnonymousReporter = "Anonymous"

// Report is a community complaint about an adulterated product. Reports are
// never mutated once created.
type Report struct {
	ID               string `json:"id"`
	ReporterName     string `json:"reporterName"`
	FoodName         string `json:"foodName"`
	AdulterantName   string `json:"adulterantName"`
	BrandName        string `json:"brandName,omitempty"`
	DateOfPurchase   string `json:"dateOfPurchase,omitempty"` // ISO date
	DateOfSubmission string `json:"dateOfSubmission"`         // RFC 3339
	Observation      string `json:"observation"`
	ImageBase64      string `json:"imageBase64,omitempty"` // data URI
}

// HasImage reports whether evidence is attached.
func (r Report) HasImage() bool {
	return r.ImageBase64 != ""
}
