package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"purity/internal/reports"
)

// Report form fields, in tab order.
const (
	FieldReporter = iota
	FieldFood
	FieldAdulterant
	FieldBrand
	FieldPurchaseDate
	FieldObservation
	FieldImage
	fieldCount
)

var fieldLabels = [fieldCount]string{
	FieldReporter:     "Your Name (optional)",
	FieldFood:         "Food Item *",
	FieldAdulterant:   "Suspected Adulterant *",
	FieldBrand:        "Brand Name",
	FieldPurchaseDate: "Date of Purchase (YYYY-MM-DD)",
	FieldObservation:  "What did you observe? *",
	FieldImage:        "Photo (path to image file)",
}

// ReportForm is the complaint form.
type ReportForm struct {
	Inputs []textinput.Model
	Focus  int
}

// NewReportForm returns an empty form focused on the first field.
func NewReportForm() ReportForm {
	f := ReportForm{Inputs: make([]textinput.Model, fieldCount)}
	for i := range f.Inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Width = 50
		ti.CharLimit = 200
		if i == FieldObservation {
			ti.CharLimit = 1000
		}
		f.Inputs[i] = ti
	}
	f.Inputs[FieldReporter].Placeholder = "Anonymous"
	f.Inputs[FieldPurchaseDate].Placeholder = "2026-01-31"
	f.Inputs[FieldImage].Placeholder = "~/Pictures/evidence.jpg"
	f.Inputs[0].Focus()
	return f
}

// Reset clears every field and focuses the first one.
func (f *ReportForm) Reset() {
	*f = NewReportForm()
}

// Prefill fills food and adulterant, for reports started from a test.
func (f *ReportForm) Prefill(food, adulterant string) {
	f.Inputs[FieldFood].SetValue(food)
	f.Inputs[FieldAdulterant].SetValue(adulterant)
}

// Next moves focus to the next field, wrapping around.
func (f *ReportForm) Next() { f.focus((f.Focus + 1) % fieldCount) }

// Prev moves focus to the previous field, wrapping around.
func (f *ReportForm) Prev() { f.focus((f.Focus + fieldCount - 1) % fieldCount) }

// OnLast reports whether the last field has focus.
func (f ReportForm) OnLast() bool { return f.Focus == fieldCount-1 }

func (f *ReportForm) focus(i int) {
	f.Inputs[f.Focus].Blur()
	f.Focus = i
	f.Inputs[f.Focus].Focus()
}

// Update forwards msg to the focused field.
func (f ReportForm) Update(msg tea.Msg) (ReportForm, tea.Cmd) {
	var cmd tea.Cmd
	f.Inputs[f.Focus], cmd = f.Inputs[f.Focus].Update(msg)
	return f, cmd
}

// Draft returns the entered values. The image is returned separately as a
// path; it is loaded when the report is submitted.
func (f ReportForm) Draft() reports.Draft {
	v := func(i int) string { return strings.TrimSpace(f.Inputs[i].Value()) }
	return reports.Draft{
		ReporterName:   v(FieldReporter),
		FoodName:       v(FieldFood),
		AdulterantName: v(FieldAdulterant),
		BrandName:      v(FieldBrand),
		DateOfPurchase: v(FieldPurchaseDate),
		Observation:    v(FieldObservation),
	}
}

// ImagePath is the evidence file path, if any.
func (f ReportForm) ImagePath() string {
	return strings.TrimSpace(f.Inputs[FieldImage].Value())
}
