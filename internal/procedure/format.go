package procedure

import (
	"fmt"
	"strings"

	"purity/internal/model"
)

const (
	documentTitle = "PMIC Adulteration Test"
	documentFoot1 = "Generated by PMIC Adulteration Checker app."
	documentFoot2 = "Pioneer Montessori Inter College"
)

// Markdown renders the printable version of a procedure.
func Markdown(foodName, adulterantName string, test model.TestProcedure) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", documentTitle)
	fmt.Fprintf(&b, "## Detecting %s in %s\n\n", adulterantName, foodName)

	section(&b, "Aim / Object", test.Aim)
	list(&b, "Materials Required", test.Materials, false)
	list(&b, "Procedure", test.Procedure, true)
	section(&b, "Observation", test.Observation)
	section(&b, "Conclusion", test.Conclusion)
	list(&b, "Precautions", test.Precautions, false)

	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "_%s_\n\n_%s_\n", documentFoot1, documentFoot2)
	return b.String()
}

func section(b *strings.Builder, title, body string) {
	fmt.Fprintf(b, "### %s\n\n%s\n\n", title, body)
}

func list(b *strings.Builder, title string, items []string, numbered bool) {
	fmt.Fprintf(b, "### %s\n\n", title)
	for i, item := range items {
		if numbered {
			fmt.Fprintf(b, "%d. %s\n", i+1, item)
		} else {
			fmt.Fprintf(b, "- %s\n", item)
		}
	}
	b.WriteString("\n")
}

// ShareText is the short message used when sharing a procedure.
func ShareText(foodName, adulterantName string, test model.TestProcedure) string {
	return fmt.Sprintf("🔬 Food Adulteration Test\n\nChecking: %s\nSuspect: %s\n\nAim: %s\nResult: %s\n\nGet the app to learn more!",
		foodName, adulterantName, test.Aim, test.Conclusion)
}

// FileName is the download name for a procedure about foodName.
func FileName(foodName string) string {
	return "PMIC_Test_" + strings.Join(strings.Fields(foodName), "_") + ".md"
}
