// Package help holds the user guide shown by the terminal and web front-ends.
package help

import (
	_ "embed"
	"strings"

	"purity/internal/model"
)

//go:embed help.md
var content string

// Markdown returns the user guide.
func Markdown() string {
	return strings.ReplaceAll(content, "{{VERSION}}", model.Version)
}
