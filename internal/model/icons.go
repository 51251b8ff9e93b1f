package model

// Version is the application version reported by the CLI and the web API.
const Version = "1.2.0"

// Centralized glyphs for food items, keyed by catalog id.
// Single-width symbols keep list columns aligned in the terminal.
const (
	IconDefault   = "•"
	IconFavorite  = "♥"
	IconNotSaved  = "♡"
	IconCustom    = "✎"
	IconGenerated = "✦" // procedure came from the generator
)

var foodIcons = map[string]string{
	"turmeric":     "✿",
	"chilli":       "▲",
	"milk":         "◍",
	"honey":        "⬡",
	"sugar":        "✧",
	"oil":          "◆",
	"tea":          "❦",
	"black_pepper": "●",
}

// FoodIcon returns the glyph for a catalog food id.
func FoodIcon(id string) string {
	if icon, ok := foodIcons[id]; ok {
		return icon
	}
	return IconDefault
}
