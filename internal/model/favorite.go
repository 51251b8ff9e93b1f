package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FavoriteItem is a saved procedure snapshot. ID is always
// FavoriteKey(FoodName, AdulterantName).
type FavoriteItem struct {
	ID             string        `json:"id"`
	FoodName       string        `json:"foodName"`
	AdulterantName string        `json:"adulterantName"`
	Test           TestProcedure `json:"test"`
	Timestamp      int64         `json:"timestamp"` // epoch millis
}

// FavoriteKey derives the identity of a favorite. Names are compared
// case-insensitively, so ("Milk", "Water") and ("milk", "water") share a key.
func FavoriteKey(foodName, adulterantName string) string {
	return foldName(foodName) + "_" + foldName(adulterantName)
}

func foldName(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
