// Package catalog holds the static reference data: foods, their known
// adulterants and the test procedure for each.
package catalog

import (
	"strings"

	"github.com/google/uuid"

	"purity/internal/model"
)

// CustomIDPrefix marks ids synthesized for user-typed entries.
const CustomIDPrefix = "custom_"

// Catalog is an immutable list of foods. Accessors hand out deep copies so
// callers can never edit the reference data.
type Catalog struct {
	foods []model.FoodItem
	byID  map[string]int
}

// New builds a catalog from foods. Later entries with a duplicate id are ignored.
func New(foods []model.FoodItem) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(foods))}
	for _, f := range foods {
		if _, dup := c.byID[f.ID]; dup {
			continue
		}
		c.byID[f.ID] = len(c.foods)
		c.foods = append(c.foods, f.Clone())
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(defaultFoods())
}

// Foods returns all foods in display order.
func (c *Catalog) Foods() []model.FoodItem {
	out := make([]model.FoodItem, len(c.foods))
	for i, f := range c.foods {
		out[i] = f.Clone()
	}
	return out
}

// Len returns the number of foods.
func (c *Catalog) Len() int {
	return len(c.foods)
}

// Food looks a food up by id.
func (c *Catalog) Food(id string) (model.FoodItem, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.FoodItem{}, false
	}
	return c.foods[i].Clone(), true
}

// FindFood looks a food up by display name, ignoring case and surrounding
// whitespace.
func (c *Catalog) FindFood(name string) (model.FoodItem, bool) {
	name = strings.TrimSpace(name)
	for _, f := range c.foods {
		if strings.EqualFold(f.Name, name) {
			return f.Clone(), true
		}
	}
	return model.FoodItem{}, false
}

// FindAdulterant looks up an adulterant of food by id or display name.
func FindAdulterant(food model.FoodItem, nameOrID string) (model.Adulterant, bool) {
	key := strings.TrimSpace(nameOrID)
	for _, a := range food.Adulterants {
		if a.ID == key || strings.EqualFold(a.Name, key) {
			return a.Clone(), true
		}
	}
	return model.Adulterant{}, false
}

// CustomFood builds a transient food for a name the catalog does not know.
func CustomFood(name string) model.FoodItem {
	return model.FoodItem{
		ID:          CustomIDPrefix + uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Icon:        model.IconCustom,
		Adulterants: []model.Adulterant{},
		Custom:      true,
	}
}

// CustomAdulterant builds a transient adulterant with no procedure attached.
func CustomAdulterant(name string) model.Adulterant {
	return model.Adulterant{
		ID:   CustomIDPrefix + uuid.NewString(),
		Name: strings.TrimSpace(name),
	}
}

// IsCustomID reports whether id was synthesized by CustomFood or CustomAdulterant.
func IsCustomID(id string) bool {
	return strings.HasPrefix(id, CustomIDPrefix)
}

func adulterant(id, name string, test model.TestProcedure) model.Adulterant {
	return model.Adulterant{ID: id, Name: name, Test: &test}
}

func food(id, name string, adulterants ...model.Adulterant) model.FoodItem {
	return model.FoodItem{ID: id, Name: name, Icon: model.FoodIcon(id), Adulterants: adulterants}
}

func defaultFoods() []model.FoodItem {
	return []model.FoodItem{
		food("turmeric", "Turmeric Powder",
			adulterant("chalk", "Chalk Powder", turmericChalkTest),
			adulterant("metanil", "Metanil Yellow", turmericMetanilTest),
		),
		food("chilli", "Chilli Powder",
			adulterant("brick", "Brick Powder", chilliBrickPowderTest),
			adulterant("artificial_color", "Artificial Color", chilliColorTest),
		),
		food("milk", "Milk",
			adulterant("water", "Water", milkWaterTest),
			adulterant("starch", "Starch", milkStarchTest),
			adulterant("detergent", "Detergent", milkDetergentTest),
		),
		food("honey", "Honey",
			adulterant("sugar_solution", "Sugar Solution", honeySugarTest),
		),
		food("sugar", "Sugar",
			adulterant("chalk_powder", "Chalk Powder", sugarChalkTest),
		),
		food("oil", "Edible Oil",
			adulterant("argemone", "Argemone Oil", oilArgemoneTest),
		),
		food("tea", "Tea Leaves",
			adulterant("iron", "Iron Filings", teaIronFilingsTest),
			adulterant("color", "Artificial Color", teaColorTest),
		),
		food("black_pepper", "Black Pepper",
			adulterant("papaya", "Papaya Seeds", blackPepperPapayaTest),
		),
	}
}
