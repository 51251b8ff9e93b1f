package model

// Adulterant is a suspected impurity of a food. Test is nil for custom
// entries until a procedure has been resolved for them.
type Adulterant struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Test *TestProcedure `json:"test,omitempty"`
}

// Clone returns a deep copy of a.
func (a Adulterant) Clone() Adulterant {
	return Adulterant{ID: a.ID, Name: a.Name, Test: CloneProcedure(a.Test)}
}

// FoodItem is a food that can be tested. Custom items are built from
// user-typed names and are never part of the catalog.
type FoodItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Icon        string       `json:"icon,omitempty"`
	Adulterants []Adulterant `json:"adulterants"`
	Custom      bool         `json:"custom,omitempty"`
}

// Clone returns a deep copy of f.
func (f FoodItem) Clone() FoodItem {
	c := f
	c.Adulterants = make([]Adulterant, len(f.Adulterants))
	for i, a := range f.Adulterants {
		c.Adulterants[i] = a.Clone()
	}
	return c
}
