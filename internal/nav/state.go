package nav

import (
	"fmt"

	"purity/internal/model"
	"purity/internal/procedure"
)

// Screen is the active screen.
type Screen int

const (
	Home Screen = iota
	SelectFood
	SelectAdulterant
	TestDetails
	Favorites
)

var screenNames = [...]string{
	Home:             "HOME",
	SelectFood:       "SELECT_FOOD",
	SelectAdulterant: "SELECT_ADULTERANT",
	TestDetails:      "TEST_DETAILS",
	Favorites:        "FAVORITES",
}

func (s Screen) String() string {
	if s < 0 || int(s) >= len(screenNames) {
		return fmt.Sprintf("Screen(%d)", int(s))
	}
	return screenNames[s]
}

// Event names a controller action, for errors and logs.
type Event string

const (
	EventStart            Event = "start"
	EventViewFavorites    Event = "view favorites"
	EventSelectFood       Event = "select food"
	EventSelectAdulterant Event = "select adulterant"
	EventSelectFavorite   Event = "select favorite"
	EventRemoveFavorite   Event = "remove favorite"
	EventToggleFavorite   Event = "toggle favorite"
	EventRetry            Event = "retry"
)

// TransitionError is returned for an event the current screen does not
// accept. The state is left unchanged.
type TransitionError struct {
	Screen Screen
	Event  Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s on %s", e.Event, e.Screen)
}

// State is a snapshot of the controller: the screen plus session context.
// Food and Adulterant are nil until chosen.
type State struct {
	Screen     Screen
	Food       *model.FoodItem
	Adulterant *model.Adulterant
	Resolution procedure.Resolution
}

// ActiveTest is the procedure on show, or nil. It is only ever set when
// both Food and Adulterant are.
func (s State) ActiveTest() *model.TestProcedure {
	if s.Food == nil || s.Adulterant == nil || s.Resolution.Status != procedure.Resolved {
		return nil
	}
	return s.Resolution.Test
}

// Pending reports whether a procedure is being generated.
func (s State) Pending() bool { return s.Resolution.Status == procedure.Pending }

// Failed reports whether generation failed.
func (s State) Failed() bool { return s.Resolution.Status == procedure.Failed }
