// Package nav sequences the user through the screens. The Controller holds
// the current screen and session context; front-ends call its methods and
// render the State they return.
package nav

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"purity/internal/apperr"
	"purity/internal/catalog"
	"purity/internal/favorites"
	"purity/internal/model"
	"purity/internal/procedure"
)

// Placeholder ids for context rebuilt from a favorite.
const (
	FavoriteFoodID       = "fav_food"
	FavoriteAdulterantID = "fav_adj"
)

var (
	ErrUnknownFood       = errors.New("unknown food")
	ErrUnknownAdulterant = errors.New("unknown adulterant")
	ErrUnknownFavorite   = errors.New("unknown favorite")
)

// Controller is the navigation state machine.
type Controller struct {
	catalog   *catalog.Catalog
	favorites *favorites.Store
	resolver  *procedure.Resolver
	logger    *zap.Logger

	mu         sync.Mutex
	screen     Screen
	food       *model.FoodItem
	adulterant *model.Adulterant
}

// New returns a Controller on the HOME screen.
func New(cat *catalog.Catalog, favs *favorites.Store, resolver *procedure.Resolver, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		catalog:   cat,
		favorites: favs,
		resolver:  resolver,
		logger:    logger,
		screen:    Home,
	}
}

// Catalog is the catalog foods are chosen from.
func (c *Controller) Catalog() *catalog.Catalog { return c.catalog }

// Favorites is the favorites store the controller toggles.
func (c *Controller) Favorites() *favorites.Store { return c.favorites }

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Start moves HOME → SELECT_FOOD.
func (c *Controller) Start() (State, error) {
	return c.from(Home, EventStart, func() { c.moveLocked(SelectFood) })
}

// ViewFavorites moves HOME → FAVORITES.
func (c *Controller) ViewFavorites() (State, error) {
	return c.from(Home, EventViewFavorites, func() { c.moveLocked(Favorites) })
}

// SelectFood picks a catalog food by id and moves to SELECT_ADULTERANT.
func (c *Controller) SelectFood(id string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != SelectFood {
		return c.stateLocked(), &TransitionError{Screen: c.screen, Event: EventSelectFood}
	}
	food, ok := c.catalog.Food(id)
	if !ok {
		return c.stateLocked(), fmt.Errorf("%w: %q", ErrUnknownFood, id)
	}
	c.chooseFoodLocked(food)
	return c.stateLocked(), nil
}

// SelectCustomFood picks a food by typed name. A name matching a catalog
// food selects that food; anything else builds a custom one.
func (c *Controller) SelectCustomFood(name string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != SelectFood {
		return c.stateLocked(), &TransitionError{Screen: c.screen, Event: EventSelectFood}
	}
	if strings.TrimSpace(name) == "" {
		return c.stateLocked(), apperr.Validation("food name")
	}

	food, ok := c.catalog.FindFood(name)
	if !ok {
		food = catalog.CustomFood(name)
	}
	c.chooseFoodLocked(food)
	return c.stateLocked(), nil
}

// SelectAdulterant picks an adulterant of the selected food by id or name
// and moves to TEST_DETAILS.
func (c *Controller) SelectAdulterant(idOrName string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != SelectAdulterant || c.food == nil {
		return c.stateLocked(), &TransitionError{Screen: c.screen, Event: EventSelectAdulterant}
	}
	a, ok := catalog.FindAdulterant(*c.food, idOrName)
	if !ok {
		return c.stateLocked(), fmt.Errorf("%w: %q for %s", ErrUnknownAdulterant, idOrName, c.food.Name)
	}
	c.chooseAdulterantLocked(a)
	return c.stateLocked(), nil
}

// SelectCustomAdulterant picks an adulterant by typed name. Known names
// select the catalog entry; others start generation.
func (c *Controller) SelectCustomAdulterant(name string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != SelectAdulterant || c.food == nil {
		return c.stateLocked(), &TransitionError{Screen: c.screen, Event: EventSelectAdulterant}
	}
	if strings.TrimSpace(name) == "" {
		return c.stateLocked(), apperr.Validation("adulterant name")
	}

	a, ok := catalog.FindAdulterant(*c.food, name)
	if !ok {
		a = catalog.CustomAdulterant(name)
	}
	c.chooseAdulterantLocked(a)
	return c.stateLocked(), nil
}

// SelectFavorite opens a saved favorite on TEST_DETAILS. The session
// context is rebuilt from the favorite and its stored procedure is shown
// as is; nothing is resolved.
func (c *Controller) SelectFavorite(id string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != Favorites {
		return c.stateLocked(), &TransitionError{Screen: c.screen, Event: EventSelectFavorite}
	}
	item, ok := c.favorites.Get(id)
	if !ok {
		return c.stateLocked(), fmt.Errorf("%w: %q", ErrUnknownFavorite, id)
	}

	c.food = &model.FoodItem{ID: FavoriteFoodID, Name: item.FoodName, Adulterants: []model.Adulterant{}}
	c.adulterant = &model.Adulterant{ID: FavoriteAdulterantID, Name: item.AdulterantName}
	c.resolver.Adopt(item.Test)
	c.moveLocked(TestDetails)
	return c.stateLocked(), nil
}

// RemoveFavorite deletes a favorite from the FAVORITES screen.
func (c *Controller) RemoveFavorite(ctx context.Context, id string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != Favorites {
		return c.stateLocked(), &TransitionError{Screen: c.screen, Event: EventRemoveFavorite}
	}
	c.favorites.Remove(ctx, id)
	return c.stateLocked(), nil
}

// Back follows the back-navigation table. No history is kept: from
// TEST_DETAILS the destination is SELECT_ADULTERANT whenever both food and
// adulterant are set, which includes context rebuilt from a favorite, and
// FAVORITES otherwise.
func (c *Controller) Back() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.screen {
	case SelectFood:
		c.moveLocked(Home)
	case SelectAdulterant:
		c.moveLocked(SelectFood)
	case TestDetails:
		if c.food != nil && c.adulterant != nil {
			c.moveLocked(SelectAdulterant)
		} else {
			c.moveLocked(Favorites)
		}
	default:
		c.moveLocked(Home)
	}
	return c.stateLocked()
}

// Home returns to HOME from anywhere.
func (c *Controller) Home() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moveLocked(Home)
	return c.stateLocked()
}

// ApplyResolution records a generation outcome. It reports false when the
// outcome is stale: the user left TEST_DETAILS or moved to another pair.
func (c *Controller) ApplyResolution(o procedure.Outcome) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != TestDetails {
		return c.stateLocked(), false
	}
	_, applied := c.resolver.Apply(o)
	return c.stateLocked(), applied
}

// Retry asks for a new generation after a failure.
func (c *Controller) Retry() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != TestDetails {
		return c.stateLocked(), &TransitionError{Screen: c.screen, Event: EventRetry}
	}
	if _, ok := c.resolver.Retry(); !ok {
		return c.stateLocked(), &TransitionError{Screen: c.screen, Event: EventRetry}
	}
	return c.stateLocked(), nil
}

// ToggleFavorite saves or unsaves the procedure on show. Without a resolved
// procedure it does nothing.
func (c *Controller) ToggleFavorite(ctx context.Context) (favorites.Change, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != TestDetails {
		return favorites.Unchanged, &TransitionError{Screen: c.screen, Event: EventToggleFavorite}
	}
	st := c.stateLocked()
	change := c.favorites.Toggle(ctx, st.Food, st.Adulterant, st.ActiveTest())
	if change != favorites.Unchanged {
		c.logger.Info("Toggled favorite",
			zap.String("key", model.FavoriteKey(st.Food.Name, st.Adulterant.Name)),
			zap.Stringer("change", change))
	}
	return change, nil
}

// IsFavorite reports whether the current pair is saved. It is false while
// food or adulterant is unset.
func (c *Controller) IsFavorite() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.favorites.IsFavorite(c.food, c.adulterant)
}

func (c *Controller) from(want Screen, ev Event, apply func()) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != want {
		return c.stateLocked(), &TransitionError{Screen: c.screen, Event: ev}
	}
	apply()
	return c.stateLocked(), nil
}

func (c *Controller) chooseFoodLocked(food model.FoodItem) {
	c.food = &food
	c.adulterant = nil
	c.moveLocked(SelectAdulterant)
}

func (c *Controller) chooseAdulterantLocked(a model.Adulterant) {
	c.adulterant = &a
	c.resolver.Begin(*c.food, a)
	c.moveLocked(TestDetails)
}

// moveLocked switches screens. Leaving TEST_DETAILS ends the resolution
// visit so late generation results are dropped.
func (c *Controller) moveLocked(next Screen) {
	if c.screen == TestDetails && next != TestDetails {
		c.resolver.Reset()
	}
	if next != c.screen {
		c.logger.Debug("Screen change", zap.Stringer("from", c.screen), zap.Stringer("to", next))
	}
	c.screen = next
}

func (c *Controller) stateLocked() State {
	st := State{Screen: c.screen, Resolution: c.resolver.Current()}
	if c.food != nil {
		f := c.food.Clone()
		st.Food = &f
	}
	if c.adulterant != nil {
		a := c.adulterant.Clone()
		st.Adulterant = &a
	}
	return st
}
