// Package app wires the stores, the resolver and the navigation controller
// into one application context shared by every front-end.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"purity/internal/catalog"
	"purity/internal/config"
	"purity/internal/evidence"
	"purity/internal/favorites"
	"purity/internal/gemini"
	"purity/internal/model"
	"purity/internal/nav"
	"purity/internal/procedure"
	"purity/internal/reports"
	"purity/internal/storage"
)

// ErrLocalMode is returned by operations that need the remote report store.
var ErrLocalMode = errors.New("reports are in local mode")

// App is the application context.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Catalog   *catalog.Catalog
	Favorites *favorites.Store
	Reports   reports.Store
	Generator procedure.Generator
	Resolver  *procedure.Resolver
	Nav       *nav.Controller

	storage *storage.Store
	remote  *reports.RemoteStore
	timeout time.Duration
	now     func() time.Time
}

// Open builds the application context from cfg.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout, err := cfg.GeneratorTimeout()
	if err != nil {
		return nil, err
	}

	kv, err := storage.Open(cfg.StoragePath())
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Catalog: catalog.Default(),
		storage: kv,
		timeout: timeout,
		now:     time.Now,
	}

	a.Favorites = favorites.Load(ctx, kv, logger.Named("favorites"))

	local := reports.NewLocalStore(kv, logger.Named("reports"))
	a.Reports = local
	if cfg.Reports.Mode == config.ReportsRemote {
		remote, err := reports.OpenRemote(cfg.Reports.Driver, cfg.Reports.DSN, cfg.Reports.Limit, logger.Named("reports"))
		if err != nil {
			kv.Close()
			return nil, err
		}
		a.remote = remote
		a.Reports = reports.NewFallbackStore(remote, local, logger.Named("reports"))
	}

	a.Generator = newGenerator(ctx, cfg, logger)
	a.Resolver = a.NewResolver()
	a.Nav = nav.New(a.Catalog, a.Favorites, a.Resolver, logger.Named("nav"))

	logger.Info("Application ready",
		zap.String("data_dir", cfg.DataDir),
		zap.String("reports", string(a.Reports.Mode())),
		zap.Int("favorites", a.Favorites.Len()))
	return a, nil
}

func newGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) procedure.Generator {
	if !cfg.GeneratorEnabled() {
		logger.Info("No generator API key, custom entries cannot be generated")
		return procedure.Unavailable{}
	}
	g, err := gemini.New(ctx, gemini.Config{
		APIKey: cfg.Generator.APIKey,
		Model:  cfg.Generator.Model,
	}, logger.Named("gemini"))
	if err != nil {
		logger.Warn("Gemini unavailable", zap.Error(err))
		return procedure.Unavailable{}
	}
	return g
}

// NewResolver returns a resolver over the configured generator. The TUI
// shares a.Resolver; request-scoped callers take their own.
func (a *App) NewResolver() *procedure.Resolver {
	return procedure.NewResolver(a.Generator, a.Logger.Named("procedure"), procedure.WithTimeout(a.timeout))
}

// Lookup maps free-form names, or catalog ids, onto a food and adulterant.
// Names the catalog does not know become custom entries.
func (a *App) Lookup(foodName, adulterantName string) (model.FoodItem, model.Adulterant) {
	food, ok := a.Catalog.Food(foodName)
	if !ok {
		food, ok = a.Catalog.FindFood(foodName)
	}
	if !ok {
		food = catalog.CustomFood(foodName)
	}
	adulterant, ok := catalog.FindAdulterant(food, adulterantName)
	if !ok {
		adulterant = catalog.CustomAdulterant(adulterantName)
	}
	return food, adulterant
}

// Procedure resolves a test for the named pair on a private resolver, so
// concurrent callers never supersede each other.
func (a *App) Procedure(ctx context.Context, foodName, adulterantName string) (model.FoodItem, model.Adulterant, procedure.Resolution) {
	food, adulterant := a.Lookup(foodName, adulterantName)
	return food, adulterant, a.NewResolver().Resolve(ctx, food, adulterant)
}

// SubmitReport validates d, shrinks its evidence image and saves it.
func (a *App) SubmitReport(ctx context.Context, d reports.Draft) (model.Report, error) {
	r, err := d.Build(a.now())
	if err != nil {
		return model.Report{}, err
	}
	if r.HasImage() {
		r.ImageBase64 = evidence.CompressOrOriginal(r.ImageBase64, evidence.DefaultMaxWidth, evidence.DefaultQuality)
	}
	return a.Reports.Save(ctx, r)
}

// ProvisionReports creates the remote reports table.
func (a *App) ProvisionReports(ctx context.Context) error {
	if a.remote == nil {
		return ErrLocalMode
	}
	return a.remote.Provision(ctx)
}

// Close releases storage handles.
func (a *App) Close() error {
	var errs []error
	if a.remote != nil {
		errs = append(errs, a.remote.Close())
	}
	errs = append(errs, a.storage.Close())
	return errors.Join(errs...)
}
