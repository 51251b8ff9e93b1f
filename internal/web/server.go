// Package web serves the browser front-end and its JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"purity/internal/app"
)

//go:embed static/*
var staticFS embed.FS

const (
	shutdownTimeout = 5 * time.Second
	// Evidence images arrive base64-encoded inside the JSON body.
	maxReportBody = 16 << 20
)

// Server is the HTTP front-end.
type Server struct {
	app    *app.App
	addr   string
	logger *zap.Logger
}

// New returns a server for a listening on addr.
func New(a *app.App, addr string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{app: a, addr: addr, logger: logger}
}

// Handler returns the routed API plus the embedded static site.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Get("/catalog/{foodID}", s.handleFood)
		r.Get("/procedure", s.handleProcedure)

		r.Get("/favorites", s.handleFavorites)
		r.Post("/favorites/toggle", s.handleToggleFavorite)
		r.Delete("/favorites/{id}", s.handleRemoveFavorite)

		r.Get("/reports", s.handleReports)
		r.Post("/reports", s.handleSubmitReport)

		r.Get("/help", s.handleHelp)
		r.Get("/version", s.handleVersion)
	})

	subFS, _ := fs.Sub(staticFS, "static")
	r.Handle("/*", http.FileServer(http.FS(subFS)))
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.logger.Info("Web server listening", zap.String("addr", ln.Addr().String()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("Web server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
