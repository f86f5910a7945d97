package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammed-shakir/digipin/internal/core/config"
	"github.com/mohammed-shakir/digipin/internal/core/health"
	middleware "github.com/mohammed-shakir/digipin/internal/core/middleware"
	"github.com/mohammed-shakir/digipin/internal/core/router"
	"github.com/mohammed-shakir/digipin/internal/mapper"
)

// Deps are the collaborators behind the HTTP routes. Cache and Ready may be nil.
type Deps struct {
	Grid  mapper.Interface
	H3    router.H3Bridge
	Cache router.GridCache
	Ready health.Checker
	// Metrics serves /metrics; nil selects the default Prometheus handler.
	Metrics http.Handler
}

// Routes builds the chi router for the service.
func Routes(cfg config.Config, logger *slog.Logger, d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS())

	metrics := d.Metrics
	if metrics == nil {
		metrics = promhttp.Handler()
	}

	r.Get("/healthz", health.Liveness())
	r.Get("/readyz", health.Readiness(d.Ready, 2*time.Second))
	r.Method(http.MethodGet, "/metrics", metrics)

	r.Get("/encode", router.HandleEncode(logger))
	r.Get("/decode", router.HandleDecode(logger))
	r.Get("/cell", router.HandleCell(logger, d.Grid))
	r.Get("/grid", router.HandleGrid(logger, cfg, d.Grid, d.Cache))
	r.Get("/h3", router.HandleH3(logger, cfg, d.H3))
	return r
}

// sets up http and starts serving
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, d Deps) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           Routes(cfg, logger, d),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listen", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
