// Package app contains the application setup for Product Hub.
package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/producthub/internal/config"
	"github.com/abgdnv/producthub/internal/dashboard"
	"github.com/abgdnv/producthub/internal/metrics"
	"github.com/abgdnv/producthub/internal/product/service"
	"github.com/abgdnv/producthub/internal/product/store"
	"github.com/abgdnv/producthub/internal/transport/html"
	"github.com/abgdnv/producthub/internal/transport/rest"
	"github.com/abgdnv/producthub/pkg/messaging"
	"github.com/abgdnv/producthub/pkg/server"
	"github.com/go-chi/chi/v5"
)

// statsScrapeTimeout bounds the inventory summary computed on a metrics scrape.
const statsScrapeTimeout = 2 * time.Second

type Dependencies struct {
	ProductService service.ProductService
	Registry       *dashboard.Registry
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
}

// SetupDependencies builds the in-memory store, the product service and the dashboard
// session registry. Product events go to the metrics counter and, when not nil, to publisher.
func SetupDependencies(cfg *config.Config, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	var opts []store.Option
	if cfg.Dashboard.Seed {
		opts = append(opts, store.WithProducts(store.SeedProducts(time.Now())))
	}
	repo := store.NewInMemoryStore(opts...)

	m := metrics.New()
	publishers := messaging.MultiPublisher{m.Publisher()}
	if publisher != nil {
		publishers = append(publishers, publisher)
	}
	pService := service.NewService(repo, publishers, cfg.InventoryRules(), logger)
	registry := dashboard.NewRegistry(pService, cfg.DashboardSettings(), logger)

	m.RegisterInventory(pService.Stats, statsScrapeTimeout, logger)
	m.RegisterSessions(registry.Len)

	return &Dependencies{
		ProductService: pService,
		Registry:       registry,
		Metrics:        m,
		Logger:         logger,
	}
}

// SetupHttpHandler initializes the routes and middleware of the Product Hub application.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) (http.Handler, error) {
	mux := server.NewChiRouter(deps.Logger)
	if err := wireRoutes(mux, deps); err != nil {
		return nil, err
	}
	return mux, nil
}

// wireRoutes sets up the JSON API and the HTML dashboard.
func wireRoutes(mux *chi.Mux, deps *Dependencies) error {
	productHandler := rest.NewHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux)

	dashboardHandler := rest.NewDashboardHandler(deps.Registry, deps.Logger)
	dashboardHandler.RegisterRoutes(mux)

	pageHandler, err := html.NewHandler(deps.Registry, deps.Logger)
	if err != nil {
		return fmt.Errorf("failed to set up dashboard pages: %w", err)
	}
	pageHandler.RegisterRoutes(mux)
	return nil
}

// SetupHttpServer creates and configures the HTTP server of the Product Hub application.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) (*http.Server, error) {
	handler, err := SetupHttpHandler(deps)
	if err != nil {
		return nil, err
	}
	if cfg.Telemetry.Enabled {
		handler = server.WithTracing(handler, "producthub")
	}

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, handler), nil
}

// SetupMetricsServer creates the Prometheus side server.
func SetupMetricsServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return metrics.NewServer(cfg.Metrics.Addr, cfg.Metrics.Path, deps.Metrics.Handler())
}
