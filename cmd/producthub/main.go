// Package main runs the Product Hub inventory dashboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "net/http/pprof"

	"github.com/abgdnv/producthub/internal/app"
	"github.com/abgdnv/producthub/internal/config"
	"github.com/abgdnv/producthub/pkg/bootstrap"
	"github.com/abgdnv/producthub/pkg/config/configloader"
	"github.com/abgdnv/producthub/pkg/messaging"
	pkgnats "github.com/abgdnv/producthub/pkg/nats"
	"github.com/abgdnv/producthub/pkg/telemetry"
	"golang.org/x/sync/errgroup"
)

const serviceName = "producthub"

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run loads the configuration, wires the optional NATS publisher and tracer, and starts
// the HTTP, metrics and pprof servers next to the dashboard session sweeper.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	if cfg.Telemetry.Enabled {
		tp, err := telemetry.NewTracerProvider(ctx, serviceName, cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("failed to create tracer provider: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Error("Failed to shut down tracer provider", "error", err)
			}
		}()
	}

	var publisher messaging.Publisher
	if cfg.Nats.Enabled {
		nc, err := pkgnats.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
		if err != nil {
			return err
		}
		defer nc.Close()
		js, err := pkgnats.NewJetStreamContext(nc)
		if err != nil {
			return err
		}
		if err := pkgnats.EnsureStream(ctx, js, messaging.ProductsStream, messaging.ProductsSubjects); err != nil {
			return err
		}
		publisher = pkgnats.NewNatsPublisher(js, cfg.Nats.PublishTimeout)
		logger.Info("Publishing product events to NATS", "url", cfg.Nats.Url)
	}

	deps := app.SetupDependencies(cfg, publisher, logger)
	httpServer, err := app.SetupHttpServer(deps, cfg)
	if err != nil {
		return fmt.Errorf("failed to set up HTTP server: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	serve(gCtx, g, logger, "HTTP", httpServer, cfg)

	if cfg.Metrics.Enabled {
		serve(gCtx, g, logger, "Metrics", app.SetupMetricsServer(deps, cfg), cfg)
	}

	if cfg.PProf.Enabled {
		serve(gCtx, g, logger, "Pprof", &http.Server{Addr: cfg.PProf.Addr}, cfg)
	}

	// expire idle dashboard sessions
	g.Go(func() error {
		return deps.Registry.Run(gCtx, cfg.Dashboard.SweepInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// serve starts srv in the group and shuts it down gracefully once ctx is cancelled.
func serve(ctx context.Context, g *errgroup.Group, logger *slog.Logger, name string, srv *http.Server, cfg *config.Config) {
	g.Go(func() error {
		logger.Info(name+" server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s server failed: %w", name, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down " + name + " server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
