// Package config holds the configuration of the Product Hub service.
package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/producthub/internal/dashboard"
	"github.com/abgdnv/producthub/internal/product/service"
	"github.com/abgdnv/producthub/pkg/config"
	"github.com/abgdnv/producthub/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig      `koanf:"server"`
	Log        config.LogConfig       `koanf:"log"`
	PProf      config.PProfConfig     `koanf:"pprof"`
	Shutdown   config.ShutdownConfig  `koanf:"shutdown"`
	Metrics    config.MetricsConfig   `koanf:"metrics"`
	Telemetry  config.TelemetryConfig `koanf:"telemetry"`
	Nats       config.NATSConfig      `koanf:"nats"`
	Dashboard  config.DashboardConfig `koanf:"dashboard"`
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString("\n--- Server Configuration ---\n")
	b.WriteString(fmt.Sprintf("  server.port: %d\n", c.HTTPServer.Port))
	b.WriteString(fmt.Sprintf("  server.maxHeaderBytes: %d\n", c.HTTPServer.MaxHeaderBytes))
	b.WriteString(fmt.Sprintf("  server.timeout.read: %v\n", c.HTTPServer.Timeout.Read))
	b.WriteString(fmt.Sprintf("  server.timeout.write: %v\n", c.HTTPServer.Timeout.Write))
	b.WriteString(fmt.Sprintf("  server.timeout.idle: %v\n", c.HTTPServer.Timeout.Idle))
	b.WriteString(fmt.Sprintf("  server.timeout.readHeader: %v\n", c.HTTPServer.Timeout.ReadHeader))

	b.WriteString(c.Dashboard.String())
	b.WriteString(c.Nats.String())

	b.WriteString("\n--- Observability & Logging ---\n")
	b.WriteString(fmt.Sprintf("  log.level: %s\n", c.Log.Level))
	b.WriteString(fmt.Sprintf("  pprof.enabled: %t\n", c.PProf.Enabled))
	b.WriteString(fmt.Sprintf("  pprof.address: %s\n", c.PProf.Addr))
	b.WriteString(c.Metrics.String())
	b.WriteString(c.Telemetry.String())

	b.WriteString(c.Shutdown.String())

	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.HTTPServer,
		&c.Log,
		&c.PProf,
		&c.Shutdown,
		&c.Metrics,
		&c.Telemetry,
		&c.Nats,
		&c.Dashboard,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// InventoryRules returns the presentation rules of the product service.
func (c *Config) InventoryRules() service.InventoryRules {
	return service.InventoryRules{
		PageSize:          c.Dashboard.PageSize,
		LowStockThreshold: c.Dashboard.LowStockThreshold,
		AmpleAbove:        c.Dashboard.StockBands.Ample,
		LowAbove:          c.Dashboard.StockBands.Low,
	}
}

// DashboardSettings returns the timings of dashboard sessions.
func (c *Config) DashboardSettings() dashboard.Settings {
	return dashboard.Settings{
		SearchDebounce: c.Dashboard.SearchDebounce,
		ToastTTL:       c.Dashboard.ToastTTL,
		IdleTimeout:    c.Dashboard.SessionIdleTimeout,
	}
}
