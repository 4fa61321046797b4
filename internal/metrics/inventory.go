package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// inventoryCollector computes the inventory summary once per scrape.
type inventoryCollector struct {
	stats   StatsFunc
	timeout time.Duration
	logger  *slog.Logger

	products *prometheus.Desc
	value    *prometheus.Desc
	average  *prometheus.Desc
	lowStock *prometheus.Desc
}

func newInventoryCollector(stats StatsFunc, timeout time.Duration, logger *slog.Logger) *inventoryCollector {
	return &inventoryCollector{
		stats:   stats,
		timeout: timeout,
		logger:  logger.With("component", "metrics"),
		products: prometheus.NewDesc(prometheus.BuildFQName(namespace, "inventory", "products"),
			"Number of products in the store", nil, nil),
		value: prometheus.NewDesc(prometheus.BuildFQName(namespace, "inventory", "value"),
			"Sum of price times stock over all products", nil, nil),
		average: prometheus.NewDesc(prometheus.BuildFQName(namespace, "inventory", "average_price"),
			"Average product price", nil, nil),
		lowStock: prometheus.NewDesc(prometheus.BuildFQName(namespace, "inventory", "low_stock_products"),
			"Number of products at or below the low stock threshold", nil, nil),
	}
}

func (c *inventoryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.products
	ch <- c.value
	ch <- c.average
	ch <- c.lowStock
}

func (c *inventoryCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	stats, err := c.stats(ctx)
	if err != nil {
		c.logger.Warn("Failed to compute inventory stats", "error", err)
		ch <- prometheus.NewInvalidMetric(c.products, err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.products, prometheus.GaugeValue, float64(stats.TotalProducts))
	ch <- prometheus.MustNewConstMetric(c.value, prometheus.GaugeValue, stats.InventoryValue.InexactFloat64())
	ch <- prometheus.MustNewConstMetric(c.average, prometheus.GaugeValue, stats.AveragePrice.InexactFloat64())
	ch <- prometheus.MustNewConstMetric(c.lowStock, prometheus.GaugeValue, float64(stats.LowStock))
}
