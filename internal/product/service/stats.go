package service

import (
	"github.com/abgdnv/producthub/internal/product/store"
	"github.com/shopspring/decimal"
)

// StockStatus is the display band of a stock count.
type StockStatus string

const (
	StockAmple    StockStatus = "ample"
	StockLow      StockStatus = "low"
	StockCritical StockStatus = "critical"
)

// InventoryRules holds the presentation thresholds of the dashboard.
type InventoryRules struct {
	// PageSize is the number of products per page.
	PageSize int
	// LowStockThreshold counts a product as low stock when stock <= threshold.
	LowStockThreshold int32
	// AmpleAbove marks stock above this value as ample.
	AmpleAbove int32
	// LowAbove marks stock above this value (and not ample) as low, anything else is critical.
	LowAbove int32
}

// DefaultInventoryRules returns the rules the dashboard ships with.
func DefaultInventoryRules() InventoryRules {
	return InventoryRules{
		PageSize:          6,
		LowStockThreshold: 10,
		AmpleAbove:        50,
		LowAbove:          10,
	}
}

// StockStatus returns the band of the given stock count.
func (r InventoryRules) StockStatus(stock int32) StockStatus {
	switch {
	case stock > r.AmpleAbove:
		return StockAmple
	case stock > r.LowAbove:
		return StockLow
	default:
		return StockCritical
	}
}

// StatsDto summarizes the whole inventory.
type StatsDto struct {
	TotalProducts  int             `json:"total_products"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	AveragePrice   decimal.Decimal `json:"average_price"`
	LowStock       int             `json:"low_stock"`
}

// ComputeStats derives the inventory summary. The average price is rounded to cents
// and is zero for an empty inventory.
func ComputeStats(products []store.Product, lowStockThreshold int32) StatsDto {
	stats := StatsDto{
		TotalProducts:  len(products),
		InventoryValue: decimal.Zero,
		AveragePrice:   decimal.Zero,
	}
	priceSum := decimal.Zero
	for _, p := range products {
		stats.InventoryValue = stats.InventoryValue.Add(p.Price.Mul(decimal.NewFromInt32(p.Stock)))
		priceSum = priceSum.Add(p.Price)
		if p.Stock <= lowStockThreshold {
			stats.LowStock++
		}
	}
	if len(products) > 0 {
		stats.AveragePrice = priceSum.Div(decimal.NewFromInt(int64(len(products)))).Round(2)
	}
	return stats
}
