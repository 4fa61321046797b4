package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type seedProduct struct {
	name        string
	price       string
	category    string
	stock       int32
	description string
	age         time.Duration
}

var seedProducts = []seedProduct{
	{"Wireless Headphones", "149.99", "Electronics", 45, "Over-ear headphones with active noise cancellation and 30 hour battery life.", 1 * 24 * time.Hour},
	{"Organic Cotton T-Shirt", "24.99", "Clothing", 120, "Soft crew neck tee made from certified organic cotton.", 2 * 24 * time.Hour},
	{"Ceramic Plant Pot", "18.50", "Home & Garden", 8, "Glazed pot with drainage hole, 20 cm diameter.", 3 * 24 * time.Hour},
	{"Yoga Mat", "39.00", "Sports", 64, "Non-slip 6 mm mat with carrying strap.", 4 * 24 * time.Hour},
	{"Mechanical Keyboard", "119.00", "Electronics", 23, "Tenkeyless layout with hot-swappable switches.", 5 * 24 * time.Hour},
	{"The Pragmatic Programmer", "42.95", "Books", 15, "20th anniversary edition.", 6 * 24 * time.Hour},
	{"Cordless Drill", "89.99", "Tools", 6, "18V drill driver with two batteries and charger.", 7 * 24 * time.Hour},
	{"Wooden Puzzle Set", "29.99", "Toys", 52, "Set of four puzzles for ages 3 and up.", 8 * 24 * time.Hour},
	{"Single Origin Coffee Beans", "16.75", "Food & Beverage", 3, "Medium roast, 500 g bag.", 9 * 24 * time.Hour},
	{"Running Shoes", "99.95", "Sports", 31, "Lightweight road shoes with breathable mesh upper.", 10 * 24 * time.Hour},
	{"Smart Watch", "249.00", "Electronics", 11, "", 11 * 24 * time.Hour},
	{"Garden Hose 25m", "34.90", "Home & Garden", 0, "Kink resistant hose with spray nozzle.", 12 * 24 * time.Hour},
}

// SeedProducts returns the initial catalog, newest first, with creation times relative to now.
func SeedProducts(now time.Time) []Product {
	products := make([]Product, 0, len(seedProducts))
	for _, sp := range seedProducts {
		products = append(products, Product{
			ID:          uuid.New(),
			Name:        sp.name,
			Price:       decimal.RequireFromString(sp.price),
			Category:    sp.category,
			Stock:       sp.stock,
			Description: sp.description,
			CreatedAt:   now.Add(-sp.age),
		})
	}
	return products
}
