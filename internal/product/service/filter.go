package service

import (
	"strings"

	"github.com/abgdnv/producthub/internal/product/store"
)

// FilterByName returns the products whose name contains query, ignoring case.
// An empty or whitespace-only query returns products unfiltered.
func FilterByName(products []store.Product, query string) []store.Product {
	if strings.TrimSpace(query) == "" {
		return products
	}
	q := strings.ToLower(query)
	filtered := make([]store.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
