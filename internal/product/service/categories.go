package service

import "slices"

var categories = []string{
	"Electronics",
	"Clothing",
	"Home & Garden",
	"Sports",
	"Books",
	"Toys",
	"Tools",
	"Food & Beverage",
}

// Categories returns the fixed set of product categories.
func Categories() []string {
	return slices.Clone(categories)
}

// IsCategory reports whether c belongs to the category set.
func IsCategory(c string) bool {
	return slices.Contains(categories, c)
}
