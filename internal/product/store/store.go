// Package store provides an interface for product storage operations.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations.
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll returns all products, newest first.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// Create adds a new product in front of the collection and returns it.
	Create(ctx context.Context, params CreateParams) (*Product, error)

	// Update merges the non-nil fields of params into an existing product.
	// Returns ErrProductNotFound if no product exists with the given ID, the store is left unchanged.
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Product, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID, the store is left unchanged.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// Count returns the number of stored products.
	Count(ctx context.Context) (int, error)
}

// Product represents a product entity in the store.
type Product struct {
	ID          uuid.UUID
	Name        string
	Price       decimal.Decimal
	Category    string
	Stock       int32
	Description string
	CreatedAt   time.Time
}

// CreateParams holds the editable fields of a new product.
type CreateParams struct {
	Name        string
	Price       decimal.Decimal
	Category    string
	Stock       int32
	Description string
}

// UpdateParams holds the fields to merge into an existing product. Nil fields are kept.
type UpdateParams struct {
	Name        *string
	Price       *decimal.Decimal
	Category    *string
	Stock       *int32
	Description *string
}
