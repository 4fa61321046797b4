package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/abgdnv/producthub/internal/product/errors"
	"github.com/google/uuid"
)

// inMemory implements ProductStore on an ordered slice, newest product first.
type inMemory struct {
	mu       sync.RWMutex
	products []Product
	now      func() time.Time
	newID    func() uuid.UUID
}

// Option configures the in-memory store.
type Option func(*inMemory)

// WithClock sets the clock used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *inMemory) {
		s.now = now
	}
}

// WithIDGenerator sets the generator used for new product IDs.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *inMemory) {
		s.newID = newID
	}
}

// WithProducts seeds the store with products. The slice order is kept.
func WithProducts(products []Product) Option {
	return func(s *inMemory) {
		s.products = slices.Clone(products)
	}
}

// NewInMemoryStore creates a new instance of ProductStore
func NewInMemoryStore(opts ...Option) ProductStore {
	s := &inMemory{
		products: []Product{},
		now:      time.Now,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindByID retrieves a product by its ID.
func (s *inMemory) FindByID(_ context.Context, id uuid.UUID) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, errors.ErrProductNotFound
	}
	p := s.products[i]
	return &p, nil
}

// FindAll retrieves all products.
func (s *inMemory) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.products), nil
}

// Create creates a new product and returns it.
func (s *inMemory) Create(_ context.Context, params CreateParams) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for s.indexOf(id) >= 0 {
		id = s.newID()
	}
	product := Product{
		ID:          id,
		Name:        params.Name,
		Price:       params.Price,
		Category:    params.Category,
		Stock:       params.Stock,
		Description: params.Description,
		CreatedAt:   s.now(),
	}
	s.products = slices.Insert(s.products, 0, product)

	return &product, nil
}

// Update merges params into the product with the given ID.
func (s *inMemory) Update(_ context.Context, id uuid.UUID, params UpdateParams) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, errors.ErrProductNotFound
	}
	p := s.products[i]
	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Price != nil {
		p.Price = *params.Price
	}
	if params.Category != nil {
		p.Category = *params.Category
	}
	if params.Stock != nil {
		p.Stock = *params.Stock
	}
	if params.Description != nil {
		p.Description = *params.Description
	}
	s.products[i] = p

	return &p, nil
}

// DeleteByID deletes a product by its ID.
func (s *inMemory) DeleteByID(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return errors.ErrProductNotFound
	}
	s.products = slices.Delete(s.products, i, i+1)
	return nil
}

// Count returns the number of products.
func (s *inMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.products), nil
}

// indexOf returns the position of the product or -1. Caller holds s.mu.
func (s *inMemory) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.products, func(p Product) bool {
		return p.ID == id
	})
}
