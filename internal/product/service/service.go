// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abgdnv/producthub/internal/product/store"
	"github.com/abgdnv/producthub/pkg/messaging"
	"github.com/abgdnv/producthub/pkg/messaging/events"
	"github.com/abgdnv/producthub/pkg/paginate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*ProductDto, error)

	// FindAll returns all products, newest first.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// Filter returns the products whose name matches query, newest first.
	// An empty or whitespace-only query returns all products.
	Filter(ctx context.Context, query string) ([]ProductDto, error)

	// Search filters products by name and returns the requested page.
	// The page number is clamped into the available range.
	Search(ctx context.Context, query string, page int) (*PageDto, error)

	// Create validates the draft and adds a new product.
	// Returns a *ValidationError if the draft is invalid.
	Create(ctx context.Context, draft ProductDraft) (*ProductDto, error)

	// Update validates the draft and replaces the editable fields of a product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id uuid.UUID, draft ProductDraft) (*ProductDto, error)

	// Patch merges the supplied fields into a product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Patch(ctx context.Context, id uuid.UUID, patch ProductPatch) (*ProductDto, error)

	// UpdateStock sets the stock quantity of a product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	UpdateStock(ctx context.Context, id uuid.UUID, stock int32) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// Stats summarizes the whole inventory.
	Stats(ctx context.Context) (*StatsDto, error)

	// Rules returns the inventory presentation rules in use.
	Rules() InventoryRules
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	publisher  messaging.Publisher
	rules      InventoryRules
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new instance of ProductService with the provided repository.
// A nil publisher discards product events.
func NewService(repo store.ProductStore, publisher messaging.Publisher, rules InventoryRules, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &Service{
		repository: repo,
		publisher:  publisher,
		rules:      rules,
		logger:     logger.With("component", "product_service"),
		now:        time.Now,
	}
}

// ProductDraft represents the editable fields of a product, as submitted by the product form.
type ProductDraft struct {
	Name        string          `json:"name"        validate:"required,max=100"`
	Price       decimal.Decimal `json:"price"       validate:"positive"`
	Category    string          `json:"category"    validate:"required,category"`
	Stock       int32           `json:"stock"       validate:"min=0"`
	Description string          `json:"description" validate:"max=500"`
}

// ProductPatch carries the fields to merge into an existing product. Nil fields are kept.
type ProductPatch struct {
	Name        *string          `json:"name"        validate:"omitempty,min=1,max=100"`
	Price       *decimal.Decimal `json:"price"       validate:"omitempty,positive"`
	Category    *string          `json:"category"    validate:"omitempty,category"`
	Stock       *int32           `json:"stock"       validate:"omitempty,min=0"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       int32           `json:"stock"`
	StockStatus StockStatus     `json:"stock_status"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// StockUpdateDto represents the data transfer object for updating product stock.
type StockUpdateDto struct {
	Stock *int32 `json:"stock" validate:"required,min=0"`
}

// PageDto is one page of a filtered product list.
type PageDto struct {
	Items      []ProductDto `json:"items"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
	TotalItems int          `json:"total_items"`
	HasNext    bool         `json:"has_next"`
	HasPrev    bool         `json:"has_prev"`
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}

	return s.toDto(product), nil
}

// FindAll retrieves a list of all products and returns them as ProductDTOs.
// Returns an empty slice if no products exist or error if the retrieval fails.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	return s.toDtos(products), nil
}

// Filter retrieves all products and keeps those whose name matches query.
func (s *Service) Filter(ctx context.Context, query string) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	return s.toDtos(FilterByName(products, query)), nil
}

// Search filters the products by name and paginates the result.
func (s *Service) Search(ctx context.Context, query string, page int) (*PageDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	p := paginate.New[store.Product](s.rules.PageSize)
	p.SetItems(FilterByName(products, query))
	p.GoToPage(page)

	return &PageDto{
		Items:      s.toDtos(p.Items()),
		Page:       p.CurrentPage(),
		PageSize:   p.PageSize(),
		TotalPages: p.TotalPages(),
		TotalItems: p.Len(),
		HasNext:    p.HasNext(),
		HasPrev:    p.HasPrev(),
	}, nil
}

// Create creates a new product and returns it as a ProductDto.
// Returns an error if the product cannot be created.
func (s *Service) Create(ctx context.Context, draft ProductDraft) (*ProductDto, error) {
	if errs := Validate(draft); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}
	p, err := s.repository.Create(ctx, store.CreateParams{
		Name:        draft.Name,
		Price:       draft.Price,
		Category:    draft.Category,
		Stock:       draft.Stock,
		Description: draft.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.publish(ctx, events.ProductCreated, p)

	return s.toDto(p), nil
}

// Update replaces the editable fields of a product and returns the updated product as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) Update(ctx context.Context, id uuid.UUID, draft ProductDraft) (*ProductDto, error) {
	if errs := Validate(draft); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}
	return s.update(ctx, id, store.UpdateParams{
		Name:        &draft.Name,
		Price:       &draft.Price,
		Category:    &draft.Category,
		Stock:       &draft.Stock,
		Description: &draft.Description,
	})
}

// Patch merges the supplied fields into a product and returns the updated product as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) Patch(ctx context.Context, id uuid.UUID, patch ProductPatch) (*ProductDto, error) {
	if errs := Validate(patch); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}
	return s.update(ctx, id, store.UpdateParams{
		Name:        patch.Name,
		Price:       patch.Price,
		Category:    patch.Category,
		Stock:       patch.Stock,
		Description: patch.Description,
	})
}

// UpdateStock sets the stock quantity of a product and returns the updated product as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) UpdateStock(ctx context.Context, id uuid.UUID, stock int32) (*ProductDto, error) {
	if stock < 0 {
		return nil, &ValidationError{Fields: FieldErrors{"stock": fieldMessages["stock.min"]}}
	}
	return s.update(ctx, id, store.UpdateParams{Stock: &stock})
}

func (s *Service) update(ctx context.Context, id uuid.UUID, params store.UpdateParams) (*ProductDto, error) {
	updated, err := s.repository.Update(ctx, id, params)
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %s: %w", id, err)
	}
	s.publish(ctx, events.ProductUpdated, updated)

	return s.toDto(updated), nil
}

// DeleteByID deletes a product by its ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) DeleteByID(ctx context.Context, id uuid.UUID) error {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product with ID %s: %w", id, err)
	}
	if err := s.repository.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product with ID %s: %w", id, err)
	}
	s.publish(ctx, events.ProductDeleted, product)
	return nil
}

// Stats computes the inventory summary over all products.
func (s *Service) Stats(ctx context.Context) (*StatsDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	stats := ComputeStats(products, s.rules.LowStockThreshold)
	return &stats, nil
}

// Rules returns the inventory presentation rules in use.
func (s *Service) Rules() InventoryRules {
	return s.rules
}

// publish emits a product event. The mutation already happened, so failures are only logged.
func (s *Service) publish(ctx context.Context, eventType events.ProductEventType, p *store.Product) {
	event := events.ProductEvent{
		Type:       eventType,
		ProductID:  p.ID,
		Name:       p.Name,
		Stock:      p.Stock,
		OccurredAt: s.now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish product event", "subject", event.Subject(), "ID", p.ID, "error", err)
	}
}

// toDto converts a store.Product to a ProductDto.
func (s *Service) toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID.String(),
		Name:        product.Name,
		Price:       product.Price,
		Category:    product.Category,
		Stock:       product.Stock,
		StockStatus: s.rules.StockStatus(product.Stock),
		Description: product.Description,
		CreatedAt:   product.CreatedAt,
	}
}

func (s *Service) toDtos(products []store.Product) []ProductDto {
	productDTOs := make([]ProductDto, len(products))
	for i := range products {
		productDTOs[i] = *s.toDto(&products[i])
	}
	return productDTOs
}
