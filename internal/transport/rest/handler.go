// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	producterrors "github.com/abgdnv/producthub/internal/product/errors"
	"github.com/abgdnv/producthub/internal/product/service"
	"github.com/abgdnv/producthub/pkg/web"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.ProductService
	logger  *slog.Logger
}

// NewHandler creates a new instance of the product Handler with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the product API.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.Search)
		r.Post("/", h.Create)
		r.Get("/stats", h.Stats)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Delete("/", h.DeleteByID)
			r.Put("/", h.Update)
			r.Patch("/", h.Patch)
			r.Put("/stock", h.UpdateStock)
		})
	})
	r.Get("/api/v1/categories", h.Categories)

	r.Get("/healthz", h.HealthCheck)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, producterrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %s", id))
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// Search returns one page of the products whose name matches the q parameter.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	page, ok := web.ParseOptionalIntGte(r, w, mLogger, "page", 1, 1)
	if !ok {
		return
	}
	query := r.URL.Query().Get("q")
	mLogger.DebugContext(r.Context(), "Received request to search products", "query", query, "page", page)
	result, err := h.service.Search(r.Context(), query, page)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error searching products", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product page", "page", result.Page, "count", len(result.Items))
	web.RespondJSON(w, mLogger, http.StatusOK, result)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var draft service.ProductDraft
	if !decodeBody(w, r, mLogger, &draft) {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to create product", "product", draft)

	created, err := h.service.Create(r.Context(), draft)
	if err != nil {
		if respondValidation(w, r, mLogger, err) {
			return
		}
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// Update replaces all editable fields of a product.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to update product", "ID", id)
	var draft service.ProductDraft
	if !decodeBody(w, r, mLogger, &draft) {
		return
	}

	updated, err := h.service.Update(r.Context(), id, draft)
	if err != nil {
		h.respondMutationError(w, r, mLogger, err, id, "update product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// Patch merges the supplied fields into a product.
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to patch product", "ID", id)
	var patch service.ProductPatch
	if !decodeBody(w, r, mLogger, &patch) {
		return
	}

	updated, err := h.service.Patch(r.Context(), id, patch)
	if err != nil {
		h.respondMutationError(w, r, mLogger, err, id, "update product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product patched successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to update stock for product", "ID", id)
	var stockUpdateDTO service.StockUpdateDto
	if !decodeBody(w, r, mLogger, &stockUpdateDTO) {
		return
	}
	if fields := service.Validate(stockUpdateDTO); fields != nil {
		mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", fields)
		web.RespondValidationErrors(w, mLogger, http.StatusBadRequest, fields)
		return
	}

	updated, err := h.service.UpdateStock(r.Context(), id, *stockUpdateDTO.Stock)
	if err != nil {
		h.respondMutationError(w, r, mLogger, err, id, "update stock for product")
		return
	}
	mLogger.InfoContext(r.Context(), "Stock updated successfully for product", "ID", updated.ID, "NewStock", updated.Stock)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		if errors.Is(err, producterrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for deletion", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete product with ID %s", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// Stats summarizes the whole inventory.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error computing inventory stats", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, stats)
}

// Categories lists the categories a product can belong to.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, service.Categories())
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) respondMutationError(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, err error, id fmt.Stringer, action string) {
	if respondValidation(w, r, mLogger, err) {
		return
	}
	if errors.Is(err, producterrors.ErrProductNotFound) {
		mLogger.WarnContext(r.Context(), "Product not found", "ID", id, "action", action)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
		return
	}
	mLogger.ErrorContext(r.Context(), "Error on product mutation", "ID", id, "action", action, "error", err)
	web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to %s with ID %s", action, id))
}

// respondValidation writes a 400 with the field errors carried by err and reports whether it did.
func respondValidation(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, err error) bool {
	fields, ok := service.AsValidationError(err)
	if !ok {
		return false
	}
	mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", fields)
	web.RespondValidationErrors(w, mLogger, http.StatusBadRequest, fields)
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	return withReqID(h.logger, r)
}

func withReqID(logger *slog.Logger, r *http.Request) *slog.Logger {
	reqID, found := web.GetRequestID(r.Context())
	if !found {
		reqID = "unknown"
	}
	return logger.With("request_id", reqID)
}
