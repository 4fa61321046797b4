package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/abgdnv/producthub/internal/dashboard"
	producterrors "github.com/abgdnv/producthub/internal/product/errors"
	"github.com/abgdnv/producthub/internal/product/service"
	"github.com/abgdnv/producthub/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// DashboardHandler exposes dashboard sessions as a JSON API. Every successful action
// answers with the session view.
type DashboardHandler struct {
	registry *dashboard.Registry
	logger   *slog.Logger
}

func NewDashboardHandler(registry *dashboard.Registry, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		registry: registry,
		logger:   logger.With("component", "rest_dashboard"),
	}
}

type searchRequest struct {
	Text   string `json:"text"`
	Submit bool   `json:"submit"`
}

type pageRequest struct {
	Page int `json:"page"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

type productRefRequest struct {
	ProductID uuid.UUID `json:"product_id"`
}

// RegisterRoutes registers the dashboard session routes.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/dashboard/sessions", func(r chi.Router) {
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.View)
			r.Delete("/", h.Close)
			r.Post("/search", h.Search)
			r.Post("/page", h.GoToPage)
			r.Post("/page/next", h.NextPage)
			r.Post("/page/prev", h.PrevPage)
			r.Post("/mode", h.SetMode)
			r.Post("/form/create", h.OpenCreateForm)
			r.Post("/form/edit", h.OpenEditForm)
			r.Post("/form/submit", h.SubmitForm)
			r.Post("/form/cancel", h.CancelForm)
			r.Post("/delete/request", h.RequestDelete)
			r.Post("/delete/confirm", h.ConfirmDelete)
			r.Post("/delete/cancel", h.CancelDelete)
			r.Delete("/toasts/{toastID}", h.DismissToast)
		})
	})
}

// Create opens a new dashboard session.
func (h *DashboardHandler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := withReqID(h.logger, r)
	session := h.registry.Create()
	h.respondView(w, r, mLogger, session, http.StatusCreated)
}

// View returns the current view of a session.
func (h *DashboardHandler) View(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(context.Context, *dashboard.Session) error { return nil })
}

// Close discards a session.
func (h *DashboardHandler) Close(w http.ResponseWriter, r *http.Request) {
	mLogger := withReqID(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	if err := h.registry.Close(id); err != nil {
		h.respondActionError(w, r, mLogger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search updates the search text. A submitted search is applied without waiting for the debounce.
func (h *DashboardHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	h.actWithBody(w, r, &req, func(_ context.Context, s *dashboard.Session) error {
		if req.Submit {
			s.SubmitSearch(req.Text)
		} else {
			s.Search(req.Text)
		}
		return nil
	})
}

func (h *DashboardHandler) GoToPage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	h.actWithBody(w, r, &req, func(ctx context.Context, s *dashboard.Session) error {
		return s.GoToPage(ctx, req.Page)
	})
}

func (h *DashboardHandler) NextPage(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, s *dashboard.Session) error { return s.NextPage(ctx) })
}

func (h *DashboardHandler) PrevPage(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, s *dashboard.Session) error { return s.PrevPage(ctx) })
}

// SetMode switches between card and list display.
func (h *DashboardHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	h.actWithBody(w, r, &req, func(_ context.Context, s *dashboard.Session) error {
		mode, err := dashboard.ParseDisplayMode(req.Mode)
		if err != nil {
			return err
		}
		return s.SetMode(mode)
	})
}

func (h *DashboardHandler) OpenCreateForm(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(_ context.Context, s *dashboard.Session) error { return s.OpenCreateForm() })
}

func (h *DashboardHandler) OpenEditForm(w http.ResponseWriter, r *http.Request) {
	var req productRefRequest
	h.actWithBody(w, r, &req, func(ctx context.Context, s *dashboard.Session) error {
		return s.OpenEditForm(ctx, req.ProductID)
	})
}

// SubmitForm saves the open form. Field errors answer 422 and leave the form open.
func (h *DashboardHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	mLogger := withReqID(h.logger, r)
	session, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	var in service.FormInput
	if !decodeBody(w, r, mLogger, &in) {
		return
	}
	fields, err := session.SubmitForm(r.Context(), in)
	if err != nil {
		h.respondActionError(w, r, mLogger, err)
		return
	}
	if fields != nil {
		mLogger.WarnContext(r.Context(), "Product form rejected", "errors", fields)
		web.RespondValidationErrors(w, mLogger, http.StatusUnprocessableEntity, fields)
		return
	}
	h.respondView(w, r, mLogger, session, http.StatusOK)
}

func (h *DashboardHandler) CancelForm(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(_ context.Context, s *dashboard.Session) error {
		s.CancelForm()
		return nil
	})
}

func (h *DashboardHandler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	var req productRefRequest
	h.actWithBody(w, r, &req, func(ctx context.Context, s *dashboard.Session) error {
		return s.RequestDelete(ctx, req.ProductID)
	})
}

func (h *DashboardHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, s *dashboard.Session) error { return s.ConfirmDelete(ctx) })
}

func (h *DashboardHandler) CancelDelete(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(_ context.Context, s *dashboard.Session) error {
		s.CancelDelete()
		return nil
	})
}

// DismissToast removes a toast. Dismissing an expired or unknown toast is not an error.
func (h *DashboardHandler) DismissToast(w http.ResponseWriter, r *http.Request) {
	mLogger := withReqID(h.logger, r)
	session, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	toastID, ok := web.ParseUUIDParam(w, r, mLogger, "toastID")
	if !ok {
		return
	}
	session.DismissToast(toastID)
	h.respondView(w, r, mLogger, session, http.StatusOK)
}

func (h *DashboardHandler) act(w http.ResponseWriter, r *http.Request, fn func(context.Context, *dashboard.Session) error) {
	mLogger := withReqID(h.logger, r)
	session, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	if err := fn(r.Context(), session); err != nil {
		h.respondActionError(w, r, mLogger, err)
		return
	}
	h.respondView(w, r, mLogger, session, http.StatusOK)
}

func (h *DashboardHandler) actWithBody(w http.ResponseWriter, r *http.Request, body any, fn func(context.Context, *dashboard.Session) error) {
	mLogger := withReqID(h.logger, r)
	session, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	if !decodeBody(w, r, mLogger, body) {
		return
	}
	if err := fn(r.Context(), session); err != nil {
		h.respondActionError(w, r, mLogger, err)
		return
	}
	h.respondView(w, r, mLogger, session, http.StatusOK)
}

func (h *DashboardHandler) session(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger) (*dashboard.Session, bool) {
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return nil, false
	}
	session, err := h.registry.Get(id)
	if err != nil {
		h.respondActionError(w, r, mLogger, err)
		return nil, false
	}
	return session, true
}

func (h *DashboardHandler) respondView(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, session *dashboard.Session, status int) {
	view, err := session.View(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error rendering dashboard view", "session", session.ID(), "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to render dashboard")
		return
	}
	web.RespondJSON(w, mLogger, status, view)
}

func (h *DashboardHandler) respondActionError(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, err error) {
	switch {
	case errors.Is(err, producterrors.ErrSessionNotFound):
		mLogger.WarnContext(r.Context(), "Dashboard session not found")
		web.RespondError(w, mLogger, http.StatusNotFound, "Dashboard session not found")
	case errors.Is(err, producterrors.ErrProductNotFound):
		mLogger.WarnContext(r.Context(), "Product not found", "error", err)
		web.RespondError(w, mLogger, http.StatusNotFound, "Product not found")
	case errors.Is(err, producterrors.ErrInvalidTransition):
		mLogger.WarnContext(r.Context(), "Dashboard action not allowed", "error", err)
		web.RespondError(w, mLogger, http.StatusConflict, err.Error())
	case errors.Is(err, producterrors.ErrInvalidDisplayMode):
		web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
	default:
		mLogger.ErrorContext(r.Context(), "Dashboard action failed", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Dashboard action failed")
	}
}
