// Package html serves the server-rendered product dashboard.
package html

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/abgdnv/producthub/internal/dashboard"
	producterrors "github.com/abgdnv/producthub/internal/product/errors"
	"github.com/abgdnv/producthub/internal/product/service"
	"github.com/abgdnv/producthub/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionCookie binds a browser to its dashboard session.
const SessionCookie = "producthub_session"

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return "$" + d.StringFixed(2)
	},
	"pages": func(total int) []int {
		out := make([]int, total)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
}

type Handler struct {
	registry *dashboard.Registry
	logger   *slog.Logger
	tmpl     *template.Template
}

// NewHandler parses the embedded templates and returns the dashboard handler.
func NewHandler(registry *dashboard.Registry, logger *slog.Logger) (*Handler, error) {
	tmpl, err := template.New("dashboard").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard templates: %w", err)
	}
	return &Handler{
		registry: registry,
		logger:   logger.With("component", "html"),
		tmpl:     tmpl,
	}, nil
}

// RegisterRoutes registers the dashboard page and its form actions.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)

	r.Post("/search", h.action(func(r *http.Request, s *dashboard.Session) error {
		if r.FormValue("live") != "" {
			s.Search(r.FormValue("q"))
		} else {
			s.SubmitSearch(r.FormValue("q"))
		}
		return nil
	}))
	r.Post("/page/next", h.action(func(r *http.Request, s *dashboard.Session) error {
		return s.NextPage(r.Context())
	}))
	r.Post("/page/prev", h.action(func(r *http.Request, s *dashboard.Session) error {
		return s.PrevPage(r.Context())
	}))
	r.Post("/mode", h.action(func(r *http.Request, s *dashboard.Session) error {
		mode, err := dashboard.ParseDisplayMode(r.FormValue("mode"))
		if err != nil {
			return err
		}
		return s.SetMode(mode)
	}))
	r.Post("/form/create", h.action(func(_ *http.Request, s *dashboard.Session) error {
		return s.OpenCreateForm()
	}))
	r.Post("/form/edit", h.action(func(r *http.Request, s *dashboard.Session) error {
		id, err := uuid.Parse(r.FormValue("product_id"))
		if err != nil {
			return fmt.Errorf("invalid product id: %w", producterrors.ErrProductNotFound)
		}
		return s.OpenEditForm(r.Context(), id)
	}))
	r.Post("/form/submit", h.action(func(r *http.Request, s *dashboard.Session) error {
		_, err := s.SubmitForm(r.Context(), service.FormInput{
			Name:        r.FormValue("name"),
			Price:       r.FormValue("price"),
			Category:    r.FormValue("category"),
			Stock:       r.FormValue("stock"),
			Description: r.FormValue("description"),
		})
		return err
	}))
	r.Post("/form/cancel", h.action(func(_ *http.Request, s *dashboard.Session) error {
		s.CancelForm()
		return nil
	}))
	r.Post("/delete/request", h.action(func(r *http.Request, s *dashboard.Session) error {
		id, err := uuid.Parse(r.FormValue("product_id"))
		if err != nil {
			return fmt.Errorf("invalid product id: %w", producterrors.ErrProductNotFound)
		}
		return s.RequestDelete(r.Context(), id)
	}))
	r.Post("/delete/confirm", h.action(func(r *http.Request, s *dashboard.Session) error {
		return s.ConfirmDelete(r.Context())
	}))
	r.Post("/delete/cancel", h.action(func(_ *http.Request, s *dashboard.Session) error {
		s.CancelDelete()
		return nil
	}))
	r.Post("/toasts/dismiss", h.action(func(r *http.Request, s *dashboard.Session) error {
		if id, err := uuid.Parse(r.FormValue("toast_id")); err == nil {
			s.DismissToast(id)
		}
		return nil
	}))
	r.Post("/page", h.GoToPage)
}

type pageData struct {
	View       *dashboard.View
	Categories []string
}

// Index renders the dashboard of the caller's session. Callers without a session see
// the default dashboard; their session is opened by the first form action.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(r)
	if !ok {
		session = h.registry.Preview()
	}
	view, err := session.View(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error rendering dashboard view", "error", err)
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "dashboard.html", pageData{View: view, Categories: service.Categories()}); err != nil {
		h.logger.ErrorContext(r.Context(), "Error executing dashboard template", "error", err)
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// GoToPage jumps to the page number of the form and redirects back to the dashboard.
func (h *Handler) GoToPage(w http.ResponseWriter, r *http.Request) {
	n, ok := web.ParseFormIntGte(r, w, h.logger, "page", 1)
	if !ok {
		return
	}
	session := h.session(w, r)
	h.finish(w, r, session.GoToPage(r.Context(), n))
}

func (h *Handler) action(fn func(*http.Request, *dashboard.Session) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		session := h.session(w, r)
		h.finish(w, r, fn(r, session))
	}
}

// finish redirects back to the dashboard. Dialog conflicts and vanished products are
// reflected by the rendered view, so they redirect as well.
func (h *Handler) finish(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case err == nil:
	case errors.Is(err, producterrors.ErrInvalidTransition), errors.Is(err, producterrors.ErrProductNotFound):
		h.logger.WarnContext(r.Context(), "Dashboard action ignored", "path", r.URL.Path, "error", err)
	case errors.Is(err, producterrors.ErrInvalidDisplayMode):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	default:
		h.logger.ErrorContext(r.Context(), "Dashboard action failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Dashboard action failed", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// session returns the session named by the cookie, opening a new one when the cookie
// is missing or its session has expired.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *dashboard.Session {
	if s, ok := h.lookup(r); ok {
		return s
	}
	s := h.registry.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.ID().String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// lookup returns the live session named by the cookie.
func (h *Handler) lookup(r *http.Request) (*dashboard.Session, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return nil, false
	}
	s, err := h.registry.Get(id)
	if err != nil {
		return nil, false
	}
	return s, true
}
