// Package dashboard holds the view state of a dashboard session and runs the
// search → filter → paginate pipeline over the product service.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	producterrors "github.com/abgdnv/producthub/internal/product/errors"
	"github.com/abgdnv/producthub/internal/product/service"
	"github.com/abgdnv/producthub/pkg/debounce"
	"github.com/abgdnv/producthub/pkg/paginate"
	"github.com/google/uuid"
)

// DisplayMode selects between the card grid and the table.
type DisplayMode string

const (
	ModeCard DisplayMode = "card"
	ModeList DisplayMode = "list"
)

// ParseDisplayMode returns ErrInvalidDisplayMode for anything but card or list.
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch DisplayMode(s) {
	case ModeCard, ModeList:
		return DisplayMode(s), nil
	default:
		return "", fmt.Errorf("%q: %w", s, producterrors.ErrInvalidDisplayMode)
	}
}

// Settings configures new sessions.
type Settings struct {
	SearchDebounce time.Duration
	ToastTTL       time.Duration
	IdleTimeout    time.Duration
}

// Session is the view state of one dashboard. All methods are safe for concurrent use,
// they are serialized the way a single UI thread would run them.
type Session struct {
	id     uuid.UUID
	svc    service.ProductService
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	search string
	query  string
	mode   DisplayMode
	pager  *paginate.Paginator[service.ProductDto]
	form   FormDialog
	del    DeleteDialog
	toasts *Toaster

	debouncer *debounce.Debouncer[string]
}

// NewSession creates a session showing the first page of all products in card mode.
func NewSession(id uuid.UUID, svc service.ProductService, settings Settings, logger *slog.Logger, now func() time.Time) *Session {
	s := &Session{
		id:     id,
		svc:    svc,
		logger: logger.With("session", id.String()),
		now:    now,
		mode:   ModeCard,
		pager:  paginate.New[service.ProductDto](svc.Rules().PageSize),
		toasts: NewToaster(settings.ToastTTL),
	}
	s.debouncer = debounce.New(settings.SearchDebounce, s.applyQuery)
	return s
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// applyQuery is the debounce target. It must not be called with s.mu held.
func (s *Session) applyQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
	s.logger.Debug("Search query applied", "query", q)
}

// Search records the search box text. The filter follows once the text has been stable
// for the debounce delay.
func (s *Session) Search(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = text
	s.debouncer.Set(text)
}

// SubmitSearch records the search box text and applies it right away.
func (s *Session) SubmitSearch(text string) {
	s.Search(text)
	s.debouncer.Flush()
}

// SetMode switches between card and list display.
func (s *Session) SetMode(mode DisplayMode) error {
	if _, err := ParseDisplayMode(string(mode)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	return nil
}

// GoToPage moves to page n, clamped into the available pages.
func (s *Session) GoToPage(ctx context.Context, n int) error {
	return s.withFreshItems(ctx, func() { s.pager.GoToPage(n) })
}

// NextPage moves one page forward if there is one.
func (s *Session) NextPage(ctx context.Context) error {
	return s.withFreshItems(ctx, s.pager.Next)
}

// PrevPage moves one page back if there is one.
func (s *Session) PrevPage(ctx context.Context) error {
	return s.withFreshItems(ctx, s.pager.Prev)
}

func (s *Session) withFreshItems(ctx context.Context, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refresh(ctx); err != nil {
		return err
	}
	fn()
	return nil
}

// refresh reruns filter and pagination over the current products. Caller holds s.mu.
func (s *Session) refresh(ctx context.Context) error {
	items, err := s.svc.Filter(ctx, s.query)
	if err != nil {
		return fmt.Errorf("failed to filter products: %w", err)
	}
	s.pager.SetItems(items)
	return nil
}

// OpenCreateForm opens an empty product form.
func (s *Session) OpenCreateForm() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.OpenCreate()
}

// OpenEditForm opens the product form prefilled with the product's current values.
func (s *Session) OpenEditForm(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.svc.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.form.OpenEdit(*p)
}

// CancelForm closes the product form without saving.
func (s *Session) CancelForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Cancel()
}

// SubmitForm validates the form input and creates or updates the product.
// Field errors keep the form open and are returned with a nil error; nothing is saved.
func (s *Session) SubmitForm(ctx context.Context, in service.FormInput) (service.FieldErrors, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.form.State()
	if state == FormClosed {
		return nil, fmt.Errorf("cannot submit a closed form: %w", producterrors.ErrInvalidTransition)
	}
	draft, fieldErrs := service.ParseForm(in)
	if fieldErrs != nil {
		return fieldErrs, s.form.Reject(in, fieldErrs)
	}

	var (
		saved *service.ProductDto
		err   error
		verb  string
	)
	if state == FormEditing {
		saved, err = s.svc.Update(ctx, uuid.MustParse(s.form.Product().ID), draft)
		verb = "updated"
	} else {
		saved, err = s.svc.Create(ctx, draft)
		verb = "added"
	}
	if fields, ok := service.AsValidationError(err); ok {
		return fields, s.form.Reject(in, fields)
	}
	if err != nil {
		if errors.Is(err, producterrors.ErrProductNotFound) {
			s.form.Cancel()
		}
		return nil, err
	}

	s.form.Cancel()
	s.toasts.Push(fmt.Sprintf("\"%s\" has been %s", saved.Name, verb), s.now())
	s.logger.InfoContext(ctx, "Product saved from dashboard", "ID", saved.ID, "action", verb)
	return nil, nil
}

// RequestDelete asks for confirmation before deleting the product.
func (s *Session) RequestDelete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.svc.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.del.Request(*p)
}

// ConfirmDelete deletes the product awaiting confirmation.
func (s *Session) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, err := s.del.Confirm()
	if err != nil {
		return err
	}
	if err := s.svc.DeleteByID(ctx, uuid.MustParse(target.ID)); err != nil {
		return err
	}
	s.toasts.Push(fmt.Sprintf("\"%s\" has been deleted", target.Name), s.now())
	s.logger.InfoContext(ctx, "Product deleted from dashboard", "ID", target.ID)
	return nil
}

// CancelDelete dismisses the delete confirmation.
func (s *Session) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.del.Cancel()
}

// DismissToast removes a toast and reports whether it was shown.
func (s *Session) DismissToast(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toasts.Dismiss(id)
}

// Close discards a pending search.
func (s *Session) Close() {
	s.debouncer.Stop()
}

// View is a rendered snapshot of the session.
type View struct {
	SessionID      string               `json:"session_id"`
	Search         string               `json:"search"`
	Query          string               `json:"query"`
	SearchPending  bool                 `json:"search_pending"`
	Mode           DisplayMode          `json:"mode"`
	Items          []service.ProductDto `json:"items"`
	Page           int                  `json:"page"`
	PageSize       int                  `json:"page_size"`
	TotalPages     int                  `json:"total_pages"`
	TotalItems     int                  `json:"total_items"`
	HasNext        bool                 `json:"has_next"`
	HasPrev        bool                 `json:"has_prev"`
	ShowPagination bool                 `json:"show_pagination"`
	Stats          service.StatsDto     `json:"stats"`
	Form           FormView             `json:"form"`
	Delete         DeleteView           `json:"delete"`
	Toasts         []Toast              `json:"toasts"`
}

type FormView struct {
	State     FormState           `json:"state"`
	ProductID string              `json:"product_id,omitempty"`
	Input     service.FormInput   `json:"input"`
	Errors    service.FieldErrors `json:"errors,omitempty"`
}

type DeleteView struct {
	State       DeleteState `json:"state"`
	ProductID   string      `json:"product_id,omitempty"`
	ProductName string      `json:"product_name,omitempty"`
}

// View recomputes the visible page and returns a snapshot of the session.
func (s *Session) View(ctx context.Context) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	stats, err := s.svc.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	v := &View{
		SessionID:      s.id.String(),
		Search:         s.search,
		Query:          s.query,
		SearchPending:  s.debouncer.Pending(),
		Mode:           s.mode,
		Items:          s.pager.Items(),
		Page:           s.pager.CurrentPage(),
		PageSize:       s.pager.PageSize(),
		TotalPages:     s.pager.TotalPages(),
		TotalItems:     s.pager.Len(),
		HasNext:        s.pager.HasNext(),
		HasPrev:        s.pager.HasPrev(),
		ShowPagination: s.pager.Len() > s.pager.PageSize(),
		Stats:          *stats,
		Form: FormView{
			State:  s.form.State(),
			Input:  s.form.Input(),
			Errors: s.form.Errors(),
		},
		Delete: DeleteView{State: s.del.State()},
		Toasts: s.toasts.Active(s.now()),
	}
	if v.Items == nil {
		v.Items = []service.ProductDto{}
	}
	if v.Toasts == nil {
		v.Toasts = []Toast{}
	}
	if p := s.form.Product(); p != nil {
		v.Form.ProductID = p.ID
	}
	if t := s.del.Target(); t != nil {
		v.Delete.ProductID = t.ID
		v.Delete.ProductName = t.Name
	}
	return v, nil
}
