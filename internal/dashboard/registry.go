package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	producterrors "github.com/abgdnv/producthub/internal/product/errors"
	"github.com/abgdnv/producthub/internal/product/service"
	"github.com/google/uuid"
)

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Registry keeps the open dashboard sessions and expires idle ones.
type Registry struct {
	svc      service.ProductService
	settings Settings
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*entry
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryClock sets the clock used for idle tracking and toast expiry.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

func NewRegistry(svc service.ProductService, settings Settings, logger *slog.Logger, opts ...RegistryOption) *Registry {
	r := &Registry{
		svc:      svc,
		settings: settings,
		logger:   logger.With("component", "dashboard"),
		now:      time.Now,
		sessions: make(map[uuid.UUID]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create opens a new session.
func (r *Registry) Create() *Session {
	id := uuid.New()
	s := NewSession(id, r.svc, r.settings, r.logger, r.now)

	r.mu.Lock()
	r.sessions[id] = &entry{session: s, lastSeen: r.now()}
	r.mu.Unlock()

	r.logger.Info("Dashboard session opened", "session", id.String())
	return s
}

// Preview returns a fresh session that is not kept by the registry. It renders the
// default dashboard for visitors that have not acted yet.
func (r *Registry) Preview() *Session {
	return NewSession(uuid.New(), r.svc, r.settings, r.logger, r.now)
}

// Get returns the session and marks it as active.
// Returns ErrSessionNotFound if it does not exist or has expired.
func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, producterrors.ErrSessionNotFound
	}
	e.lastSeen = r.now()
	return e.session, nil
}

// Close removes the session. Returns ErrSessionNotFound if it does not exist.
func (r *Registry) Close(id uuid.UUID) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return producterrors.ErrSessionNotFound
	}
	e.session.Close()
	r.logger.Info("Dashboard session closed", "session", id.String())
	return nil
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes the sessions idle for longer than the idle timeout and returns how many it closed.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	var expired []*Session
	for id, e := range r.sessions {
		if now.Sub(e.lastSeen) > r.settings.IdleTimeout {
			expired = append(expired, e.session)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		r.logger.Info("Expired idle dashboard sessions", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep(r.now())
		}
	}
}
