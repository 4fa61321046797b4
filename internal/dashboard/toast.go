package dashboard

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Toast is a short-lived notification shown after a successful mutation.
type Toast struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Toaster keeps the toasts of one session. It is not safe for concurrent use.
type Toaster struct {
	ttl    time.Duration
	toasts []Toast
}

func NewToaster(ttl time.Duration) *Toaster {
	return &Toaster{ttl: ttl}
}

// Push adds a toast that expires ttl after now.
func (t *Toaster) Push(message string, now time.Time) Toast {
	toast := Toast{
		ID:        uuid.New(),
		Message:   message,
		ExpiresAt: now.Add(t.ttl),
	}
	t.toasts = append(t.toasts, toast)
	return toast
}

// Active drops the expired toasts and returns the rest, oldest first.
func (t *Toaster) Active(now time.Time) []Toast {
	t.toasts = slices.DeleteFunc(t.toasts, func(toast Toast) bool {
		return !now.Before(toast.ExpiresAt)
	})
	return slices.Clone(t.toasts)
}

// Dismiss removes the toast with the given id and reports whether it was present.
func (t *Toaster) Dismiss(id uuid.UUID) bool {
	n := len(t.toasts)
	t.toasts = slices.DeleteFunc(t.toasts, func(toast Toast) bool {
		return toast.ID == id
	})
	return len(t.toasts) != n
}
