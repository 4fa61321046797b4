// Package paginate slices ordered sequences into fixed-size pages.
package paginate

// Paginator tracks the current page over a sequence of items.
// Pages are numbered from 1. The zero value is not usable, use New.
type Paginator[T any] struct {
	pageSize int
	items    []T
	current  int
}

// New creates a Paginator with the given page size. Sizes below 1 are treated as 1.
func New[T any](pageSize int) *Paginator[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Paginator[T]{pageSize: pageSize, current: 1}
}

// SetItems replaces the underlying sequence. If the current page no longer
// exists the paginator goes back to page 1.
func (p *Paginator[T]) SetItems(items []T) {
	p.items = items
	if p.current > p.TotalPages() {
		p.current = 1
	}
}

// PageSize returns the fixed number of items per page.
func (p *Paginator[T]) PageSize() int {
	return p.pageSize
}

// Len returns the length of the underlying sequence.
func (p *Paginator[T]) Len() int {
	return len(p.items)
}

// TotalPages returns ceil(len/pageSize).
func (p *Paginator[T]) TotalPages() int {
	return TotalPages(len(p.items), p.pageSize)
}

// CurrentPage returns the 1-based current page.
func (p *Paginator[T]) CurrentPage() int {
	return p.current
}

// Items returns the slice of the current page.
func (p *Paginator[T]) Items() []T {
	return Slice(p.items, p.current, p.pageSize)
}

// GoToPage moves to page n clamped into [1, TotalPages].
func (p *Paginator[T]) GoToPage(n int) {
	p.current = max(1, min(n, p.TotalPages()))
}

// Next moves one page forward if there is one.
func (p *Paginator[T]) Next() {
	if p.HasNext() {
		p.current++
	}
}

// Prev moves one page back if there is one.
func (p *Paginator[T]) Prev() {
	if p.HasPrev() {
		p.current--
	}
}

// HasNext reports whether a page follows the current one.
func (p *Paginator[T]) HasNext() bool {
	return p.current < p.TotalPages()
}

// HasPrev reports whether a page precedes the current one.
func (p *Paginator[T]) HasPrev() bool {
	return p.current > 1
}

// TotalPages returns the number of pages needed for n items.
func TotalPages(n, pageSize int) int {
	if n <= 0 || pageSize <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// Slice returns the items of the 1-based page. Out of range pages are empty.
func Slice[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize < 1 {
		return items[:0:0]
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return items[:0:0]
	}
	end := min(start+pageSize, len(items))
	return items[start:end:end]
}
