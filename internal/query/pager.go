package query

import (
	"context"
	"errors"
	"sync"

	"github.com/prohmpiriya/canteen-storefront/internal/domain"
)

// ErrSuperseded is returned by GoTo when a later GoTo replaced the request
var ErrSuperseded = errors.New("page request superseded")

// PageFetcher loads one page of a listing
type PageFetcher[T any] func(ctx context.Context, page int) (*domain.Page[T], error)

// PageView is what a paginated view renders
type PageView[T any] struct {
	Page        int             // requested page
	Data        *domain.Page[T] // last applied page, may be an earlier one
	Loading     bool            // the requested page is still loading
	Placeholder bool            // Data belongs to an earlier request
	Err         error
}

// Pager tracks the current page of a listing. Only the result of the most
// recent GoTo is applied; earlier results are discarded on arrival.
type Pager[T any] struct {
	mu      sync.Mutex
	fetch   PageFetcher[T]
	page    int
	version uint64
	data    *domain.Page[T]
	dataVer uint64
	loading bool
	err     error
}

// NewPager creates a pager starting at page 1
func NewPager[T any](fetch PageFetcher[T]) *Pager[T] {
	return &Pager[T]{fetch: fetch, page: 1}
}

// GoTo requests page and waits for it. The previous page stays visible
// while loading.
func (p *Pager[T]) GoTo(ctx context.Context, page int) (PageView[T], error) {
	if page < 1 {
		page = 1
	}

	p.mu.Lock()
	p.version++
	ver := p.version
	p.page = page
	p.loading = true
	p.err = nil
	p.mu.Unlock()

	data, err := p.fetch(ctx, page)

	p.mu.Lock()
	defer p.mu.Unlock()

	if ver != p.version {
		return p.viewLocked(), ErrSuperseded
	}

	p.loading = false
	if err != nil {
		p.err = err
		return p.viewLocked(), err
	}
	p.data = data
	p.dataVer = ver
	return p.viewLocked(), nil
}

// Current reloads the current page
func (p *Pager[T]) Current(ctx context.Context) (PageView[T], error) {
	return p.GoTo(ctx, p.Page())
}

// Next moves one page forward when a later page exists
func (p *Pager[T]) Next(ctx context.Context) (PageView[T], error) {
	p.mu.Lock()
	page := p.page
	if p.data == nil || p.data.HasNext() {
		page++
	}
	p.mu.Unlock()
	return p.GoTo(ctx, page)
}

// Prev moves one page back, stopping at page 1
func (p *Pager[T]) Prev(ctx context.Context) (PageView[T], error) {
	return p.GoTo(ctx, p.Page()-1)
}

// Page returns the requested page
func (p *Pager[T]) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// View returns the current view state without fetching
func (p *Pager[T]) View() PageView[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked()
}

// Reset forgets all pages and returns to page 1. Pending requests are
// discarded.
func (p *Pager[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.version++
	p.page = 1
	p.data = nil
	p.dataVer = 0
	p.loading = false
	p.err = nil
}

func (p *Pager[T]) viewLocked() PageView[T] {
	return PageView[T]{
		Page:        p.page,
		Data:        p.data,
		Loading:     p.loading,
		Placeholder: p.data != nil && p.dataVer != p.version,
		Err:         p.err,
	}
}
