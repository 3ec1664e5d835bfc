// Package query re-issues a fetch when its parameters change. It is the
// pull-based replacement for a view that re-queries whenever its filter
// state changes.
package query

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrDisposed is returned by every call after Dispose, and by calls
	// whose fetch was still in flight when Dispose ran.
	ErrDisposed = errors.New("query: refresher disposed")
	// ErrNoParams is returned by Force before the first Refresh.
	ErrNoParams = errors.New("query: nothing to refresh yet")
)

// Fetcher loads R for params P.
type Fetcher[P comparable, R any] func(ctx context.Context, params P) (R, error)

// Refresher remembers the parameters of its last successful fetch.
// In-flight fetches are never aborted; their results are discarded when a
// newer fetch has been issued or the refresher has been disposed.
type Refresher[P comparable, R any] struct {
	fetch Fetcher[P, R]

	mu       sync.Mutex
	loaded   bool
	params   P
	result   R
	issued   uint64
	disposed bool
}

func NewRefresher[P comparable, R any](fetch Fetcher[P, R]) *Refresher[P, R] {
	return &Refresher[P, R]{fetch: fetch}
}

// Refresh returns the held result when params equal the last successful
// fetch, and fetches otherwise.
func (r *Refresher[P, R]) Refresh(ctx context.Context, params P) (R, error) {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		var zero R
		return zero, ErrDisposed
	}
	if r.loaded && r.params == params {
		res := r.result
		r.mu.Unlock()
		return res, nil
	}
	r.mu.Unlock()
	return r.issue(ctx, params)
}

// Force re-fetches the last parameters even though they did not change.
func (r *Refresher[P, R]) Force(ctx context.Context) (R, error) {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		var zero R
		return zero, ErrDisposed
	}
	if !r.loaded {
		r.mu.Unlock()
		var zero R
		return zero, ErrNoParams
	}
	params := r.params
	r.mu.Unlock()
	return r.issue(ctx, params)
}

func (r *Refresher[P, R]) issue(ctx context.Context, params P) (R, error) {
	r.mu.Lock()
	r.issued++
	ticket := r.issued
	r.mu.Unlock()

	res, err := r.fetch(ctx, params)

	r.mu.Lock()
	defer r.mu.Unlock()
	var zero R
	if r.disposed {
		return zero, ErrDisposed
	}
	if err != nil {
		return zero, err
	}
	// A newer fetch owns the view; hand this caller its own result only.
	if ticket != r.issued {
		return res, nil
	}
	r.loaded = true
	r.params = params
	r.result = res
	return res, nil
}

// Current returns the held result and the parameters it was fetched with.
func (r *Refresher[P, R]) Current() (R, P, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result, r.params, r.loaded && !r.disposed
}

// Dispose ends the subscription. It is safe to call more than once.
func (r *Refresher[P, R]) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disposed = true
	var zero R
	r.result = zero
	r.loaded = false
}
