// Package suggest debounces search-suggestion fetches and discards stale
// responses: a result that arrives after the query has changed is dropped,
// never allowed to overwrite fresher state.
package suggest

import (
	"context"
	"sync"
	"time"
)

// DefaultDelay is the debounce window between keystrokes and the fetch.
const DefaultDelay = 150 * time.Millisecond

// Fetcher retrieves suggestions for a query prefix.
type Fetcher func(ctx context.Context, prefix string, limit int) ([]string, error)

type Suggester struct {
	fetch     Fetcher
	onResults func(query string, results []string)

	// Delay and Limit may be adjusted before the first SetQuery.
	Delay time.Duration
	Limit int

	mu    sync.Mutex
	gen   int // bumped on every query change; in-flight fetches check it
	timer *time.Timer
}

func New(fetch Fetcher, onResults func(query string, results []string)) *Suggester {
	return &Suggester{
		fetch:     fetch,
		onResults: onResults,
		Delay:     DefaultDelay,
		Limit:     10,
	}
}

// SetQuery registers the latest typed prefix. The fetch fires after the
// debounce window; typing again within the window restarts it and marks
// any in-flight fetch stale.
func (s *Suggester) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.timer != nil {
		s.timer.Stop()
	}

	if query == "" {
		// Nothing to fetch; clear the surface immediately.
		go s.onResults("", nil)
		return
	}

	gen := s.gen
	s.timer = time.AfterFunc(s.Delay, func() {
		results, err := s.fetch(context.Background(), query, s.Limit)

		s.mu.Lock()
		stale := gen != s.gen
		s.mu.Unlock()
		if stale || err != nil {
			// Superseded by a newer query, or failed; either way the
			// response must not touch the surface.
			return
		}
		s.onResults(query, results)
	})
}

// Stop cancels any pending fetch and marks in-flight ones stale.
func (s *Suggester) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
	}
}
