package menu

import (
	"context"
	"sync"
)

// Result is the outcome of one Loader fetch.
type Result struct {
	Selection  Selection
	Generation uint64
	Items      []MenuItem
	Err        error
}

// ItemsFetcher is the part of Service the Loader needs.
type ItemsFetcher interface {
	Items(ctx context.Context, sel Selection) ([]MenuItem, error)
}

// Loader sequences category-scoped fetches for one visitor.
//
// Every Select starts a fetch tagged with a new generation and cancels the
// previous one. apply is only called for the latest generation, so a slow
// response for an earlier selection never overwrites a newer one.
type Loader struct {
	fetch   ItemsFetcher
	apply   func(Result)
	started func(sel Selection, gen uint64)

	mu         sync.Mutex
	generation uint64
	current    Selection
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewLoader creates a Loader that starts with the All selection. apply runs
// on the fetching goroutine and must not call back into the Loader.
func NewLoader(fetch ItemsFetcher, apply func(Result)) *Loader {
	return &Loader{fetch: fetch, apply: apply, current: All}
}

// OnStart registers fn to run whenever a fetch starts. fn runs under the
// same lock as apply, so it always precedes that fetch's result. Call it
// before the first Select.
func (l *Loader) OnStart(fn func(sel Selection, gen uint64)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started = fn
}

// Select starts fetching items for sel and returns the fetch's generation.
func (l *Loader) Select(ctx context.Context, sel Selection) uint64 {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.generation++
	gen := l.generation
	l.current = sel
	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	if l.started != nil {
		l.started(sel, gen)
	}
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer cancel()
		items, err := l.fetch.Items(fetchCtx, sel)
		l.deliver(Result{Selection: sel, Generation: gen, Items: items, Err: err})
	}()
	return gen
}

// Retry re-runs the current selection.
func (l *Loader) Retry(ctx context.Context) uint64 {
	return l.Select(ctx, l.Current())
}

// Current returns the most recent selection.
func (l *Loader) Current() Selection {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Stop cancels any in-flight fetch and waits for it to finish. Results of
// cancelled fetches are discarded.
func (l *Loader) Stop() {
	l.mu.Lock()
	l.generation++
	if l.cancel != nil {
		l.cancel()
	}
	l.mu.Unlock()
	l.wg.Wait()
}

// Wait blocks until every started fetch has returned.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// deliver holds the lock across apply so a newer Select cannot interleave
// between the generation check and the update.
func (l *Loader) deliver(res Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if res.Generation != l.generation {
		return
	}
	l.apply(res)
}
