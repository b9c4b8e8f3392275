// Package poll implements the client side of the messaging poll protocol: a
// periodic fetch bound to the lifetime of a view, with an in-flight guard so
// a slow response never overlaps the next tick.
package poll

import (
	"context"
	"sync"
	"time"
)

// FetchFunc fetches everything newer than lastID and returns the new cursor
// position. Returning lastID unchanged means nothing new arrived. An error
// is not retried immediately; the next tick tries again.
type FetchFunc func(ctx context.Context, lastID uint) (uint, error)

// Poller drives a FetchFunc on a fixed interval. At most one fetch is in
// flight at any time: ticks that land while a fetch is outstanding are
// skipped rather than queued. Responses that complete after the poller's
// context is cancelled are dropped without advancing the cursor, so a stale
// reply can't touch a view that has been torn down.
type Poller struct {
	interval time.Duration
	fetch    FetchFunc

	mu       sync.Mutex
	lastID   uint
	inFlight bool

	wg sync.WaitGroup
}

func New(interval time.Duration, startCursor uint, fetch FetchFunc) *Poller {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Poller{
		interval: interval,
		fetch:    fetch,
		lastID:   startCursor,
	}
}

// Run polls until ctx is cancelled, firing one fetch immediately and then on
// every interval tick. It returns after the ticker stops; an outstanding
// fetch may still be draining, use Wait to block on it.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	p.mu.Lock()
	if p.inFlight {
		// Previous fetch still outstanding; skip this tick.
		p.mu.Unlock()
		return
	}
	p.inFlight = true
	cursor := p.lastID
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		next, err := p.fetch(ctx, cursor)

		p.mu.Lock()
		defer p.mu.Unlock()
		p.inFlight = false
		if err != nil {
			// Silent retry on the next tick; no backoff.
			return
		}
		if ctx.Err() != nil {
			// View torn down while the fetch was in flight: drop the
			// late response instead of advancing the cursor.
			return
		}
		if next > p.lastID {
			p.lastID = next
		}
	}()
}

// LastID returns the current cursor: the highest message ID already handed
// to the view. The cursor never resets; a page reload constructs a fresh
// Poller and refetches the full window.
func (p *Poller) LastID() uint {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastID
}

// Wait blocks until any outstanding fetch has drained. Call after the Run
// context is cancelled when teardown must be complete.
func (p *Poller) Wait() {
	p.wg.Wait()
}
