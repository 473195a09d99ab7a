package oracle

import (
	"context"
	"sync"

	"jobline/internal/domain"
)

// Checker runs consistency checks fire-and-forget and keeps a single
// latest-result slot. A second check started while one is outstanding
// supersedes it: only the newest call may write the slot, so a slow stale
// response never overwrites a fresh one (last-writer-wins by start order).
type Checker struct {
	client Client

	mu         sync.Mutex
	generation uint64
	inflight   int
	result     string
}

// NewChecker wraps a client. A nil client degrades every check to the
// credential fallback, mirroring a missing API key.
func NewChecker(client Client) *Checker {
	return &Checker{client: client}
}

// Checking reports whether a call is outstanding.
func (c *Checker) Checking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// Result returns the latest advisory, empty before the first check resolves.
func (c *Checker) Result() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Start launches one check against a snapshot of the document and returns
// immediately. done is closed when the call resolves; callers that do not
// care may ignore it. There is no retry and no timeout here; timeouts belong
// to the caller's context.
func (c *Checker) Start(ctx context.Context, job *domain.JobDescription) <-chan struct{} {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.inflight++
	c.mu.Unlock()

	prompt := BuildPrompt(job)
	done := make(chan struct{})
	go func() {
		defer close(done)
		advisory := c.advise(ctx, prompt)
		c.mu.Lock()
		defer c.mu.Unlock()
		c.inflight--
		if gen == c.generation {
			c.result = advisory
		}
	}()
	return done
}

func (c *Checker) advise(ctx context.Context, prompt string) string {
	if c.client == nil {
		return FallbackNoCredential
	}
	text, err := c.client.Advise(ctx, prompt)
	if err != nil {
		return FallbackUnavailable
	}
	if text == "" {
		return FallbackEmpty
	}
	return text
}
