// Package backend runs the extraction fallback chain: an ordered list of
// completion backends tried one at a time until the first structured result.
package backend

import (
	"context"
	"fmt"
	"log"
	"time"

	"snapdocs/internal/domain"
	"snapdocs/internal/port"
	"snapdocs/internal/prompt"
)

// Extraction is the outcome of a successful chain run: the parsed fields, the
// backend that produced them, and the attempts that failed along the way.
type Extraction struct {
	Fields   map[string]any
	Backend  string
	Attempts []domain.BackendAttempt
}

// Chain tries backends strictly in order. First success wins; a backend is
// never retried within a single run.
type Chain struct {
	backends []port.CompletionBackend
	library  *prompt.Library
}

// NewChain creates a Chain over an ordered list of backends.
func NewChain(backends []port.CompletionBackend, library *prompt.Library) *Chain {
	return &Chain{backends: backends, library: library}
}

// Names returns the backend names in chain order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return names
}

// WithOnly returns a single-backend chain for a caller-forced backend.
func (c *Chain) WithOnly(name string) (*Chain, error) {
	for _, b := range c.backends {
		if b.Name() == name {
			return &Chain{backends: []port.CompletionBackend{b}, library: c.library}, nil
		}
	}
	return nil, fmt.Errorf("backend %q is not configured: %w", name, domain.ErrUnknownBackend)
}

// Extract builds a prompt per backend, invokes it, and parses the response as
// JSON. Every failure class is handled identically: record the attempt, log,
// advance to the next backend. When all backends fail the returned error is an
// *ExtractionUnavailableError carrying every attempt.
func (c *Chain) Extract(ctx context.Context, text string, docType domain.DocumentType) (*Extraction, error) {
	attempts := make([]domain.BackendAttempt, 0, len(c.backends))

	for _, b := range c.backends {
		started := time.Now()

		p, err := c.library.Build(docType, b.Name(), text)
		if err != nil {
			attempts = append(attempts, c.failed(b.Name(), started, err))
			continue
		}

		raw, err := b.Generate(ctx, p)
		if err != nil {
			attempts = append(attempts, c.failed(b.Name(), started, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		fields, err := HarvestJSON(raw)
		if err != nil {
			attempts = append(attempts, c.failed(b.Name(), started, err))
			continue
		}

		log.Printf("backend.Chain: %s succeeded in %s", b.Name(), time.Since(started).Round(time.Millisecond))
		return &Extraction{Fields: fields, Backend: b.Name(), Attempts: attempts}, nil
	}

	return nil, &ExtractionUnavailableError{Attempts: attempts}
}

func (c *Chain) failed(name string, started time.Time, err error) domain.BackendAttempt {
	class := classifyFailure(err)
	log.Printf("backend.Chain: %s failed (%s): %v", name, class, err)
	return domain.BackendAttempt{
		Backend: name,
		Class:   class,
		Err:     err.Error(),
		Elapsed: domain.Duration(time.Since(started)),
	}
}
