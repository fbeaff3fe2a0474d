package port

import "context"

// CompletionBackend abstracts one text-completion provider in the fallback
// chain. Generate takes a fully built prompt and returns the raw model text,
// which callers parse as JSON.
type CompletionBackend interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}
