package backend

import (
	"fmt"

	"snapdocs/internal/backend/ollama"
	"snapdocs/internal/backend/openai"
	"snapdocs/internal/backend/tgi"
	"snapdocs/internal/config"
	"snapdocs/internal/domain"
	"snapdocs/internal/port"
	"snapdocs/internal/prompt"
)

// Factory is a function that creates a CompletionBackend from the app config.
type Factory func(cfg *config.Config) (port.CompletionBackend, error)

// registry of backend factories, populated at init and extendable via
// RegisterProvider.
var providers = map[string]Factory{}

// RegisterProvider registers a backend factory by name.
func RegisterProvider(name string, factory Factory) {
	providers[name] = factory
}

func init() {
	RegisterProvider(ollama.Name, func(cfg *config.Config) (port.CompletionBackend, error) {
		return ollama.NewClient(&cfg.Ollama), nil
	})
	RegisterProvider(tgi.Name, func(cfg *config.Config) (port.CompletionBackend, error) {
		return tgi.NewClient(&cfg.TGI), nil
	})
	RegisterProvider(openai.Name, func(cfg *config.Config) (port.CompletionBackend, error) {
		return openai.NewClient(&cfg.OpenAI), nil
	})
}

// New creates a single backend by name using the registered factory.
func New(name string, cfg *config.Config) (port.CompletionBackend, error) {
	factory, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend provider %q: %w", name, domain.ErrConfiguration)
	}
	return factory(cfg)
}

// FromConfig builds the fallback chain in the configured priority order.
func FromConfig(cfg *config.Config, library *prompt.Library) (*Chain, error) {
	if len(cfg.Chain.Order) == 0 {
		return nil, fmt.Errorf("empty backend chain order: %w", domain.ErrConfiguration)
	}

	backends := make([]port.CompletionBackend, 0, len(cfg.Chain.Order))
	for _, name := range cfg.Chain.Order {
		b, err := New(name, cfg)
		if err != nil {
			return nil, err
		}
		backends = append(backends, b)
	}
	return NewChain(backends, library), nil
}
