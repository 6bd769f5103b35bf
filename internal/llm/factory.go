package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stellarlinkco/thai-eval/internal/config"
)

// NewRegistryFromConfig builds providers for every configured backend.
func NewRegistryFromConfig(cfg *config.Config) (*Registry, error) {
	if cfg == nil {
		return nil, errors.New("llm: nil config")
	}

	r := NewRegistry()
	for name, pcfg := range cfg.LLM.Providers {
		key := strings.ToLower(strings.TrimSpace(name))
		switch key {
		case "":
			continue
		case "claude", "anthropic":
			r.Register(NewClaudeProvider(pcfg.APIKey, pcfg.BaseURL, pcfg.Model))
		case "openai":
			r.Register(NewOpenAIProvider(pcfg.APIKey, pcfg.BaseURL, pcfg.Model))
		default:
			return nil, fmt.Errorf("llm: unknown provider %q", name)
		}
	}

	return r, nil
}

// DefaultProviderFromConfig resolves the configured default provider, falling
// back to the only registered one when unambiguous.
func DefaultProviderFromConfig(cfg *config.Config) (Provider, error) {
	if cfg == nil {
		return nil, errors.New("llm: nil config")
	}
	reg, err := NewRegistryFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(cfg.LLM.DefaultProvider)
	if name == "" {
		name = "claude"
	}
	if p, ok := reg.Get(name); ok {
		return p, nil
	}

	if names := reg.Names(); len(names) == 1 {
		p, _ := reg.Get(names[0])
		return p, nil
	}

	return nil, fmt.Errorf("llm: default provider %q not configured (available: %s)", name, strings.Join(reg.Names(), ", "))
}
