// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider adapts upstream chat-completion services behind a
// uniform capability: send a rendered prompt, get the raw model text
// back. The pipeline never sees provider-specific wire shapes; each
// adapter owns its own request and response mapping.
package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/meshintelligence/lexiflow/pkg/types"
)

// DefaultTimeout bounds one upstream HTTP request.
const DefaultTimeout = 60 * time.Second

// Backend is one upstream chat-completion capability. Translate sends
// the rendered prompt and returns the raw model text; failures carry an
// *APIError when an HTTP status is known.
type Backend interface {
	Name() string
	Translate(ctx context.Context, prompt string) (string, error)
}

// New builds the configured backend, wrapped in a circuit breaker.
func New(ctx context.Context, cfg types.ProviderConfig) (Backend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("provider %s: API key required", cfg.Provider)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var backend Backend
	var err error
	switch cfg.Provider {
	case types.ProviderOpenAI:
		backend = NewOpenAI(cfg.APIKey, cfg.Model, timeout)
	case types.ProviderAnthropic:
		backend = NewAnthropic(cfg.APIKey, cfg.Model, timeout)
	case types.ProviderGemini:
		backend, err = NewGemini(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return NewBreaker(backend), nil
}
