// File: internal/infra/adapters/ai/multi_adapter.go
package ai

import (
	"context"
	"errors"
	"strings"

	"scam-honeypot/internal/domain"
	"scam-honeypot/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*MultiAIAdapter)(nil)

// MultiAIAdapter routes a call to the provider that owns the model and, when
// that provider fails, retries once on each other provider with its default
// model. Context errors are never retried.
type MultiAIAdapter struct {
	defaultProvider string // e.g., "openai" or "gemini"
	order           []string
	byProvider      map[string]adapter.AIServiceAdapter
	modelToProvider map[string]string // model -> provider ("openai" | "gemini")
}

// NewMultiAIAdapter keeps providers in the given order for failover; the first
// one is the default.
func NewMultiAIAdapter(order []string, byProvider map[string]adapter.AIServiceAdapter, modelToProvider map[string]string) *MultiAIAdapter {
	m := &MultiAIAdapter{
		byProvider:      map[string]adapter.AIServiceAdapter{},
		modelToProvider: modelToProvider,
	}
	for _, name := range order {
		name = strings.ToLower(name)
		if a := byProvider[name]; a != nil {
			m.order = append(m.order, name)
			m.byProvider[name] = a
		}
	}
	if len(m.order) > 0 {
		m.defaultProvider = m.order[0]
	}
	return m
}

func (m *MultiAIAdapter) Name() string {
	if m.defaultProvider == "" {
		return "none"
	}
	return m.defaultProvider
}

func (m *MultiAIAdapter) resolveProvider(model string) string {
	if p := m.modelToProvider[model]; p != "" {
		return strings.ToLower(p)
	}
	l := strings.ToLower(model)
	switch {
	case strings.HasPrefix(l, "gemini"):
		return "gemini"
	case strings.HasPrefix(l, "gpt"), strings.HasPrefix(l, "o1"), strings.HasPrefix(l, "o3"), strings.HasPrefix(l, "o4"):
		return "openai"
	default:
		return m.defaultProvider
	}
}

type route struct {
	provider string
	model    string
}

// plan lists the calls to try in order.
func (m *MultiAIAdapter) plan(model string) []route {
	primary := m.resolveProvider(model)
	var out []route
	if m.byProvider[primary] != nil {
		out = append(out, route{provider: primary, model: model})
	}
	for _, p := range m.order {
		if p == primary {
			continue
		}
		// other providers use their own default model
		out = append(out, route{provider: p})
	}
	return out
}

func (m *MultiAIAdapter) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	reply, _, err := m.ChatWithUsage(ctx, model, messages)
	return reply, err
}

func (m *MultiAIAdapter) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	routes := m.plan(model)
	if len(routes) == 0 {
		return "", adapter.Usage{}, domain.ErrLLMDisabled
	}
	var errs []error
	for _, r := range routes {
		reply, usage, err := m.byProvider[r.provider].ChatWithUsage(ctx, r.model, messages)
		if err == nil {
			return reply, usage, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return "", adapter.Usage{}, errors.Join(errs...)
}
