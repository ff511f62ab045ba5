package ai_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scam-honeypot/internal/domain"
	"scam-honeypot/internal/domain/ports/adapter"
	ai "scam-honeypot/internal/infra/adapters/ai"
)

type stubAI struct {
	name      string
	err       error
	cwuN      int
	lastModel string
}

func (s *stubAI) Name() string { return s.name }
func (s *stubAI) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	r, _, err := s.ChatWithUsage(ctx, model, messages)
	return r, err
}
func (s *stubAI) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	s.cwuN++
	s.lastModel = model
	if s.err != nil {
		return "", adapter.Usage{}, s.err
	}
	return s.name + "-ok", adapter.Usage{PromptTokens: 1, CompletionTokens: 1}, nil
}

func TestRouting_ExplicitMap_Heuristics_And_Default(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	open := &stubAI{name: "openai"}
	gem := &stubAI{name: "gemini"}

	m := ai.NewMultiAIAdapter(
		[]string{"openai", "gemini"},
		map[string]adapter.AIServiceAdapter{"openai": open, "gemini": gem},
		map[string]string{"custom-x": "gemini"},
	)
	assert.Equal(t, "openai", m.Name())

	// explicit map wins
	_, _, _ = m.ChatWithUsage(ctx, "custom-x", nil)
	assert.Equal(t, 1, gem.cwuN)
	assert.Equal(t, 0, open.cwuN)

	// gpt-* -> openai
	out, _, err := m.ChatWithUsage(ctx, "gpt-4o-mini", nil)
	require.NoError(t, err)
	assert.Equal(t, "openai-ok", out)
	assert.Equal(t, "gpt-4o-mini", open.lastModel)

	// gemini-* -> gemini
	_, _, _ = m.ChatWithUsage(ctx, "gemini-2.5-flash", nil)
	assert.Equal(t, 2, gem.cwuN)

	// unknown -> default provider
	_, _, _ = m.ChatWithUsage(ctx, "unknown", nil)
	assert.Equal(t, 2, open.cwuN)
}

func TestFailover_UsesNextProviderWithItsDefaultModel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	gem := &stubAI{name: "gemini", err: errors.New("quota")}
	open := &stubAI{name: "openai"}

	m := ai.NewMultiAIAdapter(
		[]string{"gemini", "openai"},
		map[string]adapter.AIServiceAdapter{"openai": open, "gemini": gem},
		nil,
	)

	out, _, err := m.ChatWithUsage(ctx, "gemini-2.5-flash", nil)
	require.NoError(t, err)
	assert.Equal(t, "openai-ok", out)
	assert.Equal(t, "", open.lastModel)

	open.err = errors.New("down")
	_, _, err = m.ChatWithUsage(ctx, "gemini-2.5-flash", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")
	assert.Contains(t, err.Error(), "down")
}

func TestMulti_NoProviders(t *testing.T) {
	t.Parallel()
	m := ai.NewMultiAIAdapter(nil, nil, nil)
	_, _, err := m.ChatWithUsage(context.Background(), "gpt-4o-mini", nil)
	require.ErrorIs(t, err, domain.ErrLLMDisabled)
	assert.Equal(t, "none", m.Name())
}

type slowAI struct {
	inFlight, peak int32
}

func (s *slowAI) Name() string { return "slow" }
func (s *slowAI) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	r, _, err := s.ChatWithUsage(ctx, model, messages)
	return r, err
}
func (s *slowAI) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	n := atomic.AddInt32(&s.inFlight, 1)
	for {
		p := atomic.LoadInt32(&s.peak)
		if n <= p || atomic.CompareAndSwapInt32(&s.peak, p, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	atomic.AddInt32(&s.inFlight, -1)
	return "ok", adapter.Usage{}, nil
}

func TestLimitedAI(t *testing.T) {
	t.Parallel()

	t.Run("should cap concurrent calls", func(t *testing.T) {
		inner := &slowAI{}
		l := ai.NewLimitedAI(inner, 2)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = l.Chat(context.Background(), "m", nil)
			}()
		}
		wg.Wait()
		assert.LessOrEqual(t, atomic.LoadInt32(&inner.peak), int32(2))
		assert.Equal(t, "slow", l.Name())
	})

	t.Run("should give up waiting when the context ends", func(t *testing.T) {
		inner := &slowAI{}
		l := ai.NewLimitedAI(inner, 1)

		done := make(chan struct{})
		go func() {
			_, _ = l.Chat(context.Background(), "m", nil)
			close(done)
		}()
		time.Sleep(5 * time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := l.ChatWithUsage(ctx, "m", nil)
		<-done
		if err != nil {
			require.ErrorIs(t, err, context.Canceled)
		}
	})

	t.Run("should return inner adapter when unlimited", func(t *testing.T) {
		inner := &slowAI{}
		assert.Same(t, adapter.AIServiceAdapter(inner), ai.NewLimitedAI(inner, 0))
	})
}

func TestNoopAI(t *testing.T) {
	t.Parallel()
	_, err := ai.NewNoopAIAdapter().Chat(context.Background(), "m", nil)
	require.ErrorIs(t, err, domain.ErrLLMDisabled)
}
