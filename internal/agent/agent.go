package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"scam-honeypot/internal/domain"
	"scam-honeypot/internal/domain/model"
	"scam-honeypot/internal/domain/ports/adapter"
	"scam-honeypot/internal/infra/metrics"
)

const defaultLLMTimeout = 12 * time.Second

// Reply sources.
const (
	SourceLLM      = "llm"
	SourceTemplate = "template"
)

type Config struct {
	Model       string        `yaml:"model"`
	LLMTimeout  time.Duration `yaml:"llm_timeout"`
	TokenBudget int           `yaml:"token_budget"`
	Gate        GateConfig    `yaml:"gate"`
}

// TurnResult is what one turn hands back to the caller. It is always well formed.
type TurnResult struct {
	Reply          string
	ShouldFinalize bool
	Notes          string
	Strategy       model.Strategy
	Source         string
	// Recovered is set when the turn hit an internal fault; the session must
	// not be persisted in that case.
	Recovered bool
}

// GenerationResult is the outcome of one generative call. A non-nil Err sends
// the turn down the template path.
type GenerationResult struct {
	Reply    string
	Language string
	Err      error
}

// Agent runs the per-turn decision engine over a session.
type Agent struct {
	ai      adapter.AIServiceAdapter
	gate    *LLMGate
	prompts *PromptBuilder
	cfg     Config
	log     *zerolog.Logger
}

func New(ai adapter.AIServiceAdapter, counter adapter.TokenCounter, cfg Config, now func() time.Time, logger *zerolog.Logger) *Agent {
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = defaultLLMTimeout
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Agent{
		ai:      ai,
		gate:    NewLLMGate(cfg.Gate, now),
		prompts: NewPromptBuilder(counter, cfg.TokenBudget),
		cfg:     cfg,
		log:     logger,
	}
}

// StallResult is a stateless template turn for when the session cannot be
// advanced. Recovered is set so callers leave the stored session alone.
func StallResult() TurnResult {
	return TurnResult{
		Reply:     TemplateReply(model.StrategyDelay, model.DefaultLanguage, nil),
		Notes:     defaultNotes,
		Strategy:  model.StrategyDelay,
		Source:    SourceTemplate,
		Recovered: true,
	}
}

// Step processes one inbound message and mutates s in place. It never returns
// an error: generator failures fall back to templates and internal faults are
// recovered into a template reply.
func (a *Agent) Step(ctx context.Context, s *model.Session, incoming string) (res TurnResult) {
	log := a.log.With().Str("session_id", s.ID).Int("turn", s.Agent.Turns).Logger()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("turn aborted, serving template reply")
			res = StallResult()
		}
	}()

	s.Normalize()
	before := s.Intelligence.Clone()

	s.AddMessage(model.SenderScammer, incoming)
	s.Intelligence.Merge(Extract(incoming))

	wasDetected := s.Scam.Detected
	score := Score(&s.Scam, s.Intelligence, incoming)
	for _, sig := range score.Raised {
		metrics.IncSignal(string(sig))
	}
	if score.NewlyDetected && !wasDetected {
		path := "incremental"
		if score.Instant {
			path = "instant"
		}
		metrics.IncScamDetected(path)
		log.Info().Str("path", path).Int("confidence", s.Scam.Confidence).Msg("scam detected")
	}

	strategy := SelectStrategy(StrategyInput{
		Turns:      s.Agent.Turns,
		Confidence: s.Scam.Confidence,
		Detected:   s.Scam.Detected,
		Reflection: lastReflection(s.Agent),
	})

	decision := a.gate.Decide(&s.Agent, strategy, s.Scam.Confidence)
	metrics.IncGateDecision(decision.Allow, decision.Reason)

	language := s.Agent.LastLanguage
	reply, source := "", SourceTemplate
	if decision.Allow {
		gen := a.generate(ctx, s, strategy, incoming)
		if gen.Err == nil {
			reply, language, source = gen.Reply, gen.Language, SourceLLM
			s.Agent.RecordLLMCall(a.gate.Now())
		} else {
			log.Warn().Err(gen.Err).Str("strategy", string(strategy)).Msg("llm reply failed, using template")
		}
	}
	if reply == "" {
		reply = TemplateReply(strategy, language, s.Agent.UsedTemplates)
		s.Agent.UseTemplate(reply)
		metrics.IncTemplateFallback()
	}
	s.Agent.LastLanguage = language
	s.AddMessage(model.SenderAgent, reply)

	s.Intelligence.Merge(Extract(incoming + " " + reply))
	reflection := Reflect(before, s.Intelligence)
	ApplyReflection(&s.Agent, reflection)

	s.Agent.CurrentStrategy = SelectStrategy(StrategyInput{
		Turns:      s.Agent.Turns + 1,
		Confidence: s.Scam.Confidence,
		Detected:   s.Scam.Detected,
		Reflection: reflection,
	})
	s.Agent.Turns++
	metrics.IncTurn(string(strategy))

	finalize := ShouldTerminate(s)

	log.Debug().
		Str("strategy", string(strategy)).
		Str("next_strategy", string(s.Agent.CurrentStrategy)).
		Str("gate", decision.Reason).
		Str("source", source).
		Str("reflection", string(reflection)).
		Int("confidence", s.Scam.Confidence).
		Bool("detected", s.Scam.Detected).
		Int("stalls", s.Agent.StallCount).
		Int("evidence", s.Intelligence.EvidenceCount()).
		Bool("finalize", finalize).
		Msg("turn complete")

	return TurnResult{
		Reply:          reply,
		ShouldFinalize: finalize,
		Notes:          Notes(s.Intelligence),
		Strategy:       strategy,
		Source:         source,
	}
}

// Observe runs extraction and scoring over a message without producing a
// reply. It is used to rebuild state from a supplied conversation history.
func (a *Agent) Observe(s *model.Session, sender model.Sender, text string) {
	s.Normalize()
	s.AddMessage(sender, text)
	if sender != model.SenderScammer {
		return
	}
	s.Intelligence.Merge(Extract(text))
	Score(&s.Scam, s.Intelligence, text)
}

func (a *Agent) generate(ctx context.Context, s *model.Session, strategy model.Strategy, incoming string) GenerationResult {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.LLMTimeout)
	defer cancel()

	history := s.Messages[:len(s.Messages)-1] // the latest message is rendered separately
	messages := a.prompts.Build(history, strategy, incoming)

	start := time.Now()
	raw, usage, err := a.ai.ChatWithUsage(ctx, a.cfg.Model, messages)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", domain.ErrLLMTimeout, err)
		}
		metrics.ObserveChatUsage(a.ai.Name(), usage.PromptTokens, usage.CompletionTokens, latency, outcomeOf(err))
		return GenerationResult{Err: err}
	}

	reply, language, err := ParseReply(raw, s.Agent.LastLanguage)
	metrics.ObserveChatUsage(a.ai.Name(), usage.PromptTokens, usage.CompletionTokens, latency, outcomeOf(err))
	if err != nil {
		return GenerationResult{Err: err}
	}
	return GenerationResult{Reply: reply, Language: language}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrLLMTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrLLMEmpty):
		return "empty"
	case errors.Is(err, domain.ErrLLMMalformed):
		return "malformed"
	case errors.Is(err, domain.ErrLLMDisabled):
		return "disabled"
	default:
		return "error"
	}
}

// lastReflection recovers the previous turn's reflection from the stall
// counter: a non-zero counter means the last turn stalled.
func lastReflection(st model.AgentState) model.Reflection {
	if st.StallCount > 0 {
		return model.ReflectionStall
	}
	return model.ReflectionAdvance
}
