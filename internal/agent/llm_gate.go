package agent

import (
	"time"

	"scam-honeypot/internal/domain/model"
)

// GateConfig holds the generative-call budget of one session.
type GateConfig struct {
	Window        time.Duration `yaml:"window"`
	WindowCap     int           `yaml:"window_cap"`
	LifetimeCap   int           `yaml:"lifetime_cap"`
	ConfidentCap  int           `yaml:"confident_cap"`
	PeriodicCap   int           `yaml:"periodic_cap"`
	PeriodicEvery int           `yaml:"periodic_every"`
	ColdStart     int           `yaml:"cold_start_turns"`
}

func DefaultGateConfig() GateConfig {
	return GateConfig{
		Window:        60 * time.Second,
		WindowCap:     4,
		LifetimeCap:   12,
		ConfidentCap:  9,
		PeriodicCap:   10,
		PeriodicEvery: 3,
		ColdStart:     2,
	}
}

// withDefaults fills zero fields so a partial YAML block stays usable.
func (c GateConfig) withDefaults() GateConfig {
	d := DefaultGateConfig()
	if c.Window <= 0 {
		c.Window = d.Window
	}
	if c.WindowCap <= 0 {
		c.WindowCap = d.WindowCap
	}
	if c.LifetimeCap <= 0 {
		c.LifetimeCap = d.LifetimeCap
	}
	if c.ConfidentCap <= 0 {
		c.ConfidentCap = d.ConfidentCap
	}
	if c.PeriodicCap <= 0 {
		c.PeriodicCap = d.PeriodicCap
	}
	if c.PeriodicEvery <= 0 {
		c.PeriodicEvery = d.PeriodicEvery
	}
	if c.ColdStart <= 0 {
		c.ColdStart = d.ColdStart
	}
	return c
}

// Gate reasons, also used as metric labels.
const (
	GateLifetimeCap = "lifetime_cap"
	GateWindowCap   = "window_cap"
	GateColdStart   = "cold_start"
	GateHighValue   = "high_value"
	GateConfident   = "confident"
	GatePeriodic    = "periodic"
	GateDefault     = "default"
)

// GateDecision is the outcome of one gate evaluation.
type GateDecision struct {
	Allow  bool
	Reason string
}

// LLMGate decides whether a turn may consult the generative service. It keeps
// no state of its own; the window lives in each session's AgentState.
type LLMGate struct {
	cfg GateConfig
	now func() time.Time
}

func NewLLMGate(cfg GateConfig, now func() time.Time) *LLMGate {
	if now == nil {
		now = time.Now
	}
	return &LLMGate{cfg: cfg.withDefaults(), now: now}
}

// Decide prunes the session's call window and evaluates the policy. The caller
// records the call with AgentState.RecordLLMCall only when it succeeds.
func (g *LLMGate) Decide(st *model.AgentState, strategy model.Strategy, confidence int) GateDecision {
	inWindow := st.PruneLLMWindow(g.now(), g.cfg.Window)

	switch {
	case st.LLMCalls >= g.cfg.LifetimeCap:
		return GateDecision{false, GateLifetimeCap}
	case inWindow >= g.cfg.WindowCap:
		return GateDecision{false, GateWindowCap}
	case st.Turns < g.cfg.ColdStart:
		return GateDecision{true, GateColdStart}
	case strategy.HighValue():
		return GateDecision{true, GateHighValue}
	case confidence >= DetectionThreshold && st.LLMCalls < g.cfg.ConfidentCap:
		return GateDecision{true, GateConfident}
	case st.Turns%g.cfg.PeriodicEvery == 0 && st.LLMCalls < g.cfg.PeriodicCap:
		return GateDecision{true, GatePeriodic}
	default:
		return GateDecision{false, GateDefault}
	}
}

// Now exposes the gate clock so recorded calls share its time base.
func (g *LLMGate) Now() time.Time { return g.now() }
