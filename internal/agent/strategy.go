package agent

import "scam-honeypot/internal/domain/model"

// StrategyInput is everything the selector is allowed to look at.
type StrategyInput struct {
	Turns      int
	Confidence int
	Detected   bool
	Reflection model.Reflection
}

// stallRotation is walked when a turn produced nothing new, so the persona
// keeps asking for a different kind of detail.
var stallRotation = []model.Strategy{
	model.StrategyExtractPayment,
	model.StrategyExtractBank,
	model.StrategyExtractIdentity,
	model.StrategyEscalateTrust,
}

// SelectStrategy is a pure function of its input. The orchestrator calls it
// before generating a reply and again after reflection to pick the intent
// for the following turn.
func SelectStrategy(in StrategyInput) model.Strategy {
	stalled := in.Reflection == model.ReflectionStall
	switch {
	case in.Turns == 0:
		return model.StrategyDelay
	case in.Turns == 1:
		return model.StrategyBuildRapport
	case !in.Detected && stalled:
		return model.StrategyStallForTime
	case !in.Detected:
		return model.StrategyFeignConfusion
	case stalled:
		return stallRotation[in.Turns%len(stallRotation)]
	case in.Confidence >= InstantConfidence:
		if in.Turns%2 == 0 {
			return model.StrategyExtractBank
		}
		return model.StrategyExtractPayment
	case in.Turns%3 == 0:
		return model.StrategyEscalateTrust
	default:
		return model.StrategyExtractPayment
	}
}

// Reflect classifies a turn: it advanced when at least one intelligence
// category grew, otherwise it stalled.
func Reflect(before, after model.Intelligence) model.Reflection {
	for _, c := range model.AllCategories {
		if after.Len(c) > before.Len(c) {
			return model.ReflectionAdvance
		}
	}
	return model.ReflectionStall
}

// ApplyReflection updates the stall counter, the sole input for stall-based
// escalation and termination.
func ApplyReflection(st *model.AgentState, r model.Reflection) {
	if r == model.ReflectionStall {
		st.StallCount++
		return
	}
	st.StallCount = 0
}
