package model

// Strategy is the conversational intent that shapes the next reply.
type Strategy string

const (
	StrategyDelay           Strategy = "delay"
	StrategyBuildRapport    Strategy = "build_rapport"
	StrategyFeignConfusion  Strategy = "feign_confusion"
	StrategyStallForTime    Strategy = "stall_for_time"
	StrategyExtractPayment  Strategy = "extract_payment"
	StrategyExtractIdentity Strategy = "extract_identity"
	StrategyExtractBank     Strategy = "extract_bank"
	StrategyEscalateTrust   Strategy = "escalate_trust"
)

var AllStrategies = []Strategy{
	StrategyDelay,
	StrategyBuildRapport,
	StrategyFeignConfusion,
	StrategyStallForTime,
	StrategyExtractPayment,
	StrategyExtractIdentity,
	StrategyExtractBank,
	StrategyEscalateTrust,
}

func (s Strategy) Valid() bool {
	switch s {
	case StrategyDelay, StrategyBuildRapport, StrategyFeignConfusion, StrategyStallForTime,
		StrategyExtractPayment, StrategyExtractIdentity, StrategyExtractBank, StrategyEscalateTrust:
		return true
	default:
		return false
	}
}

// HighValue reports whether the strategy is worth spending a generative call on.
func (s Strategy) HighValue() bool {
	switch s {
	case StrategyExtractPayment, StrategyExtractIdentity, StrategyExtractBank, StrategyEscalateTrust:
		return true
	default:
		return false
	}
}

func (s Strategy) String() string { return string(s) }

// Reflection classifies the progress of one turn.
type Reflection string

const (
	ReflectionAdvance Reflection = "advance"
	ReflectionStall   Reflection = "stall"
)
