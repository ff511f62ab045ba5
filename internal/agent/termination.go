package agent

import "scam-honeypot/internal/domain/model"

const (
	MinEngagementTurns = 10
	MaxEngagementTurns = 20
	MaxStalls          = 3
)

// ShouldTerminate is evaluated fresh every turn from the current session; it
// keeps no transition history and may be called any number of times.
func ShouldTerminate(s *model.Session) bool {
	switch {
	case !s.Scam.Detected:
		return false
	case s.Agent.Turns < MinEngagementTurns:
		return false
	case s.Intelligence.EvidenceCount() >= 1:
		return true
	case s.Agent.StallCount >= MaxStalls:
		return true
	case s.Agent.Turns >= MaxEngagementTurns:
		return true
	default:
		return false
	}
}
