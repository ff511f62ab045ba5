package agent

import (
	"strings"

	"scam-honeypot/internal/domain/model"
)

const (
	// DetectionThreshold favors recall over precision; there is no way back
	// once a session crosses it.
	DetectionThreshold = 4
	// InstantConfidence is assigned when an explicit high-risk phrase is seen.
	InstantConfidence = 10
	keywordScoreCap   = 2
)

var instantPhrases = []string{
	"send otp", "share otp", "tell otp", "give otp", "otp batao",
	"transfer immediately", "pay immediately",
}

var financialLurePhrases = []string{
	"you have won", "you won", "lottery", "cashback", "refund",
	"prize", "reward", "bonus", "claim your",
}

var urgencyPhrases = []string{
	"urgent", "immediately", "within 24 hours", "today only", "right now",
	"last warning", "final warning", "asap", "expire",
}

var signalWeights = map[model.Signal]int{
	model.SignalFinancialLure: 2,
	model.SignalUPI:           3,
	model.SignalLink:          3,
	model.SignalBankAccount:   3,
	model.SignalPhone:         2,
	model.SignalKeywords:      keywordScoreCap,
	model.SignalUrgency:       2,
}

// ScoreResult describes what one scoring pass changed.
type ScoreResult struct {
	Instant       bool
	Raised        []model.Signal
	NewlyDetected bool
}

// Score updates st from the cumulative intelligence and this turn's raw text.
// Once a session is detected the status is frozen: the score only ever moves
// up and detection never reverts.
func Score(st *model.ScamStatus, intel model.Intelligence, text string) ScoreResult {
	var res ScoreResult
	if st.Detected {
		return res
	}
	st.Normalize()
	lower := strings.ToLower(text)

	if containsAny(lower, instantPhrases) {
		st.Detected = true
		if st.Confidence < InstantConfidence {
			st.Confidence = InstantConfidence
		}
		res.Instant = true
		res.NewlyDetected = true
		return res
	}

	present := map[model.Signal]bool{
		model.SignalFinancialLure: containsAny(lower, financialLurePhrases),
		model.SignalUPI:           len(intel.UPIIDs) > 0,
		model.SignalLink:          len(intel.PhishingLinks) > 0,
		model.SignalBankAccount:   len(intel.BankAccounts) > 0,
		model.SignalPhone:         len(intel.PhoneNumbers) > 0,
		model.SignalKeywords:      len(intel.SuspiciousKeywords) > 0,
		model.SignalUrgency:       containsAny(lower, urgencyPhrases),
	}
	for _, sig := range model.AllSignals {
		if present[sig] && st.Raise(sig) {
			st.Confidence += signalWeights[sig]
			res.Raised = append(res.Raised, sig)
		}
	}

	if st.Confidence >= DetectionThreshold {
		st.Detected = true
		res.NewlyDetected = true
	}
	return res
}
