package model

// Signal is one scoring input. Each signal contributes to the confidence
// score at most once per session.
type Signal string

const (
	SignalFinancialLure Signal = "financial_lure"
	SignalUPI           Signal = "upi"
	SignalLink          Signal = "link"
	SignalBankAccount   Signal = "bank_account"
	SignalPhone         Signal = "phone"
	SignalKeywords      Signal = "keywords"
	SignalUrgency       Signal = "urgency"
)

// AllSignals enumerates every scoring flag up front so that no flag is ever
// created lazily.
var AllSignals = []Signal{
	SignalFinancialLure,
	SignalUPI,
	SignalLink,
	SignalBankAccount,
	SignalPhone,
	SignalKeywords,
	SignalUrgency,
}

// ScamStatus is one-way: Detected never reverts, Confidence never decreases
// and each flag flips false->true at most once.
type ScamStatus struct {
	Detected   bool            `json:"detected"`
	Confidence int             `json:"confidence"`
	Flags      map[Signal]bool `json:"flags"`
}

func NewScamStatus() ScamStatus {
	flags := make(map[Signal]bool, len(AllSignals))
	for _, s := range AllSignals {
		flags[s] = false
	}
	return ScamStatus{Flags: flags}
}

// Raise sets the flag for s and reports whether it was newly raised.
func (st *ScamStatus) Raise(s Signal) bool {
	if st.Flags == nil {
		st.Flags = NewScamStatus().Flags
	}
	if st.Flags[s] {
		return false
	}
	st.Flags[s] = true
	return true
}

// Normalize fills in flags missing from stored state.
func (st *ScamStatus) Normalize() {
	if st.Flags == nil {
		st.Flags = make(map[Signal]bool, len(AllSignals))
	}
	for _, s := range AllSignals {
		if _, ok := st.Flags[s]; !ok {
			st.Flags[s] = false
		}
	}
	if st.Confidence < 0 {
		st.Confidence = 0
	}
}
