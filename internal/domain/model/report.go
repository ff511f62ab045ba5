package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// FinalReport is the one-time summary emitted when a session is finalized.
// The JSON shape is fixed by the receiving endpoint.
type FinalReport struct {
	ReportID               string       `json:"-"`
	SessionID              string       `json:"sessionId"`
	ScamDetected           bool         `json:"scamDetected"`
	TotalMessagesExchanged int          `json:"totalMessagesExchanged"`
	ExtractedIntelligence  Intelligence `json:"extractedIntelligence"`
	AgentNotes             string       `json:"agentNotes"`
	FinalizedAt            time.Time    `json:"-"`
}

func NewFinalReport(s *Session, notes string) *FinalReport {
	return &FinalReport{
		ReportID:               ulid.Make().String(),
		SessionID:              s.ID,
		ScamDetected:           s.Scam.Detected,
		TotalMessagesExchanged: len(s.Messages),
		ExtractedIntelligence:  s.Intelligence.Clone(),
		AgentNotes:             notes,
		FinalizedAt:            time.Now(),
	}
}
