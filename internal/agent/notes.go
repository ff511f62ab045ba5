package agent

import (
	"strings"

	"scam-honeypot/internal/domain/model"
)

const defaultNotes = "Scammer attempted social engineering"

var urgencyNoteKeywords = []string{"urgent", "final warning", "blocked", "suspended"}

// Notes summarizes the tactics seen so far. Same intelligence, same text.
func Notes(intel model.Intelligence) string {
	var notes []string
	if hasAnyKeyword(intel.SuspiciousKeywords, urgencyNoteKeywords) {
		notes = append(notes, "urgency tactics")
	}
	if len(intel.UPIIDs) > 0 {
		notes = append(notes, "payment redirection")
	}
	if len(intel.PhishingLinks) > 0 {
		notes = append(notes, "phishing links")
	}
	if len(intel.PhoneNumbers) > 0 {
		notes = append(notes, "direct contact solicitation")
	}
	if len(notes) == 0 {
		return defaultNotes
	}
	return "Scammer used " + strings.Join(notes, " and ")
}

func hasAnyKeyword(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
