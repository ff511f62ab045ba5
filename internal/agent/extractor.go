package agent

import (
	"regexp"
	"strings"

	"scam-honeypot/internal/domain/model"
)

// contextWindow is how many bytes on each side of a number are inspected for
// banking or phone vocabulary.
const contextWindow = 60

var (
	upiRe     = regexp.MustCompile(`\b[a-zA-Z0-9._+-]{2,}@[a-zA-Z]{2,}\b`)
	linkRe    = regexp.MustCompile(`https?://\S+`)
	phoneRe   = regexp.MustCompile(`(?:\+91[\-\s]?)?[6-9]\d{9}`)
	numericRe = regexp.MustCompile(`\b\d{8,18}\b`)
)

var suspiciousKeywords = []string{
	"urgent", "verify", "blocked", "suspended", "freeze", "frozen",
	"account block", "account blocked", "kyc", "immediately",
	"last warning", "final warning", "limited time", "otp",
	"security", "unauthorized", "fraud", "suspicious activity",
}

var phoneContext = []string{
	"call", "contact", "whatsapp", "mobile", "phone", "reach", "dial",
}

var bankContext = []string{
	"account", "a/c", "bank", "transfer", "deposit",
	"credited", "send money", "ifsc",
}

// Extract pulls candidate evidence out of text. It does not touch session
// state; the caller merges the result.
//
// Numbers are classified once: a span claimed as a phone is never reported as
// a bank account and vice versa.
func Extract(text string) model.Intelligence {
	out := model.NewIntelligence()
	lower := strings.ToLower(text)

	for _, m := range upiRe.FindAllString(text, -1) {
		out.Add(model.CategoryUPIIDs, m)
	}
	for _, m := range linkRe.FindAllString(text, -1) {
		out.Add(model.CategoryPhishingLinks, m)
	}

	classified := map[string]struct{}{}
	var claimed [][2]int

	for _, loc := range phoneRe.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if digitAt(text, start-1) || digitAt(text, end) {
			continue // part of a longer number
		}
		raw := text[start:end]
		// A bare ten-digit number in a banking sentence with no calling
		// vocabulary is left for the account rules below. A +91 prefix always
		// means a phone.
		if !strings.HasPrefix(raw, "+91") {
			ctx := window(text, start, end)
			if containsAny(ctx, bankContext) && !containsAny(ctx, phoneContext) {
				continue
			}
		}
		n := normalizePhone(raw)
		out.Add(model.CategoryPhoneNumbers, n)
		classified[n] = struct{}{}
		claimed = append(claimed, [2]int{start, end})
	}

	for _, loc := range numericRe.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if overlaps(claimed, start, end) {
			continue // digits of a phone already taken, e.g. +919876543210
		}
		number := text[start:end]
		n := normalizePhone(number)
		if _, seen := classified[n]; seen {
			continue
		}
		ctx := window(text, start, end)
		length := len(number)
		phoneShaped := length == 10 && number[0] >= '6' && number[0] <= '9'

		switch {
		case length >= 9 && containsAny(ctx, bankContext):
			out.Add(model.CategoryBankAccounts, number)
		case phoneShaped:
			// phone vocabulary nearby only confirms what the shape already says
			out.Add(model.CategoryPhoneNumbers, n)
		default:
			continue
		}
		classified[n] = struct{}{}
	}

	for _, kw := range suspiciousKeywords {
		if strings.Contains(lower, kw) {
			out.Add(model.CategorySuspiciousKeywords, kw)
		}
	}
	return out
}

// normalizePhone drops the country code and any separators.
func normalizePhone(number string) string {
	number = strings.TrimPrefix(strings.TrimSpace(number), "+91")
	var b strings.Builder
	b.Grow(len(number))
	for i := 0; i < len(number); i++ {
		if c := number[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// window returns the lowercased text around text[start:end].
func window(text string, start, end int) string {
	from := start - contextWindow
	if from < 0 {
		from = 0
	}
	to := end + contextWindow
	if to > len(text) {
		to = len(text)
	}
	return strings.ToLower(text[from:to])
}

func overlaps(spans [][2]int, start, end int) bool {
	for _, sp := range spans {
		if start < sp[1] && end > sp[0] {
			return true
		}
	}
	return false
}

func digitAt(s string, i int) bool {
	return i >= 0 && i < len(s) && s[i] >= '0' && s[i] <= '9'
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
