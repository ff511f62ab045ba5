package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"scam-honeypot/internal/domain"
	"scam-honeypot/internal/domain/model"
)

const LanguageHinglish = "hinglish"

var hinglishMarkers = []string{"hai", "kyun", "kyu", "nahi", "kya", "ka", "mera", "aap", "bhai", "haan"}

type structuredReply struct {
	Language string `json:"language"`
	Reply    string `json:"reply"`
}

// ParseReply turns raw generator output into a reply and language. JSON output
// (bare or inside a ``` fence) wins; otherwise the raw text is used and the
// language guessed from common Hinglish words. Empty output is an error.
func ParseReply(raw, lastLanguage string) (reply, language string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", domain.ErrLLMEmpty
	}

	if obj, ok := decodeReplyJSON(raw); ok {
		reply = strings.TrimSpace(obj.Reply)
		if reply == "" {
			return "", "", fmt.Errorf("%w: empty reply field", domain.ErrLLMMalformed)
		}
		language = strings.ToLower(strings.TrimSpace(obj.Language))
		if language == "" {
			language = lastLanguage
		}
		return reply, language, nil
	}

	// Something JSON-shaped that did not decode is not safe to show.
	if strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "```") {
		return "", "", domain.ErrLLMMalformed
	}
	return raw, guessLanguage(raw), nil
}

func decodeReplyJSON(raw string) (structuredReply, bool) {
	var obj structuredReply
	candidate := raw
	if strings.HasPrefix(candidate, "```") {
		candidate = strings.TrimPrefix(candidate, "```json")
		candidate = strings.TrimPrefix(candidate, "```")
		candidate = strings.TrimSuffix(strings.TrimSpace(candidate), "```")
	}
	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start < 0 || end <= start {
		return obj, false
	}
	if err := json.Unmarshal([]byte(candidate[start:end+1]), &obj); err != nil {
		return obj, false
	}
	return obj, true
}

func guessLanguage(text string) string {
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?\"'")
		for _, m := range hinglishMarkers {
			if w == m {
				return LanguageHinglish
			}
		}
	}
	return model.DefaultLanguage
}
