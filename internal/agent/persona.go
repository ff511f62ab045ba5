package agent

import (
	"fmt"
	"strings"

	"scam-honeypot/internal/domain/model"
	"scam-honeypot/internal/domain/ports/adapter"
)

const (
	promptHistory      = 6
	defaultTokenBudget = 1500
)

const personaSystem = `You are a normal Indian person who is not technical.
You are confused, a little scared and imperfect.

First decide the language of your reply:
- use "hinglish" ONLY if the other person writes Hindi or Hinglish words
- otherwise use "english"
Then reply naturally in that language.

Rules:
- never mention scams, fraud, police or detection
- never sound suspicious
- sound confused, cautious and imperfect, ask imperfect questions
- do not over-explain and do not use much punctuation
- keep it to one or two short sentences

Respond STRICTLY with JSON of the form {"language": "english|hinglish", "reply": "text"}.`

var strategyHints = map[model.Strategy]string{
	model.StrategyDelay:           "buy time politely, you are busy or unsure what this is about",
	model.StrategyBuildRapport:    "be friendly and a bit worried, ask who they are and why they contacted you",
	model.StrategyFeignConfusion:  "act confused about what they want and ask them to explain again",
	model.StrategyStallForTime:    "say you are trying but something is not working, ask them to wait",
	model.StrategyExtractPayment:  "say you are ready to pay and ask exactly which UPI id or link to use",
	model.StrategyExtractIdentity: "ask for their name, employee id and a number you can call back",
	model.StrategyExtractBank:     "say UPI is failing and ask for the account number and IFSC instead",
	model.StrategyEscalateTrust:   "say you trust them now and ask what the next step is, show willingness",
}

// PromptBuilder renders the persona prompt for a turn.
type PromptBuilder struct {
	counter adapter.TokenCounter
	budget  int
}

func NewPromptBuilder(counter adapter.TokenCounter, budget int) *PromptBuilder {
	if counter == nil {
		counter = ApproxCounter{}
	}
	if budget <= 0 {
		budget = defaultTokenBudget
	}
	return &PromptBuilder{counter: counter, budget: budget}
}

// Build returns the chat messages for the generator. The history is cut to the
// last few lines and then trimmed further, oldest first, to fit the budget.
func (p *PromptBuilder) Build(history []model.Message, strategy model.Strategy, incoming string) []adapter.Message {
	if len(history) > promptHistory {
		history = history[len(history)-promptHistory:]
	}
	var user string
	for {
		user = renderTurn(history, strategy, incoming)
		if len(history) == 0 || p.counter.Count(personaSystem)+p.counter.Count(user) <= p.budget {
			break
		}
		history = history[1:]
	}
	return []adapter.Message{
		{Role: "system", Content: personaSystem},
		{Role: "user", Content: user},
	}
}

func renderTurn(history []model.Message, strategy model.Strategy, incoming string) string {
	var b strings.Builder
	b.WriteString("Current intent: ")
	b.WriteString(string(strategy))
	if hint := strategyHints[strategy]; hint != "" {
		b.WriteString(" (")
		b.WriteString(hint)
		b.WriteString(")")
	}
	b.WriteString("\n\nConversation so far:\n")
	for _, m := range history {
		fmt.Fprintf(&b, "%s: %s\n", m.Sender, m.Text)
	}
	fmt.Fprintf(&b, "\nLatest message:\n%q\n", incoming)
	return b.String()
}

// ApproxCounter assumes roughly four bytes per token.
type ApproxCounter struct{}

func (ApproxCounter) Count(text string) int { return (len(text) + 3) / 4 }
