package model

import (
	"strings"
	"time"
)

type Sender string

const (
	SenderScammer Sender = "scammer"
	SenderAgent   Sender = "agent"
)

// Message is one line of the conversation.
type Message struct {
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ParseSender maps a wire sender label onto a Sender. Anything that is not
// the scammer is our side of the conversation ("user" on the wire).
func ParseSender(v string) Sender {
	if strings.EqualFold(strings.TrimSpace(v), string(SenderScammer)) {
		return SenderScammer
	}
	return SenderAgent
}

const DefaultLanguage = "english"

// AgentState is the per-session engine state, mutated once per turn.
type AgentState struct {
	Turns             int         `json:"turns"`
	StallCount        int         `json:"stall_count"`
	CurrentStrategy   Strategy    `json:"current_strategy"`
	UsedTemplates     []string    `json:"used_templates"`
	LastLanguage      string      `json:"last_language"`
	LLMCalls          int         `json:"llm_calls"`
	LLMCallTimestamps []time.Time `json:"llm_call_timestamps"`
}

func NewAgentState() AgentState {
	return AgentState{
		CurrentStrategy:   StrategyDelay,
		UsedTemplates:     []string{},
		LastLanguage:      DefaultLanguage,
		LLMCallTimestamps: []time.Time{},
	}
}

// PruneLLMWindow drops call timestamps older than window and returns how
// many remain.
func (a *AgentState) PruneLLMWindow(now time.Time, window time.Duration) int {
	kept := a.LLMCallTimestamps[:0]
	for _, ts := range a.LLMCallTimestamps {
		if now.Sub(ts) < window {
			kept = append(kept, ts)
		}
	}
	a.LLMCallTimestamps = kept
	return len(kept)
}

// RecordLLMCall counts a successful generative call.
func (a *AgentState) RecordLLMCall(at time.Time) {
	a.LLMCalls++
	a.LLMCallTimestamps = append(a.LLMCallTimestamps, at)
}

// UseTemplate remembers a template so it is not repeated.
func (a *AgentState) UseTemplate(t string) {
	for _, used := range a.UsedTemplates {
		if used == t {
			return
		}
	}
	a.UsedTemplates = append(a.UsedTemplates, t)
}

// Session is the aggregate root for one conversation with a counterparty.
type Session struct {
	ID           string       `json:"id"`
	Messages     []Message    `json:"messages"`
	Agent        AgentState   `json:"agent_state"`
	Intelligence Intelligence `json:"intelligence"`
	Scam         ScamStatus   `json:"scam"`
	Finalized    bool         `json:"finalized"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Messages:     make([]Message, 0, 8),
		Agent:        NewAgentState(),
		Intelligence: NewIntelligence(),
		Scam:         NewScamStatus(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *Session) AddMessage(sender Sender, text string) {
	now := time.Now()
	s.Messages = append(s.Messages, Message{
		Sender:    sender,
		Text:      text,
		Timestamp: now,
	})
	s.UpdatedAt = now
}

func (s *Session) GetRecentMessages(n int) []Message {
	if n <= 0 || len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// Normalize repairs a decoded session so every nested structure is populated.
func (s *Session) Normalize() {
	if s.Messages == nil {
		s.Messages = make([]Message, 0, 8)
	}
	if !s.Agent.CurrentStrategy.Valid() {
		s.Agent.CurrentStrategy = StrategyDelay
	}
	if s.Agent.UsedTemplates == nil {
		s.Agent.UsedTemplates = []string{}
	}
	if s.Agent.LLMCallTimestamps == nil {
		s.Agent.LLMCallTimestamps = []time.Time{}
	}
	if s.Agent.LastLanguage == "" {
		s.Agent.LastLanguage = DefaultLanguage
	}
	if s.Agent.Turns < 0 {
		s.Agent.Turns = 0
	}
	if s.Agent.StallCount < 0 {
		s.Agent.StallCount = 0
	}
	s.Intelligence.Normalize()
	s.Scam.Normalize()
}
