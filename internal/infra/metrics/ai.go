package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		aiTokensIn,
		aiTokensOut,
		aiCallsTotal,
		aiCallsLatencyMs,
		aiGateDecisions,
	)
}

var (
	aiTokensIn = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_in",
			Help: "Sum of prompt (input) tokens per provider.",
		},
		[]string{"provider"},
	)

	aiTokensOut = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_out",
			Help: "Sum of completion (output) tokens per provider.",
		},
		[]string{"provider"},
	)

	aiCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_calls_total",
			Help: "Generative calls by provider and outcome (ok|empty|malformed|timeout|error).",
		},
		[]string{"provider", "outcome"},
	)

	aiCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_calls_latency_ms",
			Help:    "AI call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"provider", "success"},
	)

	aiGateDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_gate_decisions_total",
			Help: "LLM gate decisions by result and reason.",
		},
		[]string{"allowed", "reason"},
	)
)

func ObserveChatUsage(provider string, tokensIn, tokensOut int, latencyMs int64, outcome string) {
	p := norm(provider)
	aiTokensIn.WithLabelValues(p).Add(float64(tokensIn))
	aiTokensOut.WithLabelValues(p).Add(float64(tokensOut))
	aiCallsTotal.WithLabelValues(p, norm(outcome)).Inc()
	aiCallsLatencyMs.WithLabelValues(p, strconv.FormatBool(outcome == "ok")).
		Observe(float64(latencyMs))
}

func IncGateDecision(allowed bool, reason string) {
	aiGateDecisions.WithLabelValues(strconv.FormatBool(allowed), norm(reason)).Inc()
}
