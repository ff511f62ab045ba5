package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(turnsTotal, scamsDetectedTotal, signalsRaisedTotal, templateFallbacksTotal, sessionsFinalizedTotal)
}

var (
	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeypot_turns_total",
			Help: "Conversation turns processed, labeled by the strategy used for the reply.",
		},
		[]string{"strategy"},
	)

	scamsDetectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeypot_scams_detected_total",
			Help: "Sessions that crossed into detected state, by path (instant|incremental).",
		},
		[]string{"path"},
	)

	signalsRaisedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeypot_signals_raised_total",
			Help: "Scoring flags raised for the first time in a session.",
		},
		[]string{"signal"},
	)

	templateFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "honeypot_template_replies_total",
			Help: "Replies served from templates instead of the generative service.",
		},
	)

	sessionsFinalizedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "honeypot_sessions_finalized_total",
			Help: "Sessions marked finalized.",
		},
	)
)

func IncTurn(strategy string) { turnsTotal.WithLabelValues(norm(strategy)).Inc() }

func IncScamDetected(path string) { scamsDetectedTotal.WithLabelValues(norm(path)).Inc() }

func IncSignal(signal string) { signalsRaisedTotal.WithLabelValues(norm(signal)).Inc() }

func IncTemplateFallback() { templateFallbacksTotal.Inc() }

func IncFinalized() { sessionsFinalizedTotal.Inc() }
