package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		httpRequestsTotal,
		rateLimitedTotal,
		authRejectedTotal,
	)
}

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeypot_http_requests_total",
			Help: "Inbound HTTP requests by route pattern and status code class.",
		},
		[]string{"route", "code"},
	)

	rateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "honeypot_rate_limited_total",
			Help: "Total number of requests rejected by the per-session rate limit.",
		},
	)

	authRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "honeypot_auth_rejected_total",
			Help: "Requests rejected for a missing or wrong x-api-key.",
		},
	)
)

// IncHTTPRequest records a finished request; code is collapsed to its class (2xx, 4xx...).
func IncHTTPRequest(route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(route, codeClass(status)).Inc()
}

func IncRateLimited() {
	rateLimitedTotal.Inc()
}

func IncAuthRejected() {
	authRejectedTotal.Inc()
}

func codeClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
