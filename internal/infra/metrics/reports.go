package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(reportDeliveriesTotal) }

var reportDeliveriesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "honeypot_report_deliveries_total",
		Help: "Final report deliveries by sink and result (ok|failed).",
	},
	[]string{"sink", "result"},
)

func IncReportDelivery(sink, result string) {
	reportDeliveriesTotal.WithLabelValues(norm(sink), norm(result)).Inc()
}
