package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(workerTasksTotal) }

var workerTasksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "honeypot_worker_tasks_total",
		Help: "Background tasks handled by the delivery pool, labeled by result.",
	},
	[]string{"result"}, // 'ok', 'error', 'panic', 'rejected'
)

func IncWorkerTask(result string) {
	workerTasksTotal.WithLabelValues(norm(result)).Inc()
}
