package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SalesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sales_total",
			Help: "Total committed sales",
		},
	)
	SalesFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sales_failed_total",
			Help: "Total rejected or failed sale attempts",
		},
	)
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(SalesTotal)
	prometheus.MustRegister(SalesFailed)
	prometheus.MustRegister(WorkerQueueDepth)
}
