package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and dataset Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_requests_total",
			Help:      "Total number of search requests by kind and outcome",
		},
		[]string{"kind", "outcome"}, // kind: tables/rows/permutations; outcome: ok/client_error/not_found/error
	)

	SearchRecordsEvaluatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_records_evaluated_total",
			Help:      "Total number of records evaluated against a query",
		},
		[]string{"kind"},
	)

	DatasetRecordsLoadedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "dataset_records_loaded_total",
			Help:      "Records loaded into memory per database",
		},
		[]string{"database"},
	)

	DatasetTables = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "dataset_tables",
			Help:      "Number of tables in the loaded catalog",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search and dataset metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchRecordsEvaluatedTotal)
	prometheus.MustRegister(DatasetRecordsLoadedTotal)
	prometheus.MustRegister(DatasetTables)
	searchMetricsRegistered = true
}
