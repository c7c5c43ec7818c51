package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for monitoring service.
var (
	// executedTransactions prometheus metric.
	executedTransactions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of executed transactions by result",
			Name:      "executed_transactions_total",
			Namespace: "hellogo",
		},
		[]string{"result"},
	)
	// accountsCreated prometheus metric.
	accountsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of accounts created",
			Name:      "created_accounts_total",
			Namespace: "hellogo",
		},
	)
)

func init() {
	prometheus.MustRegister(
		executedTransactions,
		accountsCreated,
	)
}

func updateExecutedMetric(err error) {
	res := "ok"
	if err != nil {
		res = "failed"
	}
	executedTransactions.WithLabelValues(res).Inc()
}
