package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	versionConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "issuetracker",
		Name:      "version_conflicts_total",
		Help:      "Single-issue updates rejected because of a stale version.",
	})

	bulkTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "issuetracker",
		Name:      "bulk_transitions_total",
		Help:      "Bulk status transitions by outcome.",
	}, []string{"result"})

	importRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "issuetracker",
		Name:      "import_rows_total",
		Help:      "CSV import rows by outcome.",
	}, []string{"result"})
)
