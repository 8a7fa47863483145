package persistence

import "github.com/prometheus/client_golang/prometheus"

const (
	skipMalformedBlob   = "malformed_blob"
	skipMalformedRecord = "malformed_record"
	skipUnknownType     = "unknown_type"
)

var (
	skippedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "persistence",
		Name:      "records_skipped_total",
		Help:      "Number of stored workout records dropped on load, labeled by reason.",
	}, []string{"reason"})

	storeErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "persistence",
		Name:      "store_errors_total",
		Help:      "Number of failed storage operations, labeled by operation.",
	}, []string{"op"})
)

func init() {
	prometheus.MustRegister(skippedCounter, storeErrorCounter)
}

func recordSkipped(reason string) {
	skippedCounter.WithLabelValues(reason).Inc()
}

func recordStoreError(op string) {
	storeErrorCounter.WithLabelValues(op).Inc()
}
