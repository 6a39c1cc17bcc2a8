package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Row outcomes recorded by the import pipeline.
const (
	OutcomeImported = "imported"
	OutcomeSkipped  = "skipped"
	OutcomeZero     = "zero_amount"
)

// Metrics holds the Prometheus collectors for one ledgerline run.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Registry owns the collectors; written out by WriteTextfile.
	Registry *prometheus.Registry

	importRows     *prometheus.CounterVec
	transactions   *prometheus.CounterVec
	backendErrors  *prometheus.CounterVec
	importDuration prometheus.Histogram
}

// NewMetrics registers all collectors in a private registry, so it is safe to
// call more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		importRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerline_import_rows_total",
				Help: "Statement rows processed, by bank and outcome.",
			},
			[]string{"bank", "outcome"},
		),
		transactions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerline_transactions_total",
				Help: "Categorized transactions, by type.",
			},
			[]string{"type"},
		),
		backendErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerline_backend_errors_total",
				Help: "Failed backend operations.",
			},
			[]string{"operation"},
		),
		importDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledgerline_import_duration_seconds",
				Help:    "Time spent processing one statement file.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordRow counts one statement row with the given outcome.
func (m *Metrics) RecordRow(bank, outcome string) {
	if m == nil {
		return
	}
	m.importRows.WithLabelValues(bank, outcome).Inc()
}

// RecordTransaction counts one categorized transaction.
func (m *Metrics) RecordTransaction(txnType string) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(txnType).Inc()
}

// IncrBackendError counts a failed backend operation.
func (m *Metrics) IncrBackendError(operation string) {
	if m == nil {
		return
	}
	m.backendErrors.WithLabelValues(operation).Inc()
}

// ObserveImport records how long a file took to process.
func (m *Metrics) ObserveImport(d time.Duration) {
	if m == nil {
		return
	}
	m.importDuration.Observe(d.Seconds())
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
