package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics counts stock mutations and their outcomes.
type LedgerMetrics struct {
	operations *prometheus.CounterVec
	failures   *prometheus.CounterVec
	alerts     prometheus.Counter
}

// NewLedgerMetrics registers the ledger counters on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_operations_total",
		Help: "Committed ledger operations by kind.",
	}, []string{"operation"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_failures_total",
		Help: "Rolled-back ledger operations by kind.",
	}, []string{"operation"})
	alerts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_low_stock_alerts_total",
		Help: "Low-stock notifications attempted after withdrawals.",
	})
	reg.MustRegister(operations, failures, alerts)
	return &LedgerMetrics{
		operations: operations,
		failures:   failures,
		alerts:     alerts,
	}
}

// IncOperation increments the committed counter for the named operation.
func (m *LedgerMetrics) IncOperation(operation string) {
	if m == nil || m.operations == nil {
		return
	}
	m.operations.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncFailure increments the rollback counter for the named operation.
func (m *LedgerMetrics) IncFailure(operation string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncAlert counts a low-stock notification attempt.
func (m *LedgerMetrics) IncAlert() {
	if m == nil || m.alerts == nil {
		return
	}
	m.alerts.Inc()
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
