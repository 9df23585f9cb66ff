package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/txanalyser/internal/ledger"
	"github.com/cleared-dev/txanalyser/internal/model"
)

// Metrics holds the Prometheus metrics for one batch run. Each run owns its
// registry so the result can be written out as a node-exporter textfile.
type Metrics struct {
	registry *prometheus.Registry

	TransactionsLoaded       *prometheus.CounterVec
	LoadErrors               *prometheus.CounterVec
	LoadDuration             prometheus.Histogram
	Analyses                 prometheus.Counter
	ContributingTransactions prometheus.Gauge
	LastRelativeBalance      prometheus.Gauge
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		TransactionsLoaded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txanalyser_transactions_loaded_total",
				Help: "Total number of transactions loaded, by type",
			},
			[]string{"kind"},
		),
		LoadErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txanalyser_load_errors_total",
				Help: "Total number of failed loads, by reason",
			},
			[]string{"reason"},
		),
		LoadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "txanalyser_load_duration_seconds",
			Help:    "Duration of transaction loads",
			Buckets: prometheus.DefBuckets,
		}),
		Analyses: factory.NewCounter(prometheus.CounterOpts{
			Name: "txanalyser_analyses_total",
			Help: "Total number of balance queries answered",
		}),
		ContributingTransactions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txanalyser_contributing_transactions",
			Help: "Number of payments included in the last balance query",
		}),
		LastRelativeBalance: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txanalyser_last_relative_balance",
			Help: "Relative balance returned by the last query (approximate, float64)",
		}),
	}
}

// ObserveLoad records a successful load.
func (m *Metrics) ObserveLoad(txns []model.Transaction, elapsed time.Duration) {
	m.LoadDuration.Observe(elapsed.Seconds())
	// Touch both kinds so zero counts are still exported.
	m.TransactionsLoaded.WithLabelValues(string(model.KindPayment))
	m.TransactionsLoaded.WithLabelValues(string(model.KindReversal))
	for _, txn := range txns {
		m.TransactionsLoaded.WithLabelValues(string(txn.Kind)).Inc()
	}
}

// ObserveLoadError records a failed load as "source" or "format".
func (m *Metrics) ObserveLoadError(err error) {
	reason := "format"
	if errors.Is(err, ledger.ErrSource) {
		reason = "source"
	}
	m.LoadErrors.WithLabelValues(reason).Inc()
}

// ObserveAnalysis records one answered query.
func (m *Metrics) ObserveAnalysis(balance decimal.Decimal, contributing int) {
	m.Analyses.Inc()
	m.ContributingTransactions.Set(float64(contributing))
	m.LastRelativeBalance.Set(balance.InexactFloat64())
}

// WriteToTextfile writes all metrics to path in the text exposition format.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
