package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/caja/internal/domain"
)

// Metrics holds business Prometheus metrics and implements usecase.MetricsRecorder.
type Metrics struct {
	// Cash session metrics
	SessionsOpened     prometheus.Counter
	SessionsClosed     *prometheus.CounterVec
	SessionDifference  prometheus.Histogram
	CashMovements      *prometheus.CounterVec
	CashMovementAmount *prometheus.HistogramVec

	// Purchase metrics
	PurchasesCreated prometheus.Counter
	PurchaseWeight   prometheus.Histogram
	PurchaseTotal    prometheus.Histogram

	// Loan metrics
	LoanMovements      *prometheus.CounterVec
	LoanMovementAmount *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

var amountBuckets = []float64{1, 10, 50, 100, 500, 1000, 5000, 10000, 100000}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SessionsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "caja_sessions_opened_total",
			Help: "Total number of cash sessions opened",
		}),
		SessionsClosed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caja_sessions_closed_total",
				Help: "Total number of cash sessions closed by reconciliation outcome",
			},
			[]string{"status"},
		),
		SessionDifference: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "caja_session_difference",
			Help:    "Counted minus expected balance at close",
			Buckets: []float64{-100, -10, -1, -0.01, 0, 0.01, 1, 10, 100},
		}),
		CashMovements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caja_cash_movements_total",
				Help: "Total cash movements by direction",
			},
			[]string{"direction"},
		),
		CashMovementAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "caja_cash_movement_amount",
				Help:    "Cash movement amounts",
				Buckets: amountBuckets,
			},
			[]string{"direction"},
		),

		PurchasesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "caja_purchases_created_total",
			Help: "Total number of purchases recorded",
		}),
		PurchaseWeight: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "caja_purchase_net_weight",
			Help:    "Net weight of purchases",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		}),
		PurchaseTotal: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "caja_purchase_total",
			Help:    "Total paid per purchase",
			Buckets: amountBuckets,
		}),

		LoanMovements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caja_loan_movements_total",
				Help: "Total loan movements by kind",
			},
			[]string{"kind"},
		),
		LoanMovementAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "caja_loan_movement_amount",
				Help:    "Loan movement amounts",
				Buckets: amountBuckets,
			},
			[]string{"kind"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "caja_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}

func (m *Metrics) SessionOpened() {
	m.SessionsOpened.Inc()
}

func (m *Metrics) SessionClosed(status domain.ReconciliationStatus, difference decimal.Decimal) {
	m.SessionsClosed.WithLabelValues(string(status)).Inc()
	m.SessionDifference.Observe(difference.InexactFloat64())
}

func (m *Metrics) CashMovementRecorded(direction domain.Direction, amount decimal.Decimal) {
	m.CashMovements.WithLabelValues(string(direction)).Inc()
	m.CashMovementAmount.WithLabelValues(string(direction)).Observe(amount.InexactFloat64())
}

func (m *Metrics) PurchaseCreated(netWeight, total decimal.Decimal) {
	m.PurchasesCreated.Inc()
	m.PurchaseWeight.Observe(netWeight.InexactFloat64())
	m.PurchaseTotal.Observe(total.InexactFloat64())
}

func (m *Metrics) LoanMovementRecorded(kind domain.MovementKind, amount decimal.Decimal) {
	m.LoanMovements.WithLabelValues(string(kind)).Inc()
	m.LoanMovementAmount.WithLabelValues(string(kind)).Observe(amount.InexactFloat64())
}

// RateLimited counts a rejected request.
func (m *Metrics) RateLimited() {
	m.RateLimitHits.Inc()
}
