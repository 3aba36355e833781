package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Expense metrics
	ExpensesRecorded prometheus.Counter
	ExpenseAmount    prometheus.Histogram
	ExpenseErrors    *prometheus.CounterVec

	// Settlement metrics
	SettlementsSuggested prometheus.Counter
	SettlementsConfirmed prometheus.Counter
	SettlementsCancelled prometheus.Counter

	// Group metrics
	GroupsCreated prometheus.Counter

	// Consistency metrics
	LockContention    prometheus.Counter
	ZeroSumViolations prometheus.Counter
	ReconcileDuration prometheus.Histogram

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Outbox metrics
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		ExpensesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "divvy_expenses_recorded_total",
			Help: "Total number of split expenses recorded",
		}),
		ExpenseAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "divvy_expense_amount_minor_units",
			Help:    "Expense totals in minor currency units",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
		}),
		ExpenseErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "divvy_expense_errors_total",
				Help: "Total number of expense recording errors by type",
			},
			[]string{"error_type"},
		),

		SettlementsSuggested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "divvy_settlements_suggested_total",
			Help: "Total number of settlement suggestions generated",
		}),
		SettlementsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "divvy_settlements_confirmed_total",
			Help: "Total number of settlements confirmed",
		}),
		SettlementsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "divvy_settlements_cancelled_total",
			Help: "Total number of pending settlements superseded by recomputation",
		}),

		GroupsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "divvy_groups_created_total",
			Help: "Total number of groups created",
		}),

		LockContention: promauto.NewCounter(prometheus.CounterOpts{
			Name: "divvy_group_lock_contention_total",
			Help: "Total number of group lock conflicts",
		}),
		ZeroSumViolations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "divvy_zero_sum_violations_total",
			Help: "Total number of zero-sum invariant breaches detected",
		}),
		ReconcileDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "divvy_reconcile_duration_seconds",
			Help:    "Duration of settlement recomputation",
			Buckets: prometheus.DefBuckets,
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "divvy_http_requests_total",
				Help: "Total HTTP requests by method, path and status",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "divvy_http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "divvy_outbox_events_published_total",
			Help: "Total outbox events published",
		}),
		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "divvy_outbox_publish_errors_total",
			Help: "Total outbox publish failures",
		}),
	}
}
