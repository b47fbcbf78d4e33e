package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	DepositsCreated    prometheus.Counter
	WithdrawalsCreated *prometheus.CounterVec
	TransfersCreated   *prometheus.CounterVec
	OperationDuration  *prometheus.HistogramVec
	EntryAmount        prometheus.Histogram

	// Directory metrics
	UsersRegistered prometheus.Counter
	AuthAttempts    *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished     prometheus.Counter
	OutboxPublishErrors prometheus.Counter

	// Database metrics
	DBRetries prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		DepositsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_deposits_total",
			Help: "Total number of completed deposits",
		}),
		WithdrawalsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_withdrawals_total",
				Help: "Total number of withdrawal attempts by result",
			},
			[]string{"result"},
		),
		TransfersCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_transfers_total",
				Help: "Total number of transfer attempts by result",
			},
			[]string{"result"},
		),
		OperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankledger_operation_duration_seconds",
				Help:    "Duration of ledger operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		EntryAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankledger_entry_amount_cents",
			Help:    "Entry amounts in cents",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
		}),
		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_users_registered_total",
			Help: "Total number of registered users",
		}),
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_auth_attempts_total",
				Help: "Total authentication attempts by outcome",
			},
			[]string{"outcome"},
		),
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_outbox_published_total",
			Help: "Total number of published outbox events",
		}),
		OutboxPublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_outbox_publish_errors_total",
			Help: "Total number of outbox publish errors",
		}),
		DBRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_db_retries_total",
			Help: "Total number of retried database operations",
		}),
	}
}
