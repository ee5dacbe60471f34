package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Posting metrics
	TransactionsCreated prometheus.Counter
	TransactionsPosted  prometheus.Counter
	TransactionsVoided  prometheus.Counter
	PostingDuration     prometheus.Histogram
	PostingErrors       *prometheus.CounterVec
	ContentionRetries   prometheus.Counter

	// Workflow metrics
	WorkflowActions *prometheus.CounterVec

	// Account metrics
	AccountsCreated prometheus.Counter

	// Exchange rate metrics
	RateConversions    prometheus.Counter
	RateTriangulations prometheus.Counter
	RateCacheHits      prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries  *prometheus.CounterVec
	DBDuration *prometheus.HistogramVec
	DBErrors   *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		TransactionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgerbook_transactions_created_total",
			Help: "Total number of transactions created",
		}),
		TransactionsPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgerbook_transactions_posted_total",
			Help: "Total number of transactions posted",
		}),
		TransactionsVoided: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgerbook_transactions_voided_total",
			Help: "Total number of transactions voided",
		}),
		PostingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerbook_posting_duration_seconds",
			Help:    "Duration of posting operations",
			Buckets: prometheus.DefBuckets,
		}),
		PostingErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerbook_posting_errors_total",
				Help: "Total number of rejected postings by reason",
			},
			[]string{"reason"},
		),
		ContentionRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgerbook_contention_retries_total",
			Help: "Total number of posting retries due to account contention",
		}),
		WorkflowActions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerbook_workflow_actions_total",
				Help: "Total number of workflow actions by type",
			},
			[]string{"action"},
		),
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgerbook_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		RateConversions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgerbook_rate_conversions_total",
			Help: "Total number of currency conversions",
		}),
		RateTriangulations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgerbook_rate_triangulations_total",
			Help: "Total number of rate lookups resolved through the base currency",
		}),
		RateCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgerbook_rate_cache_hits_total",
			Help: "Total number of rate lookups served from cache",
		}),
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerbook_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerbook_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerbook_db_queries_total",
				Help: "Total number of database queries",
			},
			[]string{"operation"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerbook_db_query_duration_seconds",
				Help:    "Duration of database queries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerbook_db_errors_total",
				Help: "Total number of database errors",
			},
			[]string{"operation"},
		),
	}
}
