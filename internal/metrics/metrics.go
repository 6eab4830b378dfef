package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Pack Metrics
var (
	PacksOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePacksOpened,
			Help: HelpTextPacksOpened,
		},
		[]string{LabelPackType, LabelRarity, LabelSource},
	)

	SelectorFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSelectorFallbacks,
			Help: HelpTextSelectorFallbacks,
		},
		[]string{LabelStage},
	)

	ScarcityConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameScarcityConflicts,
			Help: HelpTextScarcityConflicts,
		},
		[]string{LabelKind},
	)

	CreditsSpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCreditsSpent,
			Help: HelpTextCreditsSpent,
		},
	)

	CreditsGranted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCreditsGranted,
			Help: HelpTextCreditsGranted,
		},
		[]string{LabelSource},
	)

	OperationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOperationFailures,
			Help: HelpTextOperationFailures,
		},
		[]string{LabelOperation, LabelReason},
	)

	TransactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameTransactionDuration,
			Help:    HelpTextTransactionDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelOperation},
	)
)

// Daily Metrics
var (
	DailyClaims = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDailyClaims,
			Help: HelpTextDailyClaims,
		},
		[]string{LabelRewardType},
	)
)

// Reconciliation Metrics
var (
	StatsDriftDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStatsDriftDetected,
			Help: HelpTextStatsDriftDetected,
		},
		[]string{LabelField},
	)

	StatsCorrected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStatsCorrected,
			Help: HelpTextStatsCorrected,
		},
		[]string{LabelField},
	)

	ReconcileRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameReconcileRunDuration,
			Help:    HelpTextReconcileRunDuration,
			Buckets: ReconcileBuckets,
		},
	)
)
