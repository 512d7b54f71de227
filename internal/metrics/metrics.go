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

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	SeasonsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSeasonsCreated,
			Help: HelpTextSeasonsCreated,
		},
	)

	PredictionsLocked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePredictionsLocked,
			Help: HelpTextPredictionsLocked,
		},
	)

	StakeVolume = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameStakeVolume,
			Help: HelpTextStakeVolume,
		},
	)

	PrizePoolSeeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePrizePoolSeeded,
			Help: HelpTextPrizePoolSeeded,
		},
	)

	SeasonsResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSeasonsResolved,
			Help: HelpTextSeasonsResolved,
		},
	)

	WinningsPaid = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameWinningsPaid,
			Help: HelpTextWinningsPaid,
		},
	)

	ClaimsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameClaimsProcessed,
			Help: HelpTextClaimsProcessed,
		},
	)

	ResidualSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameResidualSwept,
			Help: HelpTextResidualSwept,
		},
	)
)
