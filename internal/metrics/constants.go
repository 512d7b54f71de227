package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameSeasonsCreated    = "seasons_created_total"
	MetricNamePredictionsLocked = "predictions_locked_total"
	MetricNameStakeVolume       = "stake_volume_total"
	MetricNamePrizePoolSeeded   = "prize_pool_seeded_total"
	MetricNameSeasonsResolved   = "seasons_resolved_total"
	MetricNameWinningsPaid      = "winnings_paid_total"
	MetricNameClaimsProcessed   = "claims_processed_total"
	MetricNameResidualSwept     = "residual_swept_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextSeasonsCreated    = "Total number of seasons created"
	HelpTextPredictionsLocked = "Total number of predictions locked"
	HelpTextStakeVolume       = "Total stake volume locked across all fights"
	HelpTextPrizePoolSeeded   = "Total amount seeded into prize pools"
	HelpTextSeasonsResolved   = "Total number of seasons resolved"
	HelpTextWinningsPaid      = "Total payout volume credited to winners"
	HelpTextClaimsProcessed   = "Total number of claim operations processed"
	HelpTextResidualSwept     = "Total residual escrow recovered after claim windows"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgMetricsRecorded = "Metrics recorded for event"
)
