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

// Business metric names
const (
	MetricNamePacksOpened          = "dropa_packs_opened_total"
	MetricNameOperationFailures    = "dropa_operation_failures_total"
	MetricNameSelectorFallbacks    = "dropa_selector_fallbacks_total"
	MetricNameScarcityConflicts    = "dropa_scarcity_conflicts_total"
	MetricNameDailyClaims          = "dropa_daily_claims_total"
	MetricNameCreditsSpent         = "dropa_credits_spent_total"
	MetricNameCreditsGranted       = "dropa_credits_granted_total"
	MetricNameStatsDriftDetected   = "dropa_stats_drift_detected_total"
	MetricNameStatsCorrected       = "dropa_stats_corrected_total"
	MetricNameReconcileRunDuration = "dropa_reconcile_run_duration_seconds"
	MetricNameTransactionDuration  = "dropa_transaction_duration_seconds"
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

// Business metric help text
const (
	HelpTextPacksOpened          = "Total number of packs opened"
	HelpTextOperationFailures    = "Total number of failed core operations"
	HelpTextSelectorFallbacks    = "Item selections that left the strict eligible pool"
	HelpTextScarcityConflicts    = "Lost races for unique items or last editions"
	HelpTextDailyClaims          = "Total number of daily reward claims"
	HelpTextCreditsSpent         = "Total credits debited by pack opens"
	HelpTextCreditsGranted       = "Total credits granted by daily rewards and top-ups"
	HelpTextStatsDriftDetected   = "Stats fields found drifting from the ledger tables"
	HelpTextStatsCorrected       = "Stats fields rewritten by the reconciler"
	HelpTextReconcileRunDuration = "Duration of full reconciliation runs"
	HelpTextTransactionDuration  = "Duration of core write transactions"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod     = "method"
	LabelPath       = "path"
	LabelStatus     = "status"
	LabelPackType   = "pack_type"
	LabelRarity     = "rarity"
	LabelSource     = "source"
	LabelOperation  = "operation"
	LabelReason     = "reason"
	LabelStage      = "stage"
	LabelKind       = "kind"
	LabelRewardType = "reward_type"
	LabelField      = "field"
)

// Operation label values
const (
	OperationOpenPack   = "open_pack"
	OperationClaimGrant = "claim_grant"
	OperationDaily      = "daily_claim"
	OperationFixStats   = "fix_stats"
	OperationFreePack   = "free_pack"
	OperationAddCredits = "add_credits"
)

// Failure reason label values
const (
	ReasonInsufficientCredits = "insufficient_credits"
	ReasonConflict            = "conflict"
	ReasonAlreadyClaimed      = "already_claimed"
	ReasonConfiguration       = "configuration"
	ReasonNotFound            = "not_found"
	ReasonInternal            = "internal"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ReconcileBuckets spans short checks through long full passes.
var ReconcileBuckets = []float64{.1, .5, 1, 5, 15, 30, 60, 120, 300}
