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
	MetricNameCommandsProcessed = "commands_processed_total"
	MetricNameCombosCompleted   = "combos_completed_total"
	MetricNameTheftsAttempted   = "thefts_attempted_total"
	MetricNameDuelsResolved     = "duels_resolved_total"
	MetricNameLootboxesSpawned  = "lootboxes_spawned_total"
	MetricNameLootboxesGrabbed  = "lootboxes_grabbed_total"
	MetricNameItemsUsed         = "items_used_total"
	MetricNameAuraGranted       = "aura_granted_total"
	MetricNameAuraDeducted      = "aura_deducted_total"
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
	HelpTextCommandsProcessed = "Total number of commands processed"
	HelpTextCombosCompleted   = "Total number of command combos completed"
	HelpTextTheftsAttempted   = "Total number of theft attempts"
	HelpTextDuelsResolved     = "Total number of duels resolved"
	HelpTextLootboxesSpawned  = "Total number of lootboxes spawned"
	HelpTextLootboxesGrabbed  = "Total number of lootboxes grabbed"
	HelpTextItemsUsed         = "Total number of items used"
	HelpTextAuraGranted       = "Total aura granted to players"
	HelpTextAuraDeducted      = "Total aura deducted from players"
)

// ============================================================================
// Label Names
// ============================================================================

const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelCommand = "command"
	LabelCombo   = "combo"
	LabelResult  = "result"
	LabelRarity  = "rarity"
	LabelItem    = "item"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets covers command execution latencies from sub-ms to
// multi-second outliers.
var HTTPLatencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
