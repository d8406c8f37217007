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
	CommandsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCommandsProcessed,
			Help: HelpTextCommandsProcessed,
		},
		[]string{LabelCommand, LabelResult},
	)

	CombosCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCombosCompleted,
			Help: HelpTextCombosCompleted,
		},
		[]string{LabelCombo},
	)

	TheftsAttempted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTheftsAttempted,
			Help: HelpTextTheftsAttempted,
		},
		[]string{LabelResult},
	)

	DuelsResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDuelsResolved,
			Help: HelpTextDuelsResolved,
		},
	)

	LootboxesSpawned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLootboxesSpawned,
			Help: HelpTextLootboxesSpawned,
		},
		[]string{LabelRarity},
	)

	LootboxesGrabbed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLootboxesGrabbed,
			Help: HelpTextLootboxesGrabbed,
		},
		[]string{LabelRarity},
	)

	ItemsUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsUsed,
			Help: HelpTextItemsUsed,
		},
		[]string{LabelItem},
	)

	AuraGranted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameAuraGranted,
			Help: HelpTextAuraGranted,
		},
	)

	AuraDeducted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameAuraDeducted,
			Help: HelpTextAuraDeducted,
		},
	)
)
