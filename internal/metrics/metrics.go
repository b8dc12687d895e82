package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_records_consumed_total",
		Help: "Total number of stream records pulled, labelled by partition.",
	}, []string{"partition"})

	RecordsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_records_skipped_total",
		Help: "Total number of records skipped, labelled by reason.",
	}, []string{"reason"})

	DuplicatesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifier_duplicates_skipped_total",
		Help: "Total number of records skipped because the event was already processed.",
	})

	NotificationsBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_notifications_built_total",
		Help: "Total number of notifications built, labelled by event type.",
	}, []string{"event_type"})

	NotificationsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifier_notifications_enqueued_total",
		Help: "Total number of notification frames enqueued onto session queues.",
	})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notifier_sessions_active",
		Help: "Number of live push connections.",
	})

	SessionsPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifier_sessions_pruned_total",
		Help: "Total number of sessions removed because their queue was full.",
	})
)
