package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the notifier bot
type Metrics struct {
	// Command metrics
	CommandsTotal *prometheus.CounterVec
	CommandErrors *prometheus.CounterVec

	// Subscription store metrics
	SubscriptionsTotal   prometheus.Counter
	UnsubscriptionsTotal prometheus.Counter
	PersistenceErrors    *prometheus.CounterVec

	// Fan-out metrics
	AnnouncementsTotal    *prometheus.CounterVec
	AnnouncementsInFlight prometheus.Gauge
	AnnouncementAudience  prometheus.Histogram
	FanOutDuration        prometheus.Histogram
	NotificationsSent     prometheus.Counter
	NotificationErrors    prometheus.Counter

	// Kafka metrics
	EventsProduced prometheus.Counter
	EventErrors    *prometheus.CounterVec
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

// NewMetrics registers all collectors on the default registerer.
// Call it once per process, use GetDefaultMetrics otherwise.
func NewMetrics() *Metrics {
	return &Metrics{
		CommandsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spawn_notifier_commands_total",
				Help: "Total number of dispatched bot commands",
			},
			[]string{"command"},
		),
		CommandErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spawn_notifier_command_errors_total",
				Help: "Total number of failed bot commands",
			},
			[]string{"command", "error_type"},
		),

		SubscriptionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "spawn_notifier_subscriptions_total",
			Help: "Total number of subscriptions created",
		}),
		UnsubscriptionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "spawn_notifier_unsubscriptions_total",
			Help: "Total number of unsubscribe operations",
		}),
		PersistenceErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spawn_notifier_persistence_errors_total",
				Help: "Total number of failed store operations",
			},
			[]string{"operation"},
		),

		AnnouncementsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spawn_notifier_announcements_total",
				Help: "Total number of spawn announcements by result",
			},
			[]string{"result"},
		),
		AnnouncementsInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "spawn_notifier_announcements_in_flight",
			Help: "Announcements waiting for their delay or delivering",
		}),
		AnnouncementAudience: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "spawn_notifier_announcement_audience_size",
			Help:    "Number of subscribers resolved per announcement",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		}),
		FanOutDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "spawn_notifier_fanout_duration_seconds",
			Help:    "Time spent resolving and delivering one announcement, delay excluded",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		NotificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "spawn_notifier_notifications_sent_total",
			Help: "Total number of spawn notifications delivered",
		}),
		NotificationErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "spawn_notifier_notification_errors_total",
			Help: "Total number of spawn notifications that failed to send",
		}),

		EventsProduced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "spawn_notifier_kafka_events_produced_total",
			Help: "Total number of events produced to Kafka",
		}),
		EventErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spawn_notifier_kafka_event_errors_total",
				Help: "Total number of Kafka produce errors",
			},
			[]string{"event_type"},
		),
	}
}

// RecordCommand records a dispatched command
func (m *Metrics) RecordCommand(command string) {
	m.CommandsTotal.WithLabelValues(command).Inc()
}

// RecordCommandError records a failed command with error type
func (m *Metrics) RecordCommandError(command, errorType string) {
	if errorType == "" {
		errorType = "unknown"
	}
	m.CommandErrors.WithLabelValues(command, errorType).Inc()
}

// RecordSubscription records a successful subscription
func (m *Metrics) RecordSubscription() {
	m.SubscriptionsTotal.Inc()
}

// RecordUnsubscription records a successful unsubscription
func (m *Metrics) RecordUnsubscription() {
	m.UnsubscriptionsTotal.Inc()
}

// RecordPersistenceError records a failed store operation
func (m *Metrics) RecordPersistenceError(operation string) {
	if operation == "" {
		operation = "unknown"
	}
	m.PersistenceErrors.WithLabelValues(operation).Inc()
}

// RecordAnnouncement records an announcement outcome:
// scheduled, blocked, failed or completed
func (m *Metrics) RecordAnnouncement(result string) {
	m.AnnouncementsTotal.WithLabelValues(result).Inc()
}

// AnnouncementStarted marks an announcement as pending
func (m *Metrics) AnnouncementStarted() {
	m.AnnouncementsInFlight.Inc()
}

// AnnouncementFinished marks a pending announcement as done
func (m *Metrics) AnnouncementFinished() {
	m.AnnouncementsInFlight.Dec()
}

// RecordFanOut records the outcome of one fan-out
func (m *Metrics) RecordFanOut(audience, delivered, failed int, duration float64) {
	m.AnnouncementAudience.Observe(float64(audience))
	if delivered > 0 {
		m.NotificationsSent.Add(float64(delivered))
	}
	if failed > 0 {
		m.NotificationErrors.Add(float64(failed))
	}
	m.FanOutDuration.Observe(duration)
}

// RecordEvent records a produced Kafka event
func (m *Metrics) RecordEvent() {
	m.EventsProduced.Inc()
}

// RecordEventError records a Kafka produce error by event type
func (m *Metrics) RecordEventError(eventType string) {
	if eventType == "" {
		eventType = "unknown"
	}
	m.EventErrors.WithLabelValues(eventType).Inc()
}
