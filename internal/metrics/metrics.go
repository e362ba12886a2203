// Package metrics holds the Prometheus collectors shared by the API binary.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	SeedsSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "seedling_seeds_sent_total",
		Help: "Seeds successfully sent.",
	})

	Matches = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "seedling_matches_total",
		Help: "Seed sends that completed a mutual match.",
	})

	MessagesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seedling_messages_sent_total",
		Help: "Messages persisted, by type.",
	}, []string{"type"})

	RealtimeSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "seedling_realtime_subscribers",
		Help: "Live realtime subscriptions on this instance.",
	})

	RealtimeEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seedling_realtime_events_total",
		Help: "Realtime events by name and outcome (delivered, dropped, no_subscriber).",
	}, []string{"event", "outcome"})

	Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seedling_notifications_total",
		Help: "Notification deliveries by type, channel and outcome.",
	}, []string{"type", "channel", "outcome"})
)

func init() {
	prometheus.MustRegister(
		HTTPRequests, HTTPLatency, HTTPInflight,
		SeedsSent, Matches, MessagesSent,
		RealtimeSubscribers, RealtimeEvents,
		Notifications,
	)
}
