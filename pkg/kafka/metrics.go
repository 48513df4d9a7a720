package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "storefront_events"

var (
	// ProducerMessagesPublished counts events acknowledged by the brokers.
	ProducerMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "published_total",
			Help:      "Session events acknowledged by Kafka.",
		},
		[]string{"topic"},
	)

	// ProducerPublishErrors counts events that could not be written.
	ProducerPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "publish_errors_total",
			Help:      "Session events Kafka failed to accept.",
		},
		[]string{"topic"},
	)

	// ProducerPublishDuration observes synchronous write latency. The buckets
	// stop at the default 2s write timeout.
	ProducerPublishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "publish_duration_seconds",
			Help:      "Time spent writing a session event to Kafka.",
			Buckets:   []float64{.002, .005, .01, .025, .05, .1, .25, .5, 1, 2},
		},
		[]string{"topic"},
	)

	// ProducerMessageBytes observes encoded envelope sizes. Cart events grow
	// with the number of lines.
	ProducerMessageBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "message_bytes",
			Help:      "Size of encoded session event envelopes.",
			Buckets:   prometheus.ExponentialBuckets(256, 2, 8),
		},
		[]string{"topic"},
	)
)
