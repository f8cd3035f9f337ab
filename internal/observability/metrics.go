package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	writesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daylog",
		Subsystem: "store",
		Name:      "writes_total",
		Help:      "Log record writes processed, by operation.",
	}, []string{"op"})
	feedSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "daylog",
		Subsystem: "feed",
		Name:      "subscribers",
		Help:      "Currently connected change-feed subscribers.",
	})
	feedEventsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "daylog",
		Subsystem: "feed",
		Name:      "events_total",
		Help:      "Change events delivered to subscribers.",
	})
)

func init() {
	prometheus.MustRegister(writesTotal, feedSubscribers, feedEventsTotal)
}

// RecordWrite counts one processed write ("push", "update" or "delete").
func RecordWrite(op string) {
	writesTotal.WithLabelValues(op).Inc()
}

// FeedConnected tracks a new change-feed subscriber.
func FeedConnected() {
	feedSubscribers.Inc()
}

// FeedDisconnected tracks a departed change-feed subscriber.
func FeedDisconnected() {
	feedSubscribers.Dec()
}

// FeedEventDelivered counts one event delivered to a subscriber.
func FeedEventDelivered() {
	feedEventsTotal.Inc()
}
