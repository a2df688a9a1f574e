package jobs

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts what the background jobs did.
type Metrics struct {
	relayed       prometheus.Counter
	relayFailures prometheus.Counter
	purged        prometheus.Counter
}

// NewMetrics registers the job counters. A nil registerer keeps them unregistered.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		relayed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fulfillment_outbox_events_relayed_total",
			Help: "Outbox events handed to the notification publisher.",
		}),
		relayFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fulfillment_outbox_relay_failures_total",
			Help: "Outbox relay runs that failed.",
		}),
		purged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fulfillment_outbox_events_purged_total",
			Help: "Published outbox events deleted after the retention period.",
		}),
	}
	if registerer != nil {
		registerer.MustRegister(m.relayed, m.relayFailures, m.purged)
	}
	return m
}
