/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"github.com/named-data/flatfw/defn"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of a forwarder.
type Metrics struct {
	PacketsReceived *prometheus.CounterVec
	Decisions       *prometheus.CounterVec
	QueueLength     prometheus.Gauge
	QueueSojourn    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg, if not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PacketsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flatfw",
			Name:      "packets_received_total",
			Help:      "Packets admitted to the input delay queue, by packet type.",
		}, []string{"type"}),
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flatfw",
			Name:      "decisions_total",
			Help:      "Routing decisions delivered, by outcome.",
		}, []string{"outcome"}),
		QueueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flatfw",
			Name:      "queue_length",
			Help:      "Packets waiting for a server of the input delay queue.",
		}),
		QueueSojourn: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flatfw",
			Name:      "queue_sojourn_seconds",
			Help:      "Time from packet arrival to routing decision.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.PacketsReceived, m.Decisions, m.QueueLength, m.QueueSojourn)
	}
	return m
}

func (m *Metrics) received(t defn.PacketType) {
	if m != nil {
		m.PacketsReceived.WithLabelValues(t.String()).Inc()
	}
}

func (m *Metrics) decided(o outcome, sojournSeconds float64) {
	if m != nil {
		m.Decisions.WithLabelValues(o.String()).Inc()
		m.QueueSojourn.Observe(sojournSeconds)
	}
}

func (m *Metrics) queueLength(n int) {
	if m != nil {
		m.QueueLength.Set(float64(n))
	}
}
