// Package metrics exports connection telemetry to Prometheus.
package metrics

import (
	"net/http"
	"transit/domain/network/transport"
	"transit/infrastructure/telemetry/trafficstats"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reasons a datagram is dropped before reaching a connection.
const (
	DropQueueFull = "queue_full"
	DropEmpty     = "empty"
	DropPeerLimit = "peer_limit"
	DropOversize  = "oversize"
)

// Metrics is safe for concurrent use. A nil *Metrics records nothing.
type Metrics struct {
	connections *prometheus.CounterVec
	rxBytes     *prometheus.CounterVec
	txBytes     *prometheus.CounterVec
	dropped     *prometheus.CounterVec
	collector   *trafficstats.Collector
}

// New registers the transit collectors on reg. collector, when non-nil, also
// receives connection and drop counts and backs the rate gauges.
func New(reg prometheus.Registerer, collector *trafficstats.Collector) (*Metrics, error) {
	m := &Metrics{
		connections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transit_connections_total",
				Help: "Connections accepted or dialed, by transport",
			},
			[]string{"transport"},
		),
		rxBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transit_received_bytes_total",
				Help: "Bytes read from the network, by transport",
			},
			[]string{"transport"},
		),
		txBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transit_sent_bytes_total",
				Help: "Bytes handed to the OS, by transport",
			},
			[]string{"transport"},
		),
		dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transit_dropped_packets_total",
				Help: "Inbound packets dropped before delivery, by transport and reason",
			},
			[]string{"transport", "reason"},
		),
		collector: collector,
	}

	cs := []prometheus.Collector{m.connections, m.rxBytes, m.txBytes, m.dropped}
	if collector != nil {
		cs = append(cs,
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "transit_receive_rate_bytes",
				Help: "Smoothed receive rate in bytes per second",
			}, func() float64 { return float64(collector.Snapshot().RXRate) }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "transit_send_rate_bytes",
				Help: "Smoothed send rate in bytes per second",
			}, func() float64 { return float64(collector.Snapshot().TXRate) }),
		)
	}
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) Collector() *trafficstats.Collector {
	if m == nil {
		return nil
	}
	return m.collector
}

func (m *Metrics) ConnectionOpened(t transport.Transport) {
	if m == nil {
		return
	}
	m.connections.WithLabelValues(t.String()).Inc()
	if m.collector != nil {
		m.collector.ConnectionOpened()
	}
}

func (m *Metrics) Received(t transport.Transport, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rxBytes.WithLabelValues(t.String()).Add(float64(n))
}

func (m *Metrics) Sent(t transport.Transport, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.txBytes.WithLabelValues(t.String()).Add(float64(n))
}

func (m *Metrics) Dropped(t transport.Transport, reason string) {
	if m == nil {
		return
	}
	m.dropped.WithLabelValues(t.String(), reason).Inc()
	if m.collector != nil {
		m.collector.PacketDropped()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
