package osc

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects receive loop statistics. A nil *Metrics records nothing.
type Metrics struct {
	packetsReceived prometheus.Counter
	decodeErrors    *prometheus.CounterVec
	dispatchErrors  prometheus.Counter
	notifications   prometheus.Counter
	handlers        prometheus.Gauge
}

func newServerCounter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "osc",
		Subsystem: "server",
		Name:      name,
		Help:      help,
	})
}

// NewMetrics creates the server collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		packetsReceived: newServerCounter("packets_received_total", "Datagrams read from the connection."),
		decodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "osc",
			Subsystem: "server",
			Name:      "decode_errors_total",
			Help:      "Datagrams dropped because they could not be decoded.",
		}, []string{"reason"}),
		dispatchErrors: newServerCounter("dispatch_errors_total", "Messages dropped because of an invalid address pattern."),
		notifications:  newServerCounter("notifications_total", "Handler notifications delivered."),
		handlers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "osc",
			Subsystem: "server",
			Name:      "registered_handlers",
			Help:      "Handlers currently registered.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.packetsReceived,
		m.decodeErrors,
		m.dispatchErrors,
		m.notifications,
		m.handlers,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) packetReceived() {
	if m == nil {
		return
	}
	m.packetsReceived.Inc()
}

func (m *Metrics) decodeFailed(reason string) {
	if m == nil {
		return
	}
	m.decodeErrors.WithLabelValues(reason).Inc()
}

func (m *Metrics) dispatchFailed() {
	if m == nil {
		return
	}
	m.dispatchErrors.Inc()
}

func (m *Metrics) dispatched(notified int) {
	if m == nil {
		return
	}
	m.notifications.Add(float64(notified))
}

func (m *Metrics) handlersChanged(registered int) {
	if m == nil {
		return
	}
	m.handlers.Set(float64(registered))
}
