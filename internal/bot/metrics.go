package bot

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus counters for dispatched commands.
type Metrics struct {
	Commands *prometheus.CounterVec // labels: command
}

func newCommandsCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cwabot",
		Name:      "commands_total",
		Help:      "Inbound tokens by classified command.",
	}, []string{"command"})
}

// NewMetrics creates the dispatcher metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{Commands: newCommandsCounter()}
	reg.MustRegister(m.Commands)
	return m
}

// NewMetricsForTesting creates unregistered metrics so tests can build as
// many dispatchers as they like.
func NewMetricsForTesting() *Metrics {
	return &Metrics{Commands: newCommandsCounter()}
}

func (m *Metrics) observe(c Command) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(c.String()).Inc()
}
