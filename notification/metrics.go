package notification

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts listener activity
type Metrics struct {
	Ticks         prometheus.Counter
	TickErrors    prometheus.Counter
	Handled       prometheus.Counter
	HandlerErrors prometheus.Counter
}

// NewMetrics creates the listener counters and registers them with reg when it is not nil
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Ticks:         prometheus.NewCounter(prometheus.CounterOpts{Name: "tatum_listen_ticks_total", Help: "polling ticks run"}),
		TickErrors:    prometheus.NewCounter(prometheus.CounterOpts{Name: "tatum_listen_tick_errors_total", Help: "ticks that failed to fetch webhooks"}),
		Handled:       prometheus.NewCounter(prometheus.CounterOpts{Name: "tatum_listen_webhooks_handled_total", Help: "webhooks passed to a handler"}),
		HandlerErrors: prometheus.NewCounter(prometheus.CounterOpts{Name: "tatum_listen_handler_errors_total", Help: "handler invocations that failed"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Ticks, m.TickErrors, m.Handled, m.HandlerErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) tick() {
	if m != nil {
		m.Ticks.Inc()
	}
}

func (m *Metrics) tickError() {
	if m != nil {
		m.TickErrors.Inc()
	}
}

func (m *Metrics) handled() {
	if m != nil {
		m.Handled.Inc()
	}
}

func (m *Metrics) handlerError() {
	if m != nil {
		m.HandlerErrors.Inc()
	}
}
