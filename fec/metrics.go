package fec

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes the FEC engine's observability surface to a caller-owned
// Prometheus registry. A nil *Metrics is valid everywhere an Engine accepts
// one: every observe call is a no-op guard at the call site.
type Metrics struct {
	SegmentsRetained prometheus.Counter
	BytesEvicted     prometheus.Counter
	DecodeNoLoss     prometheus.Counter
	DecodeRecovered  prometheus.Counter
	DecodeFailed     prometheus.Counter
	CWNDReductions   prometheus.Counter
	Disables         prometheus.Counter
	QueuedBytes      prometheus.Gauge
}

// NewMetrics constructs a Metrics instance and registers every collector
// against reg. Panics if registration fails (duplicate registration of the
// same collector), matching promauto's behavior.
func NewMetrics(reg *prometheus.Registry, namespace string) *Metrics {
	m := &Metrics{
		SegmentsRetained: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "fec", Name: "segments_retained_total",
			Help: "Data segments retained in the reference window for possible XOR recovery.",
		}),
		BytesEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "fec", Name: "bytes_evicted_total",
			Help: "Payload bytes evicted from the reference window to stay within its byte budget.",
		}),
		DecodeNoLoss: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "fec", Name: "decode_no_loss_total",
			Help: "Decode episodes that found every encoded block already present.",
		}),
		DecodeRecovered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "fec", Name: "decode_recovered_total",
			Help: "Decode episodes that reconstructed exactly one missing block.",
		}),
		DecodeFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "fec", Name: "decode_failed_total",
			Help: "Decode episodes with two or more missing blocks.",
		}),
		CWNDReductions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "fec", Name: "cwnd_reductions_total",
			Help: "Congestion window reductions triggered by a peer's RECOVERY_SUCCESSFUL.",
		}),
		Disables: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "fec", Name: "disables_total",
			Help: "Times FEC was disabled on a connection, for any reason.",
		}),
		QueuedBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "fec", Name: "queued_bytes",
			Help: "Current size in bytes of the reference window.",
		}),
	}
	reg.MustRegister(m.SegmentsRetained, m.BytesEvicted, m.DecodeNoLoss, m.DecodeRecovered,
		m.DecodeFailed, m.CWNDReductions, m.Disables, m.QueuedBytes)
	return m
}

func (m *Metrics) observeRetain(queuedBytes int) {
	m.SegmentsRetained.Inc()
	m.QueuedBytes.Set(float64(queuedBytes))
}

func (m *Metrics) observeEviction(evictedBytes int) {
	m.BytesEvicted.Add(float64(evictedBytes))
}

func (m *Metrics) observeDecode(result Result) {
	switch result {
	case NoLoss:
		m.DecodeNoLoss.Inc()
	case LossRecovered:
		m.DecodeRecovered.Inc()
	case LossUnrecovered:
		m.DecodeFailed.Inc()
	}
}

func (m *Metrics) observeCWNDReduction() { m.CWNDReductions.Inc() }

func (m *Metrics) observeDisable() { m.Disables.Inc() }
