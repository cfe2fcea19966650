package plotter

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes a run's step-by-step state as prometheus gauges, so the
// plotted curve can be scraped as well as watched in a process monitor.
type Metrics struct {
	TargetBytes    prometheus.Gauge
	FootprintBytes prometheus.Gauge
	BlockCount     prometheus.Gauge
}

// NewMetrics builds the gauges and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TargetBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "memplot",
			Name:      "target_bytes",
			Help:      "Footprint the controller was last asked to reach.",
		}),
		FootprintBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "memplot",
			Name:      "footprint_bytes",
			Help:      "Bytes currently held by the block list.",
		}),
		BlockCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "memplot",
			Name:      "blocks",
			Help:      "Nodes in the block chain, empty markers included.",
		}),
	}
	reg.MustRegister(m.TargetBytes, m.FootprintBytes, m.BlockCount)
	return m
}

// Observe records one step. It has the signature of Config.OnUsage.
func (m *Metrics) Observe(targetBytes, heldBytes, blockCount int) {
	m.TargetBytes.Set(float64(targetBytes))
	m.FootprintBytes.Set(float64(heldBytes))
	m.BlockCount.Set(float64(blockCount))
}
