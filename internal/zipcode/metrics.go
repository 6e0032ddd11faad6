package zipcode

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes registry state.
type Metrics struct {
	Size prometheus.Gauge
}

// NewMetrics registers zipcode metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Size: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "residency_zipcode_registry_size",
			Help: "Number of eligible postal codes loaded into the registry",
		}),
	}
}

// Observe records the size of a freshly loaded registry.
func (m *Metrics) Observe(set *Set) {
	if m == nil {
		return
	}
	m.Size.Set(float64(set.Len()))
}
