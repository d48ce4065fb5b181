// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Vixylora/Blast-Hackathon/internal/models"
)

// Metrics bundles every collector the service registers.
type Metrics struct {
	ReadingsIngested prometheus.Counter
	EventsLogged     *prometheus.CounterVec
	FetchFailures    prometheus.Counter
	Connectivity     prometheus.Gauge // 0 connecting, 1 connected, 2 error
	SystemState      prometheus.Gauge // 0 safe, 1 warning, 2 critical
}

// New creates and registers the collectors on the given registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReadingsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blast_readings_ingested_total",
			Help: "Total sensor readings accepted and persisted.",
		}),
		EventsLogged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blast_events_logged_total",
			Help: "Total transition events appended to the event log.",
		}, []string{"type"}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blast_monitor_fetch_failures_total",
			Help: "Failed latest-reading fetches by the monitor loop.",
		}),
		Connectivity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blast_monitor_connectivity",
			Help: "Monitor connectivity: 0 connecting, 1 connected, 2 error.",
		}),
		SystemState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blast_system_state",
			Help: "Derived safety state: 0 safe, 1 warning, 2 critical.",
		}),
	}

	reg.MustRegister(m.ReadingsIngested, m.EventsLogged, m.FetchFailures, m.Connectivity, m.SystemState)
	return m
}

// ObserveSnapshot maps a monitor snapshot onto the gauges.
func (m *Metrics) ObserveSnapshot(state models.SystemState, connectivity models.ConnectionStatus) {
	switch connectivity {
	case models.StatusConnected:
		m.Connectivity.Set(1)
	case models.StatusError:
		m.Connectivity.Set(2)
	default:
		m.Connectivity.Set(0)
	}

	switch state {
	case models.StateWarning:
		m.SystemState.Set(1)
	case models.StateCritical:
		m.SystemState.Set(2)
	default:
		m.SystemState.Set(0)
	}
}
