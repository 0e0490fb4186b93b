// Package metrics exposes scene lifecycle counters to Prometheus.
// A nil *Collectors is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fieldglobe"

// Collectors groups the visualization's metrics.
type Collectors struct {
	Ticks              prometheus.Counter
	TickFailures       prometheus.Counter
	Rebuilds           prometheus.Counter
	ConstructFailures  prometheus.Counter
	FieldLinesSkipped  prometheus.Counter
	CloudLoadFailures  prometheus.Counter
	SceneState         prometheus.Gauge
	Particles          prometheus.Gauge
	TelemetryGlobalIdx prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Animation ticks executed by the live scene instance.",
		}),
		TickFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tick_failures_total",
			Help:      "Animation ticks abandoned after an error.",
		}),
		Rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rebuilds_total",
			Help:      "Scene constructions triggered by snapshots.",
		}),
		ConstructFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "construction_failures_total",
			Help:      "Scene constructions that failed.",
		}),
		FieldLinesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fieldlines_skipped_total",
			Help:      "Field lines skipped because projection was unavailable.",
		}),
		CloudLoadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cloud_load_failures_total",
			Help:      "Optional cloud texture loads that failed.",
		}),
		SceneState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scene_state",
			Help:      "Lifecycle state of the scene (0=uninitialized .. 4=disposed).",
		}),
		Particles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "particles",
			Help:      "Particles in the live particle buffer.",
		}),
		TelemetryGlobalIdx: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "telemetry_global_index",
			Help:      "Geomagnetic global index of the snapshot in effect.",
		}),
	}

	for _, col := range []prometheus.Collector{
		c.Ticks, c.TickFailures, c.Rebuilds, c.ConstructFailures,
		c.FieldLinesSkipped, c.CloudLoadFailures,
		c.SceneState, c.Particles, c.TelemetryGlobalIdx,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collectors) Tick() {
	if c != nil {
		c.Ticks.Inc()
	}
}

func (c *Collectors) TickFailed() {
	if c != nil {
		c.TickFailures.Inc()
	}
}

func (c *Collectors) Rebuilt(particles int, globalIndex float64) {
	if c != nil {
		c.Rebuilds.Inc()
		c.Particles.Set(float64(particles))
		c.TelemetryGlobalIdx.Set(globalIndex)
	}
}

func (c *Collectors) ConstructFailed() {
	if c != nil {
		c.ConstructFailures.Inc()
	}
}

func (c *Collectors) FieldLineSkipped() {
	if c != nil {
		c.FieldLinesSkipped.Inc()
	}
}

func (c *Collectors) CloudLoadFailed() {
	if c != nil {
		c.CloudLoadFailures.Inc()
	}
}

func (c *Collectors) SetState(state int) {
	if c != nil {
		c.SceneState.Set(float64(state))
	}
}

// Handler exposes gatherer as a /metrics endpoint. A nil gatherer serves
// the default registry.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
