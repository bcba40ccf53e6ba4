// Package metrics exports trainer statistics to Prometheus. A Collector
// subscribes to the engine's event bus and never touches engine state.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opd-ai/go-cannon/pkg/event"
	"github.com/opd-ai/go-cannon/pkg/validation"
)

const namespace = "cannon"

// Collector holds the trainer metrics in its own registry.
type Collector struct {
	registry *prometheus.Registry

	shots          prometheus.Counter
	results        *prometheus.CounterVec
	rejected       prometheus.Counter
	rounds         prometheus.Counter
	flightTime     *prometheus.HistogramVec
	launchSpeed    prometheus.Gauge
	launchAngle    prometheus.Gauge
	pendingAngle   prometheus.Gauge
	targetDistance prometheus.Gauge

	mu   sync.Mutex
	subs []*event.Subscription
}

// New creates a collector. Go runtime and process metrics are registered
// alongside the trainer metrics.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		shots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shots_fired_total",
			Help:      "Shots fired since start",
		}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shots_finished_total",
			Help:      "Finished shots by result",
		}, []string{"result"}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inputs_rejected_total",
			Help:      "Commands refused because of invalid input",
		}),
		rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_total",
			Help:      "Targets placed since start",
		}),
		flightTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flight_time_seconds",
			Help:      "Simulated flight time of finished shots",
			Buckets:   []float64{0.25, 0.5, 1, 2, 3, 5, 8, 13},
		}, []string{"result"}),
		launchSpeed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "launch_speed_mps",
			Help:      "Speed of the most recent shot",
		}),
		launchAngle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "launch_angle_degrees",
			Help:      "Elevation of the most recent shot",
		}),
		pendingAngle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_angle_degrees",
			Help:      "Elevation set for the next shot",
		}),
		targetDistance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "target_distance_meters",
			Help:      "Distance from the cannon to the current target",
		}),
	}

	c.registry.MustRegister(
		c.shots, c.results, c.rejected, c.rounds, c.flightTime,
		c.launchSpeed, c.launchAngle, c.pendingAngle, c.targetDistance,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// expose both result series from the start
	for _, result := range []string{"hit", "miss"} {
		c.results.WithLabelValues(result)
	}

	return c
}

// Attach subscribes the collector to bus. Calling it again adds another
// set of subscriptions.
func (c *Collector) Attach(bus *event.Bus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.subs = append(c.subs,
		bus.Subscribe(event.ShotFired, c.onShotFired),
		bus.Subscribe(event.TargetHit, c.onShotFinished),
		bus.Subscribe(event.ShotMissed, c.onShotFinished),
		bus.Subscribe(event.RoundReset, c.onRoundReset),
		bus.Subscribe(event.AngleChanged, c.onAngleChanged),
		bus.Subscribe(event.InputRejected, c.onInputRejected),
	)
}

// Detach cancels all subscriptions made by Attach.
func (c *Collector) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sub := range c.subs {
		sub.Cancel()
	}
	c.subs = nil
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) onShotFired(e event.Event) {
	shot, ok := e.(*event.ShotEvent)
	if !ok {
		return
	}
	c.shots.Inc()
	c.launchSpeed.Set(shot.Speed)
	c.launchAngle.Set(validation.RadiansToDegrees(shot.Angle))
}

func (c *Collector) onShotFinished(e event.Event) {
	shot, ok := e.(*event.ShotEvent)
	if !ok {
		return
	}
	result := "miss"
	if shot.GetType() == event.TargetHit {
		result = "hit"
	}
	c.results.WithLabelValues(result).Inc()
	c.flightTime.WithLabelValues(result).Observe(shot.FlightTime)
}

func (c *Collector) onRoundReset(e event.Event) {
	round, ok := e.(*event.RoundEvent)
	if !ok {
		return
	}
	c.rounds.Inc()
	c.targetDistance.Set(round.TargetDistance)
}

func (c *Collector) onAngleChanged(e event.Event) {
	if angle, ok := e.(*event.AngleEvent); ok {
		c.pendingAngle.Set(validation.RadiansToDegrees(angle.Angle))
	}
}

func (c *Collector) onInputRejected(event.Event) {
	c.rejected.Inc()
}
