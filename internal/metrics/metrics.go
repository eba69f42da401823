// Package metrics exposes frame and instrument counters over Prometheus.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// FrameCollector bundles the Prometheus metrics of the render loop.
type FrameCollector struct {
	gatherer prometheus.Gatherer

	Frames          prometheus.Counter
	FrameDurations  prometheus.Histogram
	InstrumentDraws *prometheus.CounterVec
	SimPaused       prometheus.Gauge
}

// NewFrameCollector registers the render loop metrics against reg,
// defaulting to the global Prometheus registry when nil.
func NewFrameCollector(reg prometheus.Registerer) (*FrameCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	frames, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "glasscockpit_frames_total",
		Help: "Total number of frames drawn.",
	}), "glasscockpit_frames_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "glasscockpit_frame_duration_seconds",
		Help:    "Time spent drawing one frame, in seconds.",
		Buckets: []float64{0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066, 0.1, 0.25},
	}), "glasscockpit_frame_duration_seconds")
	if err != nil {
		return nil, err
	}

	draws, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "glasscockpit_instrument_draws_total",
		Help: "Total number of instrument draws, labeled by instrument kind.",
	}, []string{"kind"}), "glasscockpit_instrument_draws_total")
	if err != nil {
		return nil, err
	}

	paused, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "glasscockpit_sim_paused",
		Help: "1 while the simulation is paused, 0 otherwise.",
	}), "glasscockpit_sim_paused")
	if err != nil {
		return nil, err
	}

	return &FrameCollector{
		gatherer:        gatherer,
		Frames:          frames,
		FrameDurations:  durations,
		InstrumentDraws: draws,
		SimPaused:       paused,
	}, nil
}

// ObserveFrame counts one frame that took d to draw.
func (c *FrameCollector) ObserveFrame(d time.Duration) {
	if c == nil {
		return
	}
	if c.Frames != nil {
		c.Frames.Inc()
	}
	if c.FrameDurations != nil {
		c.FrameDurations.Observe(d.Seconds())
	}
}

// CountDraw counts one draw of an instrument of the given kind.
func (c *FrameCollector) CountDraw(kind string) {
	if c == nil || c.InstrumentDraws == nil {
		return
	}
	c.InstrumentDraws.WithLabelValues(kind).Inc()
}

func (c *FrameCollector) SetPaused(paused bool) {
	if c == nil || c.SimPaused == nil {
		return
	}
	if paused {
		c.SimPaused.Set(1)
	} else {
		c.SimPaused.Set(0)
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *FrameCollector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
