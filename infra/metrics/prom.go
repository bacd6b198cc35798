package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/seaplane/core/metrics"
)

// PromSink records planner activity in Prometheus metrics.
type PromSink struct {
	validations *prometheus.CounterVec
	demand      prometheus.Gauge
	submissions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	distance    prometheus.Histogram
	entities    *prometheus.GaugeVec
	clusters    prometheus.Gauge
	unlocated   prometheus.Gauge
	stale       *prometheus.CounterVec
}

// NewPromSink registers planner metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_validations_total",
			Help: "Capacity validations by outcome",
		}, []string{"outcome"}),
		demand: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_selected_crates",
			Help: "Crates demanded by the current selection",
		}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_submissions_total",
			Help: "Delivery submissions by result",
		}, []string{"vehicle", "resolved"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "planner_submission_latency_seconds",
			Help:    "Time between submission start and backend response",
			Buckets: prometheus.DefBuckets,
		}, []string{"resolved"}),
		distance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planner_delivery_distance_km",
			Help:    "Total distance of created deliveries",
			Buckets: prometheus.ExponentialBuckets(10, 2, 8),
		}),
		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "planner_registry_entities",
			Help: "Entities held per registry after the last load",
		}, []string{"category"}),
		clusters: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_clusters",
			Help: "Map clusters after the last rebuild",
		}),
		unlocated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_unlocated_entities",
			Help: "Entities without a position after the last rebuild",
		}),
		stale: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_stale_responses_total",
			Help: "Responses dropped because a newer request was issued",
		}, []string{"category"}),
	}

	var err error
	if s.validations, err = register(reg, s.validations); err != nil {
		return nil, err
	}
	if s.demand, err = register(reg, s.demand); err != nil {
		return nil, err
	}
	if s.submissions, err = register(reg, s.submissions); err != nil {
		return nil, err
	}
	if s.latency, err = register(reg, s.latency); err != nil {
		return nil, err
	}
	if s.distance, err = register(reg, s.distance); err != nil {
		return nil, err
	}
	if s.entities, err = register(reg, s.entities); err != nil {
		return nil, err
	}
	if s.clusters, err = register(reg, s.clusters); err != nil {
		return nil, err
	}
	if s.unlocated, err = register(reg, s.unlocated); err != nil {
		return nil, err
	}
	if s.stale, err = register(reg, s.stale); err != nil {
		return nil, err
	}
	return s, nil
}

// register adds c to reg, reusing the collector already registered under the
// same descriptor.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordValidation counts the outcome and tracks the selected crates.
func (s *PromSink) RecordValidation(ev coremetrics.ValidationEvent) error {
	s.validations.WithLabelValues(ev.Outcome).Inc()
	s.demand.Set(float64(ev.Crates))
	return nil
}

// RecordSubmission counts the submission and observes its latency.
func (s *PromSink) RecordSubmission(ev coremetrics.SubmissionEvent) error {
	resolved := strconv.FormatBool(ev.Resolved)
	s.submissions.WithLabelValues(ev.Vehicle, resolved).Inc()
	s.latency.WithLabelValues(resolved).Observe(ev.Latency.Seconds())
	if ev.Resolved {
		s.distance.Observe(ev.DistanceKm)
	}
	return nil
}

// RecordDataLoad sets the registry and cluster gauges.
func (s *PromSink) RecordDataLoad(ev coremetrics.DataLoadEvent) error {
	s.entities.WithLabelValues(ev.Category).Set(float64(ev.Count))
	s.clusters.Set(float64(ev.Clusters))
	s.unlocated.Set(float64(ev.Unlocated))
	return nil
}

// RecordStaleResponse increments the stale counter for category.
func (s *PromSink) RecordStaleResponse(category string) error {
	s.stale.WithLabelValues(category).Inc()
	return nil
}
