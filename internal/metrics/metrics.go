// Package metrics holds the Prometheus collectors for backend requests and
// superseded responses. Collectors live on a private registry so that tests and
// the doctor command can gather them without touching the global default.
package metrics

import (
	"sort"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	retriesTotal    *prometheus.CounterVec
	staleResponses  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "photos_requests_total",
				Help: "Total number of backend requests",
			},
			[]string{"op", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "photos_request_duration_seconds",
				Help:    "Backend request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		retriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "photos_request_retries_total",
				Help: "Total number of retried backend requests",
			},
			[]string{"op"},
		),
		staleResponses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "photos_stale_responses_total",
				Help: "Responses dropped because a newer request superseded them",
			},
			[]string{"kind"},
		),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "photos_cache_lookups_total",
				Help: "Offline cache lookups",
			},
			[]string{"entry", "result"},
		),
	}
	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.retriesTotal, m.staleResponses, m.cacheHits)
	return m
}

// Registry exposes the private registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest records one finished backend call. status is the HTTP code, or 0
// for transport failures.
func (m *Metrics) ObserveRequest(op string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requestsTotal.WithLabelValues(op, label).Inc()
	m.requestDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (m *Metrics) RecordRetry(op string) {
	if m == nil {
		return
	}
	m.retriesTotal.WithLabelValues(op).Inc()
}

// RecordStale counts a response dropped because its generation was superseded.
func (m *Metrics) RecordStale(kind string) {
	if m == nil {
		return
	}
	m.staleResponses.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordCache(entry string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheHits.WithLabelValues(entry, result).Inc()
}

// Sample is one flattened metric value.
type Sample struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
}

// Snapshot gathers counters and histogram counts into a sorted flat list.
func (m *Metrics) Snapshot() ([]Sample, error) {
	if m == nil {
		return nil, nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}
	var out []Sample
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			s := Sample{Name: f.GetName(), Labels: labels}
			switch {
			case metric.GetCounter() != nil:
				s.Value = metric.GetCounter().GetValue()
			case metric.GetHistogram() != nil:
				s.Name += "_count"
				s.Value = float64(metric.GetHistogram().GetSampleCount())
			case metric.GetGauge() != nil:
				s.Value = metric.GetGauge().GetValue()
			}
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
