// Package metrics exports cache events to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/krisalay/sheets-cache/refresh"
	"github.com/krisalay/sheets-cache/types"
)

// Prometheus implements types.Metrics with counters on a registry.
// It is also a refresh.Hook recording how long refreshes take and what they returned.
type Prometheus struct {
	lookups   *prometheus.CounterVec
	refreshes *prometheus.CounterVec

	duration    prometheus.Histogram
	records     prometheus.Gauge
	lastSuccess prometheus.Gauge
}

var (
	_ types.Metrics = (*Prometheus)(nil)
	_ refresh.Hook  = (*Prometheus)(nil)
)

// NewPrometheus registers the sheet cache counters on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sheetcache",
			Name:      "lookups_total",
			Help:      "Records lookups by outcome (hit, miss, expired).",
		}, []string{"result"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sheetcache",
			Name:      "refreshes_total",
			Help:      "Refresh attempts by outcome (ok or an error kind).",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sheetcache",
			Name:      "refresh_duration_seconds",
			Help:      "Time spent on refresh attempts, successful or not.",
			Buckets:   prometheus.DefBuckets,
		}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sheetcache",
			Name:      "records",
			Help:      "Records in the last successful fetch.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sheetcache",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful fetch.",
		}),
	}
	reg.MustRegister(p.lookups, p.refreshes, p.duration, p.records, p.lastSuccess)
	return p
}

func (p *Prometheus) Hit()    { p.lookups.WithLabelValues("hit").Inc() }
func (p *Prometheus) Miss()   { p.lookups.WithLabelValues("miss").Inc() }
func (p *Prometheus) Expire() { p.lookups.WithLabelValues("expired").Inc() }

func (p *Prometheus) Refresh() { p.refreshes.WithLabelValues("ok").Inc() }

func (p *Prometheus) RefreshError(kind string) {
	p.refreshes.WithLabelValues(kind).Inc()
}

func (p *Prometheus) OnRefresh(ent *types.CacheEntry, err error, took time.Duration) {
	p.duration.Observe(took.Seconds())
	if err != nil {
		return
	}
	p.records.Set(float64(len(ent.Records)))
	p.lastSuccess.Set(float64(ent.FetchedAt.Unix()))
}
