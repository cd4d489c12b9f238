// Package metrics provides Prometheus metrics for the reference data store.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for fetches.
const (
	OutcomeSuccess = "success"
	OutcomeStale   = "stale" // finished after a newer round already installed
)

// Metrics contains the reference data store metrics.
type Metrics struct {
	// Fetch metrics, labelled by source kind and outcome (success or error category)
	FetchesTotal          *prometheus.CounterVec
	FetchDurationSeconds  *prometheus.HistogramVec
	LastSuccessTimestamp  *prometheus.GaugeVec
	RefreshRoundsTotal    *prometheus.CounterVec // by trigger
	RefreshRoundsInFlight prometheus.Gauge

	// State gauges
	EntriesPerList *prometheus.GaugeVec // codes per list name
	Countries      *prometheus.GaugeVec // by source kind
	Loaded         prometheus.Gauge

	// Reads that fell back to the raw input because the code was unknown
	LookupFallbacksTotal *prometheus.CounterVec

	// Side channels
	MirrorPublishFailuresTotal *prometheus.CounterVec
	TriggerEventsTotal         *prometheus.CounterVec // by result: accepted, coalesced, invalid
}

// New registers all metrics with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "polly_codelist_fetches_total",
			Help: "Total number of reference data fetches by source and outcome",
		}, []string{"source", "outcome"}),

		FetchDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "polly_codelist_fetch_duration_seconds",
			Help:    "Duration of reference data fetches by source",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),

		LastSuccessTimestamp: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "polly_codelist_last_success_timestamp_seconds",
			Help: "Unix time of the last successful fetch by source",
		}, []string{"source"}),

		RefreshRoundsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "polly_codelist_refresh_rounds_total",
			Help: "Total number of refresh rounds by trigger",
		}, []string{"trigger"}),

		RefreshRoundsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "polly_codelist_refresh_rounds_in_flight",
			Help: "Number of refresh rounds currently fetching",
		}),

		EntriesPerList: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "polly_codelist_entries",
			Help: "Current number of codes per list",
		}, []string{"list"}),

		Countries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "polly_codelist_countries",
			Help: "Current number of countries by source",
		}, []string{"source"}),

		Loaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "polly_codelist_loaded",
			Help: "1 once the first refresh round has settled",
		}),

		LookupFallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "polly_codelist_lookup_fallbacks_total",
			Help: "Lookups that fell back to the raw code, by list",
		}, []string{"list"}),

		MirrorPublishFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "polly_codelist_mirror_publish_failures_total",
			Help: "Failed snapshot publishes to the mirror by source",
		}, []string{"source"}),

		TriggerEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "polly_codelist_trigger_events_total",
			Help: "Change events consumed from the broker by result",
		}, []string{"result"}),
	}
}

// ObserveFetch records one finished fetch.
func (m *Metrics) ObserveFetch(source, outcome string, durationSeconds float64, finishedUnix float64) {
	m.FetchesTotal.WithLabelValues(source, outcome).Inc()
	m.FetchDurationSeconds.WithLabelValues(source).Observe(durationSeconds)
	if outcome == OutcomeSuccess {
		m.LastSuccessTimestamp.WithLabelValues(source).Set(finishedUnix)
	}
}

// RoundStarted records the start of a refresh round.
func (m *Metrics) RoundStarted(trigger string) {
	m.RefreshRoundsTotal.WithLabelValues(trigger).Inc()
	m.RefreshRoundsInFlight.Inc()
}

// RoundFinished records the end of a refresh round.
func (m *Metrics) RoundFinished() {
	m.RefreshRoundsInFlight.Dec()
	m.Loaded.Set(1)
}

// SetListEntries replaces the per-list entry gauges.
func (m *Metrics) SetListEntries(counts map[string]int) {
	m.EntriesPerList.Reset()
	for list, n := range counts {
		m.EntriesPerList.WithLabelValues(list).Set(float64(n))
	}
}

// SetCountries updates the country gauge for a source.
func (m *Metrics) SetCountries(source string, n int) {
	m.Countries.WithLabelValues(source).Set(float64(n))
}

// RecordLookupFallback counts a read that echoed the raw code.
func (m *Metrics) RecordLookupFallback(list string) {
	m.LookupFallbacksTotal.WithLabelValues(list).Inc()
}

// RecordMirrorFailure counts a failed snapshot publish.
func (m *Metrics) RecordMirrorFailure(source string) {
	m.MirrorPublishFailuresTotal.WithLabelValues(source).Inc()
}

// RecordTriggerEvent counts a consumed change event.
func (m *Metrics) RecordTriggerEvent(result string) {
	m.TriggerEventsTotal.WithLabelValues(result).Inc()
}
