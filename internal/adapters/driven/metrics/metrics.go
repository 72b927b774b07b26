// Package metrics records search run statistics in Prometheus collectors.
//
// A run is short-lived, so nothing is served over HTTP. The collected
// values are written once, at exit, in the node_exporter textfile format
// when --metrics-file is given.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/gitlab-search/internal/core/domain"
	"github.com/custodia-labs/gitlab-search/internal/core/ports/driven"
)

const (
	statusOK     = "ok"
	statusFailed = "failed"
)

// Ensure Metrics implements the interface.
var _ driven.Observer = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for one search run.
type Metrics struct {
	PagesTotal      *prometheus.CounterVec
	ProjectsListed  prometheus.Counter
	GroupsSkipped   prometheus.Counter
	SearchesTotal   *prometheus.CounterVec
	MatchesTotal    prometheus.Counter
	SearchDuration  prometheus.Histogram
	LastRunFinished prometheus.Gauge

	registry *prometheus.Registry
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		PagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gitlab_search_project_pages_total",
				Help: "Project listing pages requested, by status.",
			},
			[]string{"status"},
		),
		ProjectsListed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gitlab_search_projects_listed_total",
				Help: "Projects returned by successful listing pages.",
			},
		),
		GroupsSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gitlab_search_groups_skipped_total",
				Help: "Groups skipped because their first page failed.",
			},
		),
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gitlab_search_project_searches_total",
				Help: "Project blob searches, by status.",
			},
			[]string{"status"},
		),
		MatchesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gitlab_search_matches_total",
				Help: "Matches returned across all projects.",
			},
		),
		SearchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gitlab_search_project_search_duration_seconds",
				Help:    "Duration of a single project search.",
				Buckets: prometheus.DefBuckets,
			},
		),
		LastRunFinished: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "gitlab_search_last_run_timestamp_seconds",
				Help: "Unix time the metrics were written.",
			},
		),
		registry: reg,
	}

	reg.MustRegister(m.PagesTotal)
	reg.MustRegister(m.ProjectsListed)
	reg.MustRegister(m.GroupsSkipped)
	reg.MustRegister(m.SearchesTotal)
	reg.MustRegister(m.MatchesTotal)
	reg.MustRegister(m.SearchDuration)
	reg.MustRegister(m.LastRunFinished)

	return m
}

// Registry returns the registry holding the run metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// PageFetched counts a successful listing page.
func (m *Metrics) PageFetched(_ domain.Group, _ int, count int) {
	m.PagesTotal.WithLabelValues(statusOK).Inc()
	m.ProjectsListed.Add(float64(count))
}

// PageFailed counts a failed listing page.
func (m *Metrics) PageFailed(domain.Group, int, error) {
	m.PagesTotal.WithLabelValues(statusFailed).Inc()
}

// GroupSkipped counts a skipped group.
func (m *Metrics) GroupSkipped(domain.Group, error) {
	m.GroupsSkipped.Inc()
}

// SearchCompleted records one project search.
func (m *Metrics) SearchCompleted(_ domain.Project, matches int, elapsed time.Duration, err error) {
	m.SearchDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.SearchesTotal.WithLabelValues(statusFailed).Inc()
		return
	}
	m.SearchesTotal.WithLabelValues(statusOK).Inc()
	m.MatchesTotal.Add(float64(matches))
}

// WriteTextfile stamps the run time and writes every metric to path
// atomically.
func (m *Metrics) WriteTextfile(path string) error {
	m.LastRunFinished.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, m.registry)
}
