package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "themebridge"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	translateDuration prom.Histogram
	translations      *prom.CounterVec
	navNodes          *prom.HistogramVec
	renderFailures    *prom.CounterVec
	searchEntries     prom.Counter
	stageDuration     *prom.HistogramVec
	stageResults      *prom.CounterVec
	buildDuration     prom.Histogram
	buildOutcome      *prom.CounterVec
	renderWorkers     prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil registry gets a fresh private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		translateDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "translate_duration_seconds",
			Help:      "Duration of a single context translation",
			Buckets:   prom.ExponentialBuckets(0.0001, 4, 8),
		}),
		translations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "translations_total",
			Help:      "Context translations by result",
		}, []string{"result"}),
		navNodes: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "nav_nodes",
			Help:      "Navigation nodes reconstructed per page",
			Buckets:   prom.ExponentialBuckets(1, 2, 10),
		}, []string{"scope"}),
		renderFailures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "render_failures_total",
			Help:      "Pages rendered as an in-page error block",
		}, []string{"template"}),
		searchEntries: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "search_entries_total",
			Help:      "Entries added to the search index",
		}),
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		renderWorkers: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "render_workers",
			Help:      "Page render concurrency of the last build",
		}),
	}
	reg.MustRegister(pr.translateDuration, pr.translations, pr.navNodes, pr.renderFailures,
		pr.searchEntries, pr.stageDuration, pr.stageResults, pr.buildDuration, pr.buildOutcome, pr.renderWorkers)
	return pr
}

func (p *PrometheusRecorder) ObserveTranslateDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.translateDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncTranslation(result ResultLabel) {
	if p == nil {
		return
	}
	p.translations.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveNavNodes(scope NavScope, n int) {
	if p == nil {
		return
	}
	p.navNodes.WithLabelValues(string(scope)).Observe(float64(n))
}

func (p *PrometheusRecorder) IncRenderFailure(template string) {
	if p == nil {
		return
	}
	p.renderFailures.WithLabelValues(template).Inc()
}

func (p *PrometheusRecorder) IncSearchEntries(n int) {
	if p == nil {
		return
	}
	p.searchEntries.Add(float64(n))
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetRenderWorkers(n int) {
	if p == nil {
		return
	}
	p.renderWorkers.Set(float64(n))
}
