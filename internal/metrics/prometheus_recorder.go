package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	stageDuration   *prom.HistogramVec
	buildDuration   prom.Histogram
	stageResults    *prom.CounterVec
	buildOutcome    *prom.CounterVec
	filesProcessed  *prom.CounterVec
	filesOutput     prom.Counter
	issues          *prom.CounterVec
	webmentionFetch *prom.HistogramVec
	imageEncode     *prom.HistogramVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "janos",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "janos",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "janos",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "janos",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.filesProcessed = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "janos",
			Name:      "files_processed_total",
			Help:      "Files touched by a stage",
		}, []string{"stage"})
		pr.filesOutput = prom.NewCounter(prom.CounterOpts{
			Namespace: "janos",
			Name:      "files_output_total",
			Help:      "Files emitted by the final build",
		})
		pr.issues = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "janos",
			Name:      "issues_total",
			Help:      "Warnings and errors recorded during a build, by stage and severity",
		}, []string{"kind", "stage", "severity"})
		pr.webmentionFetch = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "janos",
			Name:      "webmention_fetch_duration_seconds",
			Help:      "Duration of webmention endpoint fetches",
			Buckets:   prom.DefBuckets,
		}, []string{"result"})
		pr.imageEncode = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "janos",
			Name:      "image_encode_duration_seconds",
			Help:      "Duration of responsive-image variant encodes",
			Buckets:   prom.DefBuckets,
		}, []string{"format"})
		reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
			pr.filesProcessed, pr.filesOutput, pr.issues, pr.webmentionFetch, pr.imageEncode)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncFilesProcessed(stage string, n int) {
	if p == nil || p.filesProcessed == nil {
		return
	}
	p.filesProcessed.WithLabelValues(stage).Add(float64(n))
}

func (p *PrometheusRecorder) IncFilesOutput(n int) {
	if p == nil || p.filesOutput == nil {
		return
	}
	p.filesOutput.Add(float64(n))
}

func (p *PrometheusRecorder) IncIssue(kind, stage, severity string) {
	if p == nil || p.issues == nil {
		return
	}
	p.issues.WithLabelValues(kind, stage, severity).Inc()
}

func (p *PrometheusRecorder) ObserveWebmentionFetchDuration(d time.Duration, success bool) {
	if p == nil || p.webmentionFetch == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.webmentionFetch.WithLabelValues(res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveImageEncodeDuration(format string, d time.Duration) {
	if p == nil || p.imageEncode == nil {
		return
	}
	p.imageEncode.WithLabelValues(format).Observe(d.Seconds())
}
