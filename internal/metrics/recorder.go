package metrics

import "time"

// BuildOutcomeLabel is used for build outcome metrics dimensions.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomeWarning  BuildOutcomeLabel = "warning"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for pipeline and stage metrics. Implementations
// may forward to Prometheus, OpenTelemetry, etc. All methods must be safe for nil receivers
// when using NoopRecorder (allowing optional injection).
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	IncFilesProcessed(stage string, n int)
	IncFilesOutput(n int)
	IncIssue(kind string, stage string, severity string)
	ObserveWebmentionFetchDuration(d time.Duration, success bool)
	ObserveImageEncodeDuration(format string, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)       {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)               {}
func (NoopRecorder) IncStageResult(string, ResultLabel)               {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)                {}
func (NoopRecorder) IncFilesProcessed(string, int)                    {}
func (NoopRecorder) IncFilesOutput(int)                               {}
func (NoopRecorder) IncIssue(string, string, string)                  {}
func (NoopRecorder) ObserveWebmentionFetchDuration(time.Duration, bool) {}
func (NoopRecorder) ObserveImageEncodeDuration(string, time.Duration) {}
