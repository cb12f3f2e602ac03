package metrics

import "time"

// ResultLabel enumerates result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// BuildOutcomeLabel is the final status of a build.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomeWarning  BuildOutcomeLabel = "warning"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// NavScope distinguishes the two navigation requests made per page.
type NavScope string

const (
	NavPrimary NavScope = "primary"
	NavAll     NavScope = "all"
)

// Recorder defines observability hooks for translation, rendering and build metrics.
// Implementations may forward to Prometheus or any other backend.
type Recorder interface {
	ObserveTranslateDuration(d time.Duration)
	IncTranslation(result ResultLabel)
	ObserveNavNodes(scope NavScope, n int)
	IncRenderFailure(template string)
	IncSearchEntries(n int)
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	SetRenderWorkers(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveTranslateDuration(time.Duration)     {}
func (NoopRecorder) IncTranslation(ResultLabel)                 {}
func (NoopRecorder) ObserveNavNodes(NavScope, int)              {}
func (NoopRecorder) IncRenderFailure(string)                    {}
func (NoopRecorder) IncSearchEntries(int)                       {}
func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)          {}
func (NoopRecorder) SetRenderWorkers(int)                       {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
