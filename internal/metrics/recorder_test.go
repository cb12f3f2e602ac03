package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOrNoop(t *testing.T) {
	require.IsType(t, NoopRecorder{}, OrNoop(nil))

	pr := NewPrometheusRecorder(nil)
	require.Same(t, pr, OrNoop(pr))
}

func TestNoopRecorder_SatisfiesRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveTranslateDuration(time.Millisecond)
	r.IncBuildOutcome(BuildOutcomeFailed)
}
