package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRecordingCycleCountsOutcomesSeparately(t *testing.T) {
	encodeBefore := testutil.ToFloat64(recordingCycles.WithLabelValues("encode_failed"))
	emptyBefore := testutil.ToFloat64(recordingCycles.WithLabelValues("empty_capture"))

	ObserveRecordingCycle("encode_failed")

	if got := testutil.ToFloat64(recordingCycles.WithLabelValues("encode_failed")); got != encodeBefore+1 {
		t.Fatalf("encode_failed count = %v, want %v", got, encodeBefore+1)
	}
	if got := testutil.ToFloat64(recordingCycles.WithLabelValues("empty_capture")); got != emptyBefore {
		t.Fatalf("empty_capture count moved to %v on an encode failure", got)
	}
}
