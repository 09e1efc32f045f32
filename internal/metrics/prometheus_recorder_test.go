package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("permalinks", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("permalinks", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.IncFilesProcessed("collections", 4)
	pr.IncFilesOutput(4)
	pr.IncIssue("frontmatter", "markdown", "warning")
	pr.ObserveWebmentionFetchDuration(20*time.Millisecond, true)
	pr.ObserveImageEncodeDuration("avif", 5*time.Millisecond)
	// Basic scrape to ensure metrics encode without panic
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}
