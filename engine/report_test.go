package engine

import "testing"

func TestBuildReportFull(t *testing.T) {
	report := BuildReport(sampleDataset(), ByModule, NewTargets(nil))

	if report.NoData {
		t.Fatal("expected data in report")
	}
	if len(report.Aggregates) != 2 {
		t.Fatalf("expected 2 aggregate rows, got %d", len(report.Aggregates))
	}
	if len(report.Gaps) != 2 {
		t.Fatalf("expected 2 gap records, got %d", len(report.Gaps))
	}
	if report.Diversity == nil {
		t.Fatal("expected diversity metrics")
	}
	if report.Heatmap == nil {
		t.Fatal("expected a heatmap")
	}
	if len(report.ModuleGaps) != 2 {
		t.Fatalf("expected 2 module gap entries, got %d", len(report.ModuleGaps))
	}
	if report.Scorecard.OverallScore <= 0 || report.Scorecard.OverallScore > 100 {
		t.Fatalf("overall score out of range: %f", report.Scorecard.OverallScore)
	}
}

func TestBuildReportNoData(t *testing.T) {
	report := BuildReport(Dataset{Groups: []string{"AAM"}}, ByModule, NewTargets(nil))
	if !report.NoData {
		t.Fatal("expected NoData for an empty dataset")
	}
	if report.Aggregates != nil || report.Gaps != nil || report.Heatmap != nil || report.Diversity != nil {
		t.Fatalf("expected no derived tables, got %+v", report)
	}
	if report.Summary.DemographicColumns != 1 {
		t.Fatalf("expected summary still populated, got %+v", report.Summary)
	}
}
