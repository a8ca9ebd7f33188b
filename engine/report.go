package engine

// Report bundles every derived view of one (possibly filtered) dataset.
// It is recomputed in full whenever the filters or targets change; the raw
// dataset stays the only source of truth.
type Report struct {
	Summary    SummaryStats       `json:"summary"`
	Warnings   []AttributionIssue `json:"warnings,omitempty"`
	Aggregates []AggregateRow     `json:"aggregates"`
	Gaps       []GapRecord        `json:"gaps"`
	Scorecard  Scorecard          `json:"scorecard"`
	ModuleGaps []ModuleGaps       `json:"module_gaps"`
	Diversity  *DiversityMetrics  `json:"diversity,omitempty"`
	Heatmap    *Heatmap           `json:"heatmap,omitempty"`
	NoData     bool               `json:"no_data"`
}

// BuildReport runs the full analytics pipeline over one dataset snapshot.
// An empty dataset (for instance after filtering) produces a report with
// NoData set instead of an error, so callers can tell "nothing matched"
// from "computation failed".
func BuildReport(d Dataset, key GroupKey, targets Targets) Report {
	rep := Report{
		Summary:  Summarize(d),
		Warnings: CheckAttribution(d),
	}
	if d.Empty() {
		rep.NoData = true
		return rep
	}

	rep.Aggregates = Aggregate(d, key)

	totals := Totals(d)
	rep.Gaps = Gaps(totals, targets)
	rep.Scorecard = BuildScorecard(totals, targets)
	rep.ModuleGaps = ModuleGapAnalysis(d, targets)

	if metrics, ok := Diversity(totals); ok {
		rep.Diversity = &metrics
	}
	if hm, err := BuildHeatmap(d, d.Groups, targets); err == nil {
		rep.Heatmap = hm
	}
	return rep
}
