// Package engine computes aggregated demographic tables, representation
// gaps, equity scores, diversity indices, and the heatmap gap matrix from a
// normalized dataset. Every exported operation is a pure function of its
// inputs: nothing here retains state between calls, so a Dataset snapshot
// may be shared by concurrent readers.
package engine

import (
	"curriculum-equity-audit/schema"
)

// Record is one normalized input row.
type Record struct {
	Grade        string         `json:"grade"`
	Module       string         `json:"module"`
	Component    string         `json:"component"`
	Total        int            `json:"total"`
	Demographics map[string]int `json:"demographics"`
}

// Dataset is an ordered, immutable collection of Records. Groups lists the
// demographic column names in classifier order; that order is preserved in
// every derived table and matrix.
type Dataset struct {
	Records []Record `json:"records"`
	Groups  []string `json:"groups"`
}

// NewDataset builds a Dataset from a canonical table and the demographic
// column set chosen by the classifier. Count coercion happens here, once:
// unparseable or negative cells become 0.
func NewDataset(c *schema.Canonical, groups []string) Dataset {
	records := make([]Record, 0, len(c.Rows))
	for _, row := range c.Rows {
		rec := Record{
			Grade:        row.Grade,
			Module:       row.Module,
			Component:    row.Component,
			Total:        row.Total,
			Demographics: make(map[string]int, len(groups)),
		}
		for _, g := range groups {
			rec.Demographics[g] = schema.ParseCount(row.Values[g])
		}
		records = append(records, rec)
	}
	return Dataset{Records: records, Groups: append([]string(nil), groups...)}
}

// Empty reports whether the dataset has no records.
func (d Dataset) Empty() bool { return len(d.Records) == 0 }

// HasGroup reports whether a demographic group is present in the dataset.
func (d Dataset) HasGroup(name string) bool {
	for _, g := range d.Groups {
		if g == name {
			return true
		}
	}
	return false
}

// GroupKey selects the grouping dimension for aggregation.
type GroupKey int

const (
	ByModule GroupKey = iota
	ByModuleGrade
	ByGrade
	ByComponent
)

// AggregateRow is a sum over one group: total people plus per-demographic
// counts and percentages. Percentages is nil when TotalPeople is 0, so a
// caller can tell "no population" from "population present, zero share".
type AggregateRow struct {
	Module      string             `json:"module,omitempty"`
	Grade       string             `json:"grade,omitempty"`
	Component   string             `json:"component,omitempty"`
	TotalPeople int                `json:"total_people"`
	Counts      map[string]int     `json:"counts"`
	Percentages map[string]float64 `json:"percentages,omitempty"`
	Groups      []string           `json:"-"`
}

// ZeroPopulation reports whether the group summed to no people at all.
func (r AggregateRow) ZeroPopulation() bool { return r.TotalPeople == 0 }

// GapStatus classifies a gap relative to the on-target band.
type GapStatus string

const (
	StatusOver     GapStatus = "over"
	StatusUnder    GapStatus = "under"
	StatusOnTarget GapStatus = "on_target"
)

// OnTargetBand is the absolute gap, in percentage points, still considered
// on target.
const OnTargetBand = 2.0

// GapRecord compares actual against target representation for one group.
type GapRecord struct {
	Demographic string    `json:"demographic"`
	ActualCount int       `json:"actual_count"`
	ActualPct   float64   `json:"actual_pct"`
	TargetPct   float64   `json:"target_pct"`
	Gap         float64   `json:"gap"`
	Status      GapStatus `json:"status"`
}

// DemographicScore is one entry of the equity scorecard.
type DemographicScore struct {
	Score     float64 `json:"score"`
	ActualPct float64 `json:"actual_pct"`
	TargetPct float64 `json:"target_pct"`
	Gap       float64 `json:"gap"`
}

// Scorecard summarizes target alignment across all demographics.
type Scorecard struct {
	OverallScore    float64                     `json:"overall_score"`
	Demographics    map[string]DemographicScore `json:"demographic_scores"`
	Recommendations []string                    `json:"recommendations"`
}

// ModuleGaps reports, for one module, its most over- and under-represented
// demographic and the spread between them.
type ModuleGaps struct {
	Module          string  `json:"module"`
	TotalPeople     int     `json:"total_people"`
	LargestOverrep  string  `json:"largest_overrep"`
	LargestUnderrep string  `json:"largest_underrep"`
	GapRange        float64 `json:"gap_range"`
	HighRisk        bool    `json:"high_risk"`
}

// DiversityMetrics holds the standard diversity measures for one counts
// vector.
type DiversityMetrics struct {
	ShannonIndex          float64 `json:"shannon_index"`
	SimpsonIndex          float64 `json:"simpson_index"`
	RepresentationBalance float64 `json:"representation_balance"`
}
