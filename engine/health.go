package engine

import (
	"fmt"
	"math"
	"sort"
)

// AttributionIssue flags a record whose demographic counts do not reconcile
// with its total. Advisory only: analysis never blocks on these.
type AttributionIssue struct {
	Row             int    `json:"row"`
	Kind            string `json:"kind"` // "over_attribution" or "under_attribution"
	Total           int    `json:"total"`
	DemographicSum  int    `json:"demographic_sum"`
	Message         string `json:"message"`
}

// underAttributionShare is the fraction of a record's total that may stay
// unassigned to any demographic before a warning is raised.
const underAttributionShare = 0.10

// CheckAttribution scans every record for demographic sums exceeding the
// total (over-attribution) or leaving more than 10% of the total unassigned
// (under-attribution). Rows are 1-based to match the source file.
func CheckAttribution(d Dataset) []AttributionIssue {
	var issues []AttributionIssue
	for i, rec := range d.Records {
		if rec.Total <= 0 {
			continue
		}
		sum := 0
		for _, g := range d.Groups {
			sum += rec.Demographics[g]
		}
		switch {
		case sum > rec.Total:
			issues = append(issues, AttributionIssue{
				Row:            i + 1,
				Kind:           "over_attribution",
				Total:          rec.Total,
				DemographicSum: sum,
				Message:        fmt.Sprintf("row %d: demographic sum (%d) exceeds total (%d)", i+1, sum, rec.Total),
			})
		case float64(rec.Total-sum) > float64(rec.Total)*underAttributionShare:
			unassigned := rec.Total - sum
			issues = append(issues, AttributionIssue{
				Row:            i + 1,
				Kind:           "under_attribution",
				Total:          rec.Total,
				DemographicSum: sum,
				Message: fmt.Sprintf("row %d: %d people unassigned (%.1f%%)",
					i+1, unassigned, 100*float64(unassigned)/float64(rec.Total)),
			})
		}
	}
	return issues
}

// SummaryStats describes the shape of a dataset.
type SummaryStats struct {
	TotalRows          int     `json:"total_rows"`
	TotalPeople        int     `json:"total_people"`
	UniqueGrades       int     `json:"unique_grades"`
	UniqueModules      int     `json:"unique_modules"`
	UniqueComponents   int     `json:"unique_components"`
	DemographicColumns int     `json:"demographic_columns"`
	AvgPeoplePerRow    float64 `json:"avg_people_per_row"`
	MedianPeoplePerRow float64 `json:"median_people_per_row"`
}

// Summarize computes dataset-level summary statistics.
func Summarize(d Dataset) SummaryStats {
	stats := SummaryStats{
		TotalRows:          len(d.Records),
		DemographicColumns: len(d.Groups),
	}
	if d.Empty() {
		return stats
	}

	totals := make([]int, 0, len(d.Records))
	for _, rec := range d.Records {
		stats.TotalPeople += rec.Total
		totals = append(totals, rec.Total)
	}
	stats.UniqueGrades = len(d.UniqueValues(func(r Record) string { return r.Grade }))
	stats.UniqueModules = len(d.UniqueValues(func(r Record) string { return r.Module }))
	stats.UniqueComponents = len(d.UniqueValues(func(r Record) string { return r.Component }))

	avg, median := summarizeCounts(totals)
	stats.AvgPeoplePerRow = avg
	stats.MedianPeoplePerRow = median
	return stats
}

func summarizeCounts(values []int) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sorted := append([]int{}, values...)
	sort.Ints(sorted)
	sum := 0
	for _, v := range sorted {
		sum += v
	}
	avg := float64(sum) / float64(len(sorted))
	mid := len(sorted) / 2
	median := float64(sorted[mid])
	if len(sorted)%2 == 0 {
		median = float64(sorted[mid-1]+sorted[mid]) / 2
	}
	return round1(avg), round1(median)
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
