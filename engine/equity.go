package engine

import (
	"fmt"
	"math"
	"sort"
)

// recommendationThreshold is the absolute gap, in percentage points, above
// which a demographic earns an advisory recommendation.
const recommendationThreshold = 10.0

// highRiskGapRange flags modules whose gap spread exceeds this many points.
const highRiskGapRange = 30.0

// Gaps compares one aggregate row against the targets, producing a gap
// record per demographic sorted by gap ascending (worst under-representation
// first). A zero-population row yields nil.
func Gaps(row AggregateRow, targets Targets) []GapRecord {
	if row.ZeroPopulation() {
		return nil
	}
	records := make([]GapRecord, 0, len(row.Groups))
	for _, g := range row.Groups {
		actual := row.Percentages[g]
		target := targets.For(g)
		gap := actual - target
		records = append(records, GapRecord{
			Demographic: g,
			ActualCount: row.Counts[g],
			ActualPct:   actual,
			TargetPct:   target,
			Gap:         gap,
			Status:      statusFor(gap),
		})
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Gap < records[j].Gap })
	return records
}

func statusFor(gap float64) GapStatus {
	if math.Abs(gap) <= OnTargetBand {
		return StatusOnTarget
	}
	if gap > 0 {
		return StatusOver
	}
	return StatusUnder
}

// BuildScorecard scores each demographic's target alignment on a 0-100
// scale (5 points lost per percentage point of absolute gap, floored at 0)
// and averages them into an overall score. Demographics more than 10 points
// off target get an advisory recommendation.
func BuildScorecard(row AggregateRow, targets Targets) Scorecard {
	card := Scorecard{Demographics: map[string]DemographicScore{}}
	if row.ZeroPopulation() {
		return card
	}

	var sum float64
	for _, g := range row.Groups {
		actual := row.Percentages[g]
		target := targets.For(g)
		gap := actual - target
		score := math.Max(0, 100-5*math.Abs(gap))
		card.Demographics[g] = DemographicScore{
			Score:     score,
			ActualPct: actual,
			TargetPct: target,
			Gap:       gap,
		}
		sum += score

		if math.Abs(gap) > recommendationThreshold {
			if actual < target {
				card.Recommendations = append(card.Recommendations,
					fmt.Sprintf("Increase %s representation by %.1f percentage points", g, target-actual))
			} else {
				card.Recommendations = append(card.Recommendations,
					fmt.Sprintf("Consider balancing %s representation (currently %.1f%% above target)", g, actual-target))
			}
		}
	}
	if len(row.Groups) > 0 {
		card.OverallScore = sum / float64(len(row.Groups))
	}
	return card
}

// ModuleGapAnalysis computes, per module, the full set of per-demographic
// gaps and reports only the single most over- and under-represented group
// plus the spread between them. Modules are ranked by gap range descending;
// a spread above 30 points marks the module high risk. Zero-population
// modules are skipped.
func ModuleGapAnalysis(d Dataset, targets Targets) []ModuleGaps {
	if len(d.Groups) == 0 {
		return nil
	}
	var analysis []ModuleGaps
	for _, row := range Aggregate(d, ByModule) {
		if row.ZeroPopulation() {
			continue
		}
		var (
			maxGap, minGap     float64
			maxGroup, minGroup string
			first              = true
		)
		for _, g := range row.Groups {
			gap := row.Percentages[g] - targets.For(g)
			if first || gap > maxGap {
				maxGap, maxGroup = gap, g
			}
			if first || gap < minGap {
				minGap, minGroup = gap, g
			}
			first = false
		}
		analysis = append(analysis, ModuleGaps{
			Module:          row.Module,
			TotalPeople:     row.TotalPeople,
			LargestOverrep:  fmt.Sprintf("%s: %+.1f%%", maxGroup, maxGap),
			LargestUnderrep: fmt.Sprintf("%s: %+.1f%%", minGroup, minGap),
			GapRange:        maxGap - minGap,
			HighRisk:        maxGap-minGap > highRiskGapRange,
		})
	}
	sort.SliceStable(analysis, func(i, j int) bool { return analysis[i].GapRange > analysis[j].GapRange })
	return analysis
}
