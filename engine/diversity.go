package engine

import "math"

// Diversity computes Shannon and Simpson diversity indices and the
// representation-balance coefficient from one aggregate row. The boolean is
// false when the row has no population or no demographic groups, in which
// case the indices are undefined rather than zero.
//
// Shannon and Simpson use proportions of the summed total; balance uses the
// same percentages as every other table, so results reconcile exactly
// across views.
func Diversity(row AggregateRow) (DiversityMetrics, bool) {
	if row.ZeroPopulation() || len(row.Groups) == 0 {
		return DiversityMetrics{}, false
	}

	var (
		simpsonSum float64
		shannon    float64
	)
	for _, g := range row.Groups {
		p := float64(row.Counts[g]) / float64(row.TotalPeople)
		simpsonSum += p * p
		if p > 0 {
			shannon -= p * math.Log(p)
		}
	}

	percentages := make([]float64, 0, len(row.Groups))
	for _, g := range row.Groups {
		percentages = append(percentages, row.Percentages[g])
	}

	return DiversityMetrics{
		ShannonIndex:          shannon,
		SimpsonIndex:          1 - simpsonSum,
		RepresentationBalance: balance(percentages),
	}, true
}

// balance is 1/(1+CV) where CV is the population coefficient of variation
// of the percentage spread. A zero mean is treated as CV = 0, so the
// balance of an all-zero spread is 1.
func balance(percentages []float64) float64 {
	if len(percentages) == 0 {
		return 1
	}
	var mean float64
	for _, p := range percentages {
		mean += p
	}
	mean /= float64(len(percentages))

	var variance float64
	for _, p := range percentages {
		variance += (p - mean) * (p - mean)
	}
	variance /= float64(len(percentages))

	cv := 0.0
	if mean > 0 {
		cv = math.Sqrt(variance) / mean
	}
	return 1 / (1 + cv)
}
