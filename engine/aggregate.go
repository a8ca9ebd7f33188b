package engine

// Aggregate groups the dataset by the requested key and sums Total and
// every demographic count per group. Percentages are recomputed per group
// from that group's own summed total, never inherited from a wider scope.
// Groups appear in first-appearance order, so re-aggregating the same
// filtered dataset always reproduces the same rows.
func Aggregate(d Dataset, key GroupKey) []AggregateRow {
	buckets := map[string]*AggregateRow{}
	var order []string

	for _, rec := range d.Records {
		k := groupID(rec, key)
		row, ok := buckets[k]
		if !ok {
			row = &AggregateRow{
				Counts: make(map[string]int, len(d.Groups)),
				Groups: d.Groups,
			}
			switch key {
			case ByModule:
				row.Module = rec.Module
			case ByModuleGrade:
				row.Module = rec.Module
				row.Grade = rec.Grade
			case ByGrade:
				row.Grade = rec.Grade
			case ByComponent:
				row.Component = rec.Component
			}
			buckets[k] = row
			order = append(order, k)
		}
		row.TotalPeople += rec.Total
		for _, g := range d.Groups {
			row.Counts[g] += rec.Demographics[g]
		}
	}

	rows := make([]AggregateRow, 0, len(order))
	for _, k := range order {
		row := buckets[k]
		if row.TotalPeople > 0 {
			row.Percentages = make(map[string]float64, len(d.Groups))
			for _, g := range d.Groups {
				row.Percentages[g] = 100 * float64(row.Counts[g]) / float64(row.TotalPeople)
			}
		}
		rows = append(rows, *row)
	}
	return rows
}

// Totals collapses the whole dataset into a single AggregateRow, the input
// for dataset-wide gap, scorecard, and diversity computation.
func Totals(d Dataset) AggregateRow {
	row := AggregateRow{
		Counts: make(map[string]int, len(d.Groups)),
		Groups: d.Groups,
	}
	for _, rec := range d.Records {
		row.TotalPeople += rec.Total
		for _, g := range d.Groups {
			row.Counts[g] += rec.Demographics[g]
		}
	}
	if row.TotalPeople > 0 {
		row.Percentages = make(map[string]float64, len(d.Groups))
		for _, g := range d.Groups {
			row.Percentages[g] = 100 * float64(row.Counts[g]) / float64(row.TotalPeople)
		}
	}
	return row
}

func groupID(rec Record, key GroupKey) string {
	switch key {
	case ByModuleGrade:
		return rec.Module + "\x00" + rec.Grade
	case ByGrade:
		return rec.Grade
	case ByComponent:
		return rec.Component
	default:
		return rec.Module
	}
}
