package engine

import (
	"errors"
	"fmt"
)

// ErrNoData marks an empty-but-valid heatmap input: an empty dataset, an
// empty demographic list, or a dataset carrying none of the requested
// groups. Callers distinguish it from a computation failure with errors.Is.
var ErrNoData = errors.New("no data for heatmap")

// Heatmap is the modules × demographics gap matrix with a parallel text
// matrix. Gaps[i][j] and Text[i][j] always describe the same
// (Modules[i], Columns[j]) pair; any reordering of one without the other is
// a defect.
type Heatmap struct {
	Modules []string    `json:"modules"`
	Columns []string    `json:"columns"`
	Gaps    [][]float64 `json:"gaps"`
	Text    [][]string  `json:"text"`
}

// BuildHeatmap builds the gap matrix for a (usually pre-filtered) dataset.
// Rows are modules in first-appearance order, zero-population modules
// excluded. Columns are the supplied demographic list in unchanged order. A
// demographic absent from the dataset counts as zero actual, so its gap is
// the full negative target.
func BuildHeatmap(d Dataset, groups []string, targets Targets) (*Heatmap, error) {
	if d.Empty() {
		return nil, fmt.Errorf("%w: dataset is empty", ErrNoData)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: no demographic columns", ErrNoData)
	}
	present := false
	for _, g := range groups {
		if d.HasGroup(g) {
			present = true
			break
		}
	}
	if !present {
		return nil, fmt.Errorf("%w: none of the requested demographics are in the dataset", ErrNoData)
	}

	hm := &Heatmap{Columns: append([]string(nil), groups...)}
	for _, row := range Aggregate(d, ByModule) {
		if row.ZeroPopulation() {
			continue
		}
		gaps := make([]float64, len(groups))
		text := make([]string, len(groups))
		for j, g := range groups {
			count := row.Counts[g]
			actual := 0.0
			if d.HasGroup(g) {
				actual = row.Percentages[g]
			}
			target := targets.For(g)
			gap := actual - target
			gaps[j] = gap
			text[j] = fmt.Sprintf(
				"Module: %s | Demographic: %s | Actual: %.1f%% (%d people) | Target: %.1f%% | Gap: %+.1f%% | Total People: %d",
				row.Module, g, actual, count, target, gap, row.TotalPeople)
		}
		hm.Modules = append(hm.Modules, row.Module)
		hm.Gaps = append(hm.Gaps, gaps)
		hm.Text = append(hm.Text, text)
	}
	if len(hm.Modules) == 0 {
		return nil, fmt.Errorf("%w: every module has zero population", ErrNoData)
	}
	return hm, nil
}
