// Package schema maps messy tabular input onto the canonical record shape
// used by the analytics engine: Grade, Module, Component, Total, plus any
// number of extra columns that may carry demographic counts.
package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Canonical field names every dataset must resolve to.
const (
	FieldGrade     = "Grade"
	FieldModule    = "Module"
	FieldComponent = "Component"
	FieldTotal     = "Total"
)

// Table is a raw tabular source: ordered column names and string cells.
// Rows shorter than the header are padded with empty strings on read.
type Table struct {
	Columns []string
	Rows    [][]string
}

// fieldVariants lists, per canonical field, the accepted column-name
// variants in priority order. Matching is case-insensitive: first an exact
// match against a variant, then a substring match. Kept as a data table so
// the policy is testable without touching control flow.
var fieldVariants = []struct {
	field    string
	variants []string
}{
	{FieldGrade, []string{"grade", "level", "grade level", "gradelevel"}},
	{FieldModule, []string{"module", "entity", "entitydesc", "entity desc", "entity description", "lesson", "title", "content", "lesson title"}},
	{FieldComponent, []string{"component", "componentdesc", "component desc", "component description", "activity", "activity type"}},
	{FieldTotal, []string{"total", "total people", "people", "count", "sum", "total count"}},
}

// MappingError reports which canonical fields could not be resolved, which
// variants were searched for each, and what columns the input actually had,
// so a caller can fix the file without guessing.
type MappingError struct {
	Missing   []string
	Searched  map[string][]string
	Available []string
}

func (e *MappingError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "could not find required columns: %s", strings.Join(e.Missing, ", "))
	fmt.Fprintf(&b, "; available columns: %s", strings.Join(e.Available, ", "))
	missing := append([]string(nil), e.Missing...)
	sort.Strings(missing)
	for _, field := range missing {
		fmt.Fprintf(&b, "; %s: looked for columns like %s", field, strings.Join(e.Searched[field], ", "))
	}
	return b.String()
}

// Row is one record of the canonical table. Values holds every column that
// did not map to a canonical field, keyed by its original name.
type Row struct {
	Grade     string
	Module    string
	Component string
	Total     int
	Values    map[string]string
}

// Canonical is the normalized table: four canonical fields per row plus the
// remaining columns in their original order.
type Canonical struct {
	// Extra lists the non-canonical column names in input order. This order
	// drives demographic classification and matrix column order downstream.
	Extra []string
	Rows  []Row
}

// Normalize maps a raw table onto the canonical shape. Column matching runs
// in two passes: exact case-insensitive match against the variant lists,
// then substring match. The input table is never mutated. Unparseable Total
// cells become 0 rather than failing the load; negative totals clamp to 0.
func Normalize(t Table) (*Canonical, error) {
	lowered := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		lowered[i] = strings.ToLower(strings.TrimSpace(col))
	}

	mapped := map[string]int{} // canonical field -> column index
	claimed := map[int]bool{}

	// Pass 1: exact match.
	for _, fv := range fieldVariants {
		for _, variant := range fv.variants {
			idx := -1
			for i, low := range lowered {
				if !claimed[i] && low == variant {
					idx = i
					break
				}
			}
			if idx >= 0 {
				mapped[fv.field] = idx
				claimed[idx] = true
				break
			}
		}
	}

	// Pass 2: substring match for anything still unresolved.
	for _, fv := range fieldVariants {
		if _, ok := mapped[fv.field]; ok {
			continue
		}
		for i, low := range lowered {
			if claimed[i] {
				continue
			}
			if containsAny(low, fv.variants) {
				mapped[fv.field] = i
				claimed[i] = true
				break
			}
		}
	}

	var missing []string
	searched := map[string][]string{}
	for _, fv := range fieldVariants {
		if _, ok := mapped[fv.field]; !ok {
			missing = append(missing, fv.field)
			searched[fv.field] = fv.variants
		}
	}
	if len(missing) > 0 {
		return nil, &MappingError{
			Missing:   missing,
			Searched:  searched,
			Available: append([]string(nil), t.Columns...),
		}
	}

	var extra []string
	for i, col := range t.Columns {
		if !claimed[i] {
			extra = append(extra, col)
		}
	}

	gradeIdx := mapped[FieldGrade]
	moduleIdx := mapped[FieldModule]
	componentIdx := mapped[FieldComponent]
	totalIdx := mapped[FieldTotal]

	rows := make([]Row, 0, len(t.Rows))
	for _, raw := range t.Rows {
		row := Row{
			Grade:     cell(raw, gradeIdx),
			Module:    cell(raw, moduleIdx),
			Component: cell(raw, componentIdx),
			Total:     ParseCount(cell(raw, totalIdx)),
			Values:    make(map[string]string, len(extra)),
		}
		for i, col := range t.Columns {
			if !claimed[i] {
				row.Values[col] = cell(raw, i)
			}
		}
		rows = append(rows, row)
	}

	return &Canonical{Extra: extra, Rows: rows}, nil
}

// ParseCount coerces a cell to a non-negative integer count. Numeric text
// with a fractional part truncates; anything unparseable or negative is 0.
func ParseCount(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f)
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
