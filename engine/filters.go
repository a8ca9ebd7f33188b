package engine

// Filters restricts a dataset by equality on the canonical string fields.
// Values within one field are OR-combined; fields are AND-combined. An
// empty list means no restriction on that field.
type Filters struct {
	Grades     []string `json:"grades,omitempty"`
	Modules    []string `json:"modules,omitempty"`
	Components []string `json:"components,omitempty"`
}

// IsEmpty reports whether no restriction is set.
func (f Filters) IsEmpty() bool {
	return len(f.Grades) == 0 && len(f.Modules) == 0 && len(f.Components) == 0
}

// Filter returns a new Dataset containing the records matching all set
// filters. The receiver is never mutated; the result shares the group list.
func (d Dataset) Filter(f Filters) Dataset {
	if f.IsEmpty() {
		return d
	}
	grades := toSet(f.Grades)
	modules := toSet(f.Modules)
	components := toSet(f.Components)

	matched := make([]Record, 0, len(d.Records))
	for _, rec := range d.Records {
		if grades != nil && !grades[rec.Grade] {
			continue
		}
		if modules != nil && !modules[rec.Module] {
			continue
		}
		if components != nil && !components[rec.Component] {
			continue
		}
		matched = append(matched, rec)
	}
	return Dataset{Records: matched, Groups: d.Groups}
}

// UniqueValues returns the distinct non-empty values of one canonical field
// in first-appearance order.
func (d Dataset) UniqueValues(field func(Record) string) []string {
	seen := map[string]bool{}
	var values []string
	for _, rec := range d.Records {
		v := field(rec)
		if v != "" && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	return values
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
