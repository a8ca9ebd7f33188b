package schema

import "strings"

// exclusionPatterns disqualify a column from demographic classification no
// matter what else its name contains. Exclusion always wins over inclusion.
var exclusionPatterns = []string{
	"total", "grade", "entity", "module", "component", "desc", "description",
	"id", "name", "date", "time", "page", "folio", "number", "count",
	"row", "index", "file", "path", "url", "link", "reference",
	"score", "rating", "level", "category", "type", "status",
}

// demographicPatterns is the whitelist of tokens that mark a column as a
// demographic count. Standard abbreviations first, full names after.
var demographicPatterns = []string{
	// Standard abbreviations
	"aam", "aaf", "pcm", "pcf", "lgbtf", "other_m", "other_f",
	"asm", "asf", "hm", "hf", "nam", "naf", "pim", "pif",
	"legacy_m", "legacy_f", "pc_m", "pc_f",

	// Full names
	"african american male", "african american female", "african american",
	"asian male", "asian female", "asian",
	"caucasian male", "caucasian female", "caucasian", "white",
	"hispanic male", "hispanic female", "hispanic", "latino", "latina",
	"native american male", "native american female", "native american",
	"pacific islander male", "pacific islander female", "pacific islander",
	"lgbt", "lgbtq", "lgbt female", "lgbt male",
	"legacy", "legacy male", "legacy female",
	"physically challenged", "physically challenged male", "physically challenged female",
	"other", "other male", "other female",
	"male", "female",
}

// DemographicColumns returns the subset of columns whose names mark them as
// demographic counts. Classification is a pure function of the column name:
// a column is excluded if it contains any exclusion pattern, otherwise
// included if it contains any whitelist pattern. Input order is preserved.
func DemographicColumns(columns []string) []string {
	var result []string
	for _, col := range columns {
		if IsDemographic(col) {
			result = append(result, col)
		}
	}
	return result
}

// IsDemographic classifies a single column name.
func IsDemographic(column string) bool {
	low := strings.ToLower(strings.TrimSpace(column))
	if containsAny(low, exclusionPatterns) {
		return false
	}
	return containsAny(low, demographicPatterns)
}
