package engine

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTarget is the final fallback target percentage for a demographic
// with no configured and no builtin target.
const DefaultTarget = 10.0

// builtinTargets maps common demographic names (full names and standard
// abbreviations, lowercased) to equity-driven default target percentages.
var builtinTargets = map[string]float64{
	// Gender representation (aim for balanced)
	"male":   50.0,
	"female": 50.0,

	"african american":        12.0,
	"african american male":   6.0,
	"african american female": 6.0,
	"aam":                     6.0,
	"aaf":                     6.0,

	"hispanic":        18.0,
	"hispanic male":   9.0,
	"hispanic female": 9.0,
	"hm":              9.0,
	"hf":              9.0,

	"asian":        6.0,
	"asian male":   3.0,
	"asian female": 3.0,
	"asm":          3.0,
	"asf":          3.0,

	"caucasian":        60.0,
	"caucasian male":   30.0,
	"caucasian female": 30.0,
	"pcm":              30.0,
	"pcf":              30.0,
	"white":            60.0,

	"native american":        1.0,
	"native american male":   0.5,
	"native american female": 0.5,
	"nam":                    0.5,
	"naf":                    0.5,

	"pacific islander":        0.5,
	"pacific islander male":   0.25,
	"pacific islander female": 0.25,
	"pim":                     0.25,
	"pif":                     0.25,

	"lgbt":   7.0,
	"lgbtf":  7.0,
	"lgbtq":  7.0,

	"legacy":        5.0,
	"legacy male":   2.5,
	"legacy female": 2.5,

	"physically challenged": 2.0,
	"pc_m":                  1.0,
	"pc_f":                  1.0,

	"other":        3.0,
	"other male":   1.5,
	"other female": 1.5,
	"other_m":      1.5,
	"other_f":      1.5,
}

// Targets resolves target percentages for demographic groups. Lookup order:
// configured value under the lowercased name, configured value under the
// original name, builtin default table, then DefaultTarget.
type Targets struct {
	custom map[string]float64
}

// NewTargets wraps explicitly configured targets. A nil map is valid and
// resolves everything through the builtin table.
func NewTargets(custom map[string]float64) Targets {
	return Targets{custom: custom}
}

// For resolves the target percentage for a demographic group.
func (t Targets) For(group string) float64 {
	if t.custom != nil {
		if v, ok := t.custom[strings.ToLower(group)]; ok {
			return v
		}
		if v, ok := t.custom[group]; ok {
			return v
		}
	}
	if v, ok := builtinTargets[strings.ToLower(strings.TrimSpace(group))]; ok {
		return v
	}
	return DefaultTarget
}

// LoadTargets reads a YAML file mapping demographic names to target
// percentages. Values outside [0,100] are rejected.
func LoadTargets(path string) (Targets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Targets{}, fmt.Errorf("read targets file: %w", err)
	}
	var raw map[string]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Targets{}, fmt.Errorf("parse targets file: %w", err)
	}
	for name, pct := range raw {
		if pct < 0 || pct > 100 {
			return Targets{}, fmt.Errorf("target for %q out of range: %.2f (want 0-100)", name, pct)
		}
	}
	return NewTargets(raw), nil
}
