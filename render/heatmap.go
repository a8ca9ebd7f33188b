// Package render draws the gap matrix as a PNG heatmap.
package render

import (
	"fmt"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"curriculum-equity-audit/engine"
)

// Color scale bounds, in percentage points of gap. Pinning the scale keeps
// renders of different datasets comparable.
const (
	gapScaleMin = -50
	gapScaleMax = 50
)

// gapGrid adapts a Heatmap to gonum's grid interface. Plot rows grow
// upward, so row 0 of the grid is the last module; the Y labels are
// reversed to match.
type gapGrid struct {
	hm *engine.Heatmap
}

func (g gapGrid) Dims() (int, int) { return len(g.hm.Columns), len(g.hm.Modules) }
func (g gapGrid) X(c int) float64  { return float64(c) }
func (g gapGrid) Y(r int) float64  { return float64(r) }
func (g gapGrid) Z(c, r int) float64 {
	return g.hm.Gaps[len(g.hm.Modules)-1-r][c]
}

// Heatmap renders the gap matrix to path as a PNG. Cell color encodes the
// gap on a fixed -50..+50 scale; axis labels carry abbreviated demographic
// names and module names.
func Heatmap(hm *engine.Heatmap, path string) error {
	if hm == nil || len(hm.Modules) == 0 {
		return fmt.Errorf("%w", engine.ErrNoData)
	}

	p := plot.New()
	p.Title.Text = "Representation Gap by Module"
	p.X.Label.Text = "Demographic"
	p.Y.Label.Text = "Module"

	heat := plotter.NewHeatMap(gapGrid{hm: hm}, palette.Heat(12, 1))
	heat.Min = gapScaleMin
	heat.Max = gapScaleMax
	p.Add(heat)

	cols := make([]string, len(hm.Columns))
	for i, c := range hm.Columns {
		cols[i] = Abbreviate(c)
	}
	p.NominalX(cols...)

	modules := make([]string, len(hm.Modules))
	for i := range hm.Modules {
		modules[i] = hm.Modules[len(hm.Modules)-1-i]
	}
	p.NominalY(modules...)

	width := vg.Length(1+len(hm.Columns)) * vg.Inch
	height := vg.Length(1+len(hm.Modules)/2) * vg.Inch
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("unable to save heatmap: %w", err)
	}
	return nil
}

// Abbreviate shortens a demographic column name for axis labels. Known
// group families get a fixed short code; anything else keeps its first four
// characters uppercased.
func Abbreviate(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "african"):
		return withSexSuffix(lower, "AA")
	case strings.Contains(lower, "hispanic"):
		return withSexSuffix(lower, "H")
	case strings.Contains(lower, "asian"):
		return withSexSuffix(lower, "AS")
	case strings.Contains(lower, "caucasian"), strings.Contains(lower, "white"):
		return withSexSuffix(lower, "C")
	case strings.Contains(lower, "native"):
		return withSexSuffix(lower, "NA")
	case strings.Contains(lower, "pacific"):
		return withSexSuffix(lower, "PI")
	case strings.Contains(lower, "lgbt"):
		return "LGBT"
	case strings.Contains(lower, "legacy"):
		return withSexSuffix(lower, "LEG")
	case strings.Contains(lower, "physically"), strings.Contains(lower, "challenged"):
		return withSexSuffix(lower, "PC")
	case strings.Contains(lower, "other"):
		return withSexSuffix(lower, "OTHER")
	case strings.Contains(lower, "female"):
		return "F"
	case strings.Contains(lower, "male"):
		return "M"
	}
	short := strings.ToUpper(name)
	if len(short) > 4 {
		short = short[:4]
	}
	return short
}

func withSexSuffix(lower, code string) string {
	if strings.Contains(lower, "female") {
		return code + "-F"
	}
	if strings.Contains(lower, "male") {
		return code + "-M"
	}
	return code
}
