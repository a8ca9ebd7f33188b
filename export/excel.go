// Package export writes an audit report as a multi-sheet Excel workbook.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"curriculum-equity-audit/engine"
)

const (
	summarySheet    = "Summary"
	gapSheet        = "Gap Analysis"
	moduleGapsSheet = "Module Gaps"
)

// Excel writes the report to path as an .xlsx workbook with a summary
// sheet, a gap analysis sheet, and a per-module gap sheet.
func Excel(report engine.Report, path string) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), summarySheet); err != nil {
		return err
	}
	if err := writeSummary(file, report); err != nil {
		return err
	}
	if err := writeGaps(file, report.Gaps); err != nil {
		return err
	}
	if err := writeModuleGaps(file, report.ModuleGaps); err != nil {
		return err
	}
	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("unable to save workbook: %w", err)
	}
	return nil
}

func writeSummary(file *excelize.File, report engine.Report) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Rows", report.Summary.TotalRows},
		{"Total People", report.Summary.TotalPeople},
		{"Unique Grades", report.Summary.UniqueGrades},
		{"Unique Modules", report.Summary.UniqueModules},
		{"Unique Components", report.Summary.UniqueComponents},
		{"Demographic Columns", report.Summary.DemographicColumns},
		{"Avg People Per Row", report.Summary.AvgPeoplePerRow},
		{"Median People Per Row", report.Summary.MedianPeoplePerRow},
		{"Overall Equity Score", report.Scorecard.OverallScore},
		{"Data Warnings", len(report.Warnings)},
	}
	if report.Diversity != nil {
		rows = append(rows,
			[]interface{}{"Shannon Index", report.Diversity.ShannonIndex},
			[]interface{}{"Simpson Index", report.Diversity.SimpsonIndex},
			[]interface{}{"Representation Balance", report.Diversity.RepresentationBalance},
		)
	}
	if err := writeRows(file, summarySheet, rows); err != nil {
		return err
	}

	if len(report.Scorecard.Recommendations) == 0 {
		return nil
	}
	start := len(rows) + 2
	cell, err := excelize.CoordinatesToCellName(1, start)
	if err != nil {
		return err
	}
	if err := file.SetCellValue(summarySheet, cell, "Recommendations"); err != nil {
		return err
	}
	for i, rec := range report.Scorecard.Recommendations {
		cell, err := excelize.CoordinatesToCellName(1, start+1+i)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(summarySheet, cell, rec); err != nil {
			return err
		}
	}
	return nil
}

func writeGaps(file *excelize.File, gaps []engine.GapRecord) error {
	if _, err := file.NewSheet(gapSheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Demographic", "Actual Count", "Actual %", "Target %", "Gap", "Status"},
	}
	for _, g := range gaps {
		rows = append(rows, []interface{}{
			g.Demographic, g.ActualCount, g.ActualPct, g.TargetPct, g.Gap, string(g.Status),
		})
	}
	return writeRows(file, gapSheet, rows)
}

func writeModuleGaps(file *excelize.File, analysis []engine.ModuleGaps) error {
	if _, err := file.NewSheet(moduleGapsSheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Module", "Total People", "Largest Overrepresentation", "Largest Underrepresentation", "Gap Range", "High Risk"},
	}
	for _, m := range analysis {
		rows = append(rows, []interface{}{
			m.Module, m.TotalPeople, m.LargestOverrep, m.LargestUnderrep, m.GapRange, m.HighRisk,
		})
	}
	return writeRows(file, moduleGapsSheet, rows)
}

func writeRows(file *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}
