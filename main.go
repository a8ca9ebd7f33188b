package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"curriculum-equity-audit/engine"
	"curriculum-equity-audit/export"
	"curriculum-equity-audit/loader"
	"curriculum-equity-audit/render"
	"curriculum-equity-audit/schema"
	"curriculum-equity-audit/store"
)

const defaultTopN = 10

func main() {
	inputPath := flag.String("input", "", "Path to curriculum data (.csv, .xlsx, or .xlsm)")
	sheet := flag.String("sheet", "", "Worksheet name for Excel input; default first sheet")
	targetsPath := flag.String("targets", "", "Optional YAML file with target percentages per demographic")
	grades := flag.String("grade", "", "Comma-separated grade filter")
	modules := flag.String("module", "", "Comma-separated module filter")
	components := flag.String("component", "", "Comma-separated component filter")
	groupBy := flag.String("group-by", "module", "Aggregation dimension (module, module_grade, grade, component)")
	topN := flag.Int("top", defaultTopN, "Top N gap records to show")
	jsonOut := flag.String("json", "", "Optional JSON output path")
	gapsOut := flag.String("gaps-csv", "", "Optional CSV output for gap records")
	excelOut := flag.String("excel", "", "Optional Excel workbook output path")
	heatmapOut := flag.String("heatmap", "", "Optional heatmap PNG output path")
	dbEnabled := flag.Bool("db", false, "Store report in Postgres (requires EQUITY_AUDIT_DB_URL or DATABASE_URL)")
	dbSchema := flag.String("db-schema", "equity_audit", "Postgres schema for audit tables")
	dbTag := flag.String("db-tag", "", "Optional label for this audit run")
	initDB := flag.Bool("init-db", false, "Initialize database schema and seed data if empty")
	flag.Parse()

	if *inputPath == "" {
		exitWithError(errors.New("--input is required"))
	}

	groupKey, err := parseGroupKey(*groupBy)
	if err != nil {
		exitWithError(err)
	}

	targets := engine.NewTargets(nil)
	if *targetsPath != "" {
		targets, err = engine.LoadTargets(*targetsPath)
		if err != nil {
			exitWithError(fmt.Errorf("invalid --targets file: %w", err))
		}
	}

	table, err := loader.Load(*inputPath, *sheet)
	if err != nil {
		exitWithError(err)
	}

	canonical, err := schema.Normalize(table)
	if err != nil {
		exitWithError(err)
	}

	groups := schema.DemographicColumns(canonical.Extra)
	dataset := engine.NewDataset(canonical, groups)

	filters := engine.Filters{
		Grades:     splitList(*grades),
		Modules:    splitList(*modules),
		Components: splitList(*components),
	}
	if !filters.IsEmpty() {
		dataset = dataset.Filter(filters)
	}

	report := engine.BuildReport(dataset, groupKey, targets)

	printReport(report, *inputPath, *topN)

	if *jsonOut != "" {
		if err := writeJSON(report, *jsonOut); err != nil {
			exitWithError(err)
		}
		fmt.Printf("\nJSON report saved to %s\n", *jsonOut)
	}

	if *gapsOut != "" {
		if err := writeGapsCSV(report, *gapsOut); err != nil {
			exitWithError(err)
		}
		fmt.Printf("Gap CSV saved to %s\n", *gapsOut)
	}

	if *excelOut != "" {
		if err := export.Excel(report, *excelOut); err != nil {
			exitWithError(err)
		}
		fmt.Printf("Excel workbook saved to %s\n", *excelOut)
	}

	if *heatmapOut != "" {
		if report.Heatmap == nil {
			exitWithError(errors.New("no heatmap to render; dataset is empty or has no demographic columns"))
		}
		if err := render.Heatmap(report.Heatmap, *heatmapOut); err != nil {
			exitWithError(err)
		}
		fmt.Printf("Heatmap saved to %s\n", *heatmapOut)
	}

	if *dbEnabled || *initDB {
		dbURL := store.URLFromEnv()
		if dbURL == "" {
			exitWithError(errors.New("database URL missing; set EQUITY_AUDIT_DB_URL or DATABASE_URL"))
		}
		cfg := store.Config{
			URL:    dbURL,
			Schema: *dbSchema,
			Tag:    *dbTag,
			Source: filepath.Base(*inputPath),
		}
		seeded := false
		if *initDB {
			runID, err := store.Seed(report, cfg)
			if err != nil {
				exitWithError(err)
			}
			if runID != "" {
				seeded = true
				fmt.Printf("\nSeeded Postgres with initial audit run (run_id=%s)\n", runID)
			} else {
				fmt.Println("\nAudit data already present; skipping seed.")
			}
		}
		if *dbEnabled {
			if seeded {
				fmt.Println("Skipped duplicate insert; current report already used for seed.")
			} else {
				runID, err := store.Store(report, cfg)
				if err != nil {
					exitWithError(err)
				}
				fmt.Printf("\nStored audit run in Postgres (run_id=%s)\n", runID)
			}
		}
	}
}

func parseGroupKey(value string) (engine.GroupKey, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "module", "":
		return engine.ByModule, nil
	case "module_grade", "module-grade":
		return engine.ByModuleGrade, nil
	case "grade":
		return engine.ByGrade, nil
	case "component":
		return engine.ByComponent, nil
	default:
		return engine.ByModule, fmt.Errorf("invalid --group-by value: %s", value)
	}
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func printReport(report engine.Report, inputPath string, topN int) {
	fmt.Println("Curriculum Equity Audit")
	fmt.Println(strings.Repeat("=", 38))
	fmt.Printf("Input: %s\n", filepath.Base(inputPath))
	fmt.Printf("Rows: %d | People: %d | Demographic columns: %d\n",
		report.Summary.TotalRows, report.Summary.TotalPeople, report.Summary.DemographicColumns)

	if report.NoData {
		fmt.Println("\nNo data matched; nothing to analyze.")
		return
	}

	fmt.Printf("Grades: %d | Modules: %d | Components: %d\n",
		report.Summary.UniqueGrades, report.Summary.UniqueModules, report.Summary.UniqueComponents)
	fmt.Printf("People per row avg/median: %.1f / %.1f\n",
		report.Summary.AvgPeoplePerRow, report.Summary.MedianPeoplePerRow)
	fmt.Printf("Overall equity score: %.1f / 100\n", report.Scorecard.OverallScore)
	if report.Diversity != nil {
		fmt.Printf("Diversity: shannon %.3f | simpson %.3f | balance %.3f\n",
			report.Diversity.ShannonIndex, report.Diversity.SimpsonIndex, report.Diversity.RepresentationBalance)
	}

	if len(report.Warnings) > 0 {
		fmt.Println("\nData warnings")
		fmt.Println(strings.Repeat("-", 38))
		for _, issue := range report.Warnings {
			fmt.Println(issue.Message)
		}
	}

	fmt.Println("\nRepresentation gaps")
	fmt.Println(strings.Repeat("-", 38))
	if len(report.Gaps) == 0 {
		fmt.Println("No demographic columns found.")
	} else {
		gaps := report.Gaps
		if topN > 0 && len(gaps) > topN {
			gaps = gaps[:topN]
		}
		for _, entry := range gaps {
			fmt.Printf("%s | actual %.1f%% (%d people) | target %.1f%% | gap %+.1f%% | %s\n",
				entry.Demographic,
				entry.ActualPct,
				entry.ActualCount,
				entry.TargetPct,
				entry.Gap,
				entry.Status,
			)
		}
	}

	if len(report.Scorecard.Recommendations) > 0 {
		fmt.Println("\nRecommendations")
		fmt.Println(strings.Repeat("-", 38))
		for _, rec := range report.Scorecard.Recommendations {
			fmt.Println(rec)
		}
	}

	if len(report.ModuleGaps) > 0 {
		fmt.Println("\nModule gap analysis")
		fmt.Println(strings.Repeat("-", 38))
		moduleGaps := report.ModuleGaps
		if topN > 0 && len(moduleGaps) > topN {
			moduleGaps = moduleGaps[:topN]
		}
		for _, entry := range moduleGaps {
			risk := ""
			if entry.HighRisk {
				risk = " | HIGH RISK"
			}
			fmt.Printf("%s | people %d | over %s | under %s | range %.1f%%%s\n",
				entry.Module,
				entry.TotalPeople,
				entry.LargestOverrep,
				entry.LargestUnderrep,
				entry.GapRange,
				risk,
			)
		}
	}

	if len(report.Aggregates) > 0 {
		fmt.Println("\nGroup summary")
		fmt.Println(strings.Repeat("-", 38))
		for _, row := range report.Aggregates {
			fmt.Printf("%s | people %d\n", aggregateLabel(row), row.TotalPeople)
		}
	}
}

func aggregateLabel(row engine.AggregateRow) string {
	parts := make([]string, 0, 3)
	if row.Module != "" {
		parts = append(parts, row.Module)
	}
	if row.Grade != "" {
		parts = append(parts, row.Grade)
	}
	if row.Component != "" {
		parts = append(parts, row.Component)
	}
	if len(parts) == 0 {
		return "(blank)"
	}
	return strings.Join(parts, " / ")
}

func writeJSON(report engine.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func writeGapsCSV(report engine.Report, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{
		"demographic",
		"actual_count",
		"actual_pct",
		"target_pct",
		"gap",
		"status",
	}); err != nil {
		return err
	}

	records := append([]engine.GapRecord{}, report.Gaps...)
	sort.SliceStable(records, func(i, j int) bool { return records[i].Gap < records[j].Gap })
	for _, entry := range records {
		record := []string{
			entry.Demographic,
			fmt.Sprintf("%d", entry.ActualCount),
			fmt.Sprintf("%.4f", entry.ActualPct),
			fmt.Sprintf("%.4f", entry.TargetPct),
			fmt.Sprintf("%.4f", entry.Gap),
			string(entry.Status),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
