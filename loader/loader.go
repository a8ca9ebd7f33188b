// Package loader reads tabular sources (CSV or Excel workbooks) into the
// raw table shape the schema normalizer consumes.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"curriculum-equity-audit/schema"
)

// Load reads a tabular file into a raw Table, dispatching on the file
// extension. sheet selects the worksheet for Excel input; empty means the
// first sheet.
func Load(path string, sheet string) (schema.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".xlsx", ".xlsm":
		return loadExcel(path, sheet)
	default:
		return schema.Table{}, fmt.Errorf("unsupported input format: %s (want .csv, .xlsx, or .xlsm)", filepath.Ext(path))
	}
}

func loadCSV(path string) (schema.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return schema.Table{}, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return schema.Table{}, fmt.Errorf("unable to read header: %w", err)
	}

	table := schema.Table{Columns: headers}
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return schema.Table{}, fmt.Errorf("unable to read CSV: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		table.Rows = append(table.Rows, pad(record, len(headers)))
	}
	return table, nil
}

func loadExcel(path string, sheet string) (schema.Table, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return schema.Table{}, fmt.Errorf("unable to open workbook: %w", err)
	}
	defer file.Close()

	if sheet == "" {
		sheet = file.GetSheetName(0)
	}
	rows, err := file.GetRows(sheet)
	if err != nil {
		return schema.Table{}, fmt.Errorf("unable to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return schema.Table{}, fmt.Errorf("sheet %q is empty", sheet)
	}

	table := schema.Table{Columns: rows[0]}
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		table.Rows = append(table.Rows, pad(row, len(rows[0])))
	}
	return table, nil
}

// pad right-fills a short row with empty cells so every row spans the
// header width.
func pad(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
