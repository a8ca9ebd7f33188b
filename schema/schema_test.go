package schema

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeExactVariants(t *testing.T) {
	table := Table{
		Columns: []string{"Grade Level", "Entity Desc", "Component Desc", "Total Count", "AAM"},
		Rows: [][]string{
			{"Gr. 4", "Fractions", "Worksheet", "120", "12"},
		},
	}

	canonical, err := Normalize(table)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(canonical.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(canonical.Rows))
	}
	row := canonical.Rows[0]
	if row.Grade != "Gr. 4" || row.Module != "Fractions" || row.Component != "Worksheet" {
		t.Fatalf("unexpected canonical row: %+v", row)
	}
	if row.Total != 120 {
		t.Fatalf("expected total 120, got %d", row.Total)
	}
	if len(canonical.Extra) != 1 || canonical.Extra[0] != "AAM" {
		t.Fatalf("expected extra [AAM], got %v", canonical.Extra)
	}
	if row.Values["AAM"] != "12" {
		t.Fatalf("expected AAM cell preserved, got %q", row.Values["AAM"])
	}
}

func TestNormalizeSubstringFallback(t *testing.T) {
	table := Table{
		Columns: []string{"Grade", "Lesson Title (2024)", "Main Activity", "Overall Total", "HF"},
		Rows: [][]string{
			{"Gr. 5", "Decimals", "Quiz", "60", "6"},
		},
	}

	canonical, err := Normalize(table)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	row := canonical.Rows[0]
	if row.Module != "Decimals" {
		t.Fatalf("expected lesson column mapped to module, got %+v", row)
	}
	if row.Component != "Quiz" {
		t.Fatalf("expected activity column mapped to component, got %+v", row)
	}
	if row.Total != 60 {
		t.Fatalf("expected total 60, got %d", row.Total)
	}
	if len(canonical.Extra) != 1 || canonical.Extra[0] != "HF" {
		t.Fatalf("expected extra [HF], got %v", canonical.Extra)
	}
}

func TestNormalizeMissingColumns(t *testing.T) {
	table := Table{Columns: []string{"Foo", "Bar"}}

	_, err := Normalize(table)
	if err == nil {
		t.Fatal("expected mapping error")
	}
	var mapErr *MappingError
	if !errors.As(err, &mapErr) {
		t.Fatalf("expected *MappingError, got %T", err)
	}
	if len(mapErr.Missing) != 4 {
		t.Fatalf("expected 4 missing fields, got %v", mapErr.Missing)
	}
	msg := mapErr.Error()
	for _, want := range []string{"Grade", "Module", "Component", "Total", "Foo", "Bar", "looked for columns like"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error message missing %q: %s", want, msg)
		}
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	table := Table{
		Columns: []string{"Grade", "Module", "Component", "Total", "AAM"},
		Rows: [][]string{
			{" Gr. 4 ", "Fractions", "Worksheet", "100", "10"},
		},
	}

	if _, err := Normalize(table); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if table.Rows[0][0] != " Gr. 4 " {
		t.Fatalf("input cell mutated: %q", table.Rows[0][0])
	}
}

func TestNormalizeShortRows(t *testing.T) {
	table := Table{
		Columns: []string{"Grade", "Module", "Component", "Total", "AAM"},
		Rows: [][]string{
			{"Gr. 4", "Fractions"},
		},
	}

	canonical, err := Normalize(table)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	row := canonical.Rows[0]
	if row.Total != 0 || row.Component != "" || row.Values["AAM"] != "" {
		t.Fatalf("expected empty cells for short row, got %+v", row)
	}
}

func TestParseCount(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"42", 42},
		{" 42 ", 42},
		{"1,234", 1234},
		{"17.9", 17},
		{"-5", 0},
		{"abc", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := ParseCount(tc.in); got != tc.want {
			t.Fatalf("ParseCount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
