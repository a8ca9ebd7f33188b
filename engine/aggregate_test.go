package engine

import (
	"reflect"
	"testing"
)

func sampleDataset() Dataset {
	return Dataset{
		Groups: []string{"AAM", "HF"},
		Records: []Record{
			{Grade: "Gr. 4", Module: "Fractions", Component: "Worksheet", Total: 100, Demographics: map[string]int{"AAM": 30, "HF": 10}},
			{Grade: "Gr. 5", Module: "Fractions", Component: "Quiz", Total: 50, Demographics: map[string]int{"AAM": 10, "HF": 5}},
			{Grade: "Gr. 4", Module: "Decimals", Component: "Worksheet", Total: 50, Demographics: map[string]int{"AAM": 0, "HF": 25}},
		},
	}
}

func TestAggregateByModule(t *testing.T) {
	rows := Aggregate(sampleDataset(), ByModule)
	if len(rows) != 2 {
		t.Fatalf("expected 2 module rows, got %d", len(rows))
	}
	if rows[0].Module != "Fractions" || rows[1].Module != "Decimals" {
		t.Fatalf("expected first-appearance order, got %s then %s", rows[0].Module, rows[1].Module)
	}
	if rows[0].TotalPeople != 150 {
		t.Fatalf("expected 150 people in Fractions, got %d", rows[0].TotalPeople)
	}
	if rows[0].Counts["AAM"] != 40 {
		t.Fatalf("expected AAM count 40, got %d", rows[0].Counts["AAM"])
	}
	if !floatEqual(rows[0].Percentages["AAM"], 100.0*40/150) {
		t.Fatalf("unexpected AAM percentage: %f", rows[0].Percentages["AAM"])
	}
	if !floatEqual(rows[1].Percentages["HF"], 50) {
		t.Fatalf("unexpected HF percentage in Decimals: %f", rows[1].Percentages["HF"])
	}
}

func TestAggregateByModuleGrade(t *testing.T) {
	rows := Aggregate(sampleDataset(), ByModuleGrade)
	if len(rows) != 3 {
		t.Fatalf("expected 3 module/grade rows, got %d", len(rows))
	}
	if rows[0].Module != "Fractions" || rows[0].Grade != "Gr. 4" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Module != "Fractions" || rows[1].Grade != "Gr. 5" {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

func TestAggregateZeroPopulation(t *testing.T) {
	d := Dataset{
		Groups: []string{"AAM"},
		Records: []Record{
			{Module: "Empty", Total: 0, Demographics: map[string]int{"AAM": 0}},
		},
	}
	rows := Aggregate(d, ByModule)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Percentages != nil {
		t.Fatalf("expected nil percentages for zero population, got %v", rows[0].Percentages)
	}
	if !rows[0].ZeroPopulation() {
		t.Fatal("expected zero population row")
	}
}

func TestAggregateIdempotent(t *testing.T) {
	d := sampleDataset()
	first := Aggregate(d, ByModule)
	second := Aggregate(d, ByModule)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("aggregation not idempotent: %v vs %v", first, second)
	}
}

func TestTotals(t *testing.T) {
	row := Totals(sampleDataset())
	if row.TotalPeople != 200 {
		t.Fatalf("expected 200 people, got %d", row.TotalPeople)
	}
	if row.Counts["AAM"] != 40 || row.Counts["HF"] != 40 {
		t.Fatalf("unexpected counts: %v", row.Counts)
	}
	if !floatEqual(row.Percentages["AAM"], 20) {
		t.Fatalf("expected AAM 20%%, got %f", row.Percentages["AAM"])
	}
}

func TestFilterCombinations(t *testing.T) {
	d := sampleDataset()

	byGrade := d.Filter(Filters{Grades: []string{"Gr. 4"}})
	if len(byGrade.Records) != 2 {
		t.Fatalf("expected 2 records for Gr. 4, got %d", len(byGrade.Records))
	}

	orWithin := d.Filter(Filters{Grades: []string{"Gr. 4", "Gr. 5"}})
	if len(orWithin.Records) != 3 {
		t.Fatalf("expected values within a field OR-combined, got %d records", len(orWithin.Records))
	}

	andAcross := d.Filter(Filters{Grades: []string{"Gr. 4"}, Modules: []string{"Fractions"}})
	if len(andAcross.Records) != 1 {
		t.Fatalf("expected fields AND-combined, got %d records", len(andAcross.Records))
	}

	if got := d.Filter(Filters{}); len(got.Records) != 3 {
		t.Fatalf("expected empty filter to pass everything, got %d records", len(got.Records))
	}
	if len(d.Records) != 3 {
		t.Fatal("filter mutated the receiver")
	}
}

func TestUniqueValues(t *testing.T) {
	d := sampleDataset()
	grades := d.UniqueValues(func(r Record) string { return r.Grade })
	want := []string{"Gr. 4", "Gr. 5"}
	if !reflect.DeepEqual(grades, want) {
		t.Fatalf("expected %v, got %v", want, grades)
	}
}
