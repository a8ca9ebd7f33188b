package engine

import (
	"math"
	"testing"
)

func TestDiversityEvenSplit(t *testing.T) {
	d := singleRowDataset(100, map[string]int{"AAM": 50, "HF": 50})

	metrics, ok := Diversity(Totals(d))
	if !ok {
		t.Fatal("expected diversity metrics")
	}
	if !floatEqual(metrics.SimpsonIndex, 0.5) {
		t.Fatalf("expected simpson 0.5, got %f", metrics.SimpsonIndex)
	}
	if !floatEqual(metrics.ShannonIndex, math.Log(2)) {
		t.Fatalf("expected shannon ln(2), got %f", metrics.ShannonIndex)
	}
	if !floatEqual(metrics.RepresentationBalance, 1) {
		t.Fatalf("expected balance 1 for an even split, got %f", metrics.RepresentationBalance)
	}
}

func TestDiversitySingleGroup(t *testing.T) {
	d := singleRowDataset(100, map[string]int{"AAM": 100})

	metrics, ok := Diversity(Totals(d))
	if !ok {
		t.Fatal("expected diversity metrics")
	}
	if !floatEqual(metrics.ShannonIndex, 0) {
		t.Fatalf("expected shannon 0 for one group, got %f", metrics.ShannonIndex)
	}
	if !floatEqual(metrics.SimpsonIndex, 0) {
		t.Fatalf("expected simpson 0 for one group, got %f", metrics.SimpsonIndex)
	}
}

func TestDiversityZeroCountGroup(t *testing.T) {
	d := singleRowDataset(100, map[string]int{"AAM": 100, "HF": 0})

	metrics, ok := Diversity(Totals(d))
	if !ok {
		t.Fatal("expected diversity metrics")
	}
	// p = {1, 0}: shannon skips zero proportions, simpson is 1 - 1 = 0.
	if !floatEqual(metrics.ShannonIndex, 0) || !floatEqual(metrics.SimpsonIndex, 0) {
		t.Fatalf("unexpected indices: %+v", metrics)
	}
	// Percentages 100 and 0: mean 50, stddev 50, CV 1, balance 0.5.
	if !floatEqual(metrics.RepresentationBalance, 0.5) {
		t.Fatalf("expected balance 0.5, got %f", metrics.RepresentationBalance)
	}
}

func TestDiversityUndefined(t *testing.T) {
	if _, ok := Diversity(Totals(singleRowDataset(0, map[string]int{"AAM": 0}))); ok {
		t.Fatal("expected undefined diversity for zero population")
	}
	if _, ok := Diversity(Totals(Dataset{})); ok {
		t.Fatal("expected undefined diversity for no groups")
	}
}
