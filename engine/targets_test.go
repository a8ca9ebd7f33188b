package engine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTargetsLookupOrder(t *testing.T) {
	custom := NewTargets(map[string]float64{"aam": 25, "Caucasian Male": 40})

	if got := custom.For("AAM"); !floatEqual(got, 25) {
		t.Fatalf("expected lowercased custom target 25, got %f", got)
	}
	if got := custom.For("Caucasian Male"); !floatEqual(got, 40) {
		t.Fatalf("expected original-name custom target 40, got %f", got)
	}
	if got := custom.For("HF"); !floatEqual(got, 9) {
		t.Fatalf("expected builtin target 9 for HF, got %f", got)
	}
	if got := custom.For("Zorble"); !floatEqual(got, DefaultTarget) {
		t.Fatalf("expected default target, got %f", got)
	}
}

func TestTargetsBuiltins(t *testing.T) {
	targets := NewTargets(nil)
	cases := map[string]float64{
		"Male":             50,
		"african american": 12,
		"NAM":              0.5,
		"lgbtq":            7,
		"Other_F":          1.5,
	}
	for group, want := range cases {
		if got := targets.For(group); !floatEqual(got, want) {
			t.Fatalf("For(%q) = %f, want %f", group, got, want)
		}
	}
}

func TestLoadTargets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.yaml")
	data := "aam: 15\nhf: 20.5\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write targets: %v", err)
	}

	targets, err := LoadTargets(path)
	if err != nil {
		t.Fatalf("load targets: %v", err)
	}
	if got := targets.For("AAM"); !floatEqual(got, 15) {
		t.Fatalf("expected loaded target 15, got %f", got)
	}
	if got := targets.For("HF"); !floatEqual(got, 20.5) {
		t.Fatalf("expected loaded target 20.5, got %f", got)
	}
}

func TestLoadTargetsRejectsOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.yaml")
	if err := os.WriteFile(path, []byte("aam: 120\n"), 0644); err != nil {
		t.Fatalf("write targets: %v", err)
	}
	if _, err := LoadTargets(path); err == nil {
		t.Fatal("expected error for out-of-range target")
	}

	if _, err := LoadTargets(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
