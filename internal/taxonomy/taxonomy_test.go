package taxonomy

import (
	"strings"
	"testing"

	"shopscrub/internal/config"
	"shopscrub/internal/core"
)

func testConfig() *config.Config {
	return &config.Config{
		TaxonomyMap: map[string]string{
			"Brushes": pathBrushes,
		},
	}
}

func TestApplyDirectMapping(t *testing.T) {
	rec := core.Record{Handle: "b-01", Title: "Pinsel Set", Category: "Brushes"}
	issues := Apply(&rec, testConfig(), 2)
	if rec.GoogleCategory != pathBrushes {
		t.Errorf("google category = %q", rec.GoogleCategory)
	}
	// The internal category is synced to the mapped path.
	if rec.Category != pathBrushes {
		t.Errorf("category should follow the mapped path, got %q", rec.Category)
	}
	mapped := false
	for _, is := range issues {
		if strings.Contains(is.Reason, "google_taxonomy_map") {
			mapped = true
		}
	}
	if !mapped {
		t.Errorf("expected mapping issue, got %+v", issues)
	}
}

func TestApplyTitleFallback(t *testing.T) {
	cases := map[string]string{
		"Aufgabenheft A5 liniert": pathNotebooks,
		"Bleistift HB 12er":       pathPencils,
		"Flachpinsel 20mm":        pathBrushes,
		"Acrylfarbe blau":         pathPaint,
		"Reispapier A4":           pathCraftPap,
		"Rost Effekt Paste":       pathPaint,
	}
	for title, want := range cases {
		rec := core.Record{Handle: "x", Title: title, Category: "Unmapped"}
		Apply(&rec, testConfig(), 2)
		if rec.GoogleCategory != want {
			t.Errorf("title %q mapped to %q, want %q", title, rec.GoogleCategory, want)
		}
	}
}

func TestApplyFallbackOrder(t *testing.T) {
	// "Heftschoner" also contains "heft"; the sheet protector rule comes
	// first and must win.
	rec := core.Record{Handle: "x", Title: "Heftschoner A4 transparent", Category: "Schule"}
	Apply(&rec, testConfig(), 2)
	if rec.GoogleCategory != pathSheetProt {
		t.Errorf("google category = %q, want sheet protectors", rec.GoogleCategory)
	}
}

func TestApplyWarnsWhenUnmapped(t *testing.T) {
	rec := core.Record{Handle: "x", Title: "Völlig unbekanntes Objekt", Category: "Sonstiges"}
	issues := Apply(&rec, testConfig(), 2)
	if rec.GoogleCategory != "" {
		t.Errorf("unmapped record should stay empty, got %q", rec.GoogleCategory)
	}
	warned := false
	for _, is := range issues {
		if is.Severity == core.SeverityWarn && strings.Contains(is.Reason, "Missing google category") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("expected missing-category warning, got %+v", issues)
	}
}

func TestApplySkipsFilledGoogleCategory(t *testing.T) {
	rec := core.Record{Handle: "x", Title: "Flachpinsel", Category: "Brushes",
		GoogleCategory: "Already > Set", GoogleCondition: "new"}
	issues := Apply(&rec, testConfig(), 2)
	if rec.GoogleCategory != "Already > Set" {
		t.Errorf("filled google category must not be overwritten, got %q", rec.GoogleCategory)
	}
	if len(issues) != 0 {
		t.Errorf("no issues expected, got %+v", issues)
	}
}

func TestApplySetsCondition(t *testing.T) {
	rec := core.Record{Handle: "x", Title: "Flachpinsel", Category: "Brushes", GoogleCondition: "used"}
	issues := Apply(&rec, testConfig(), 2)
	if rec.GoogleCondition != "new" {
		t.Errorf("condition = %q, want new", rec.GoogleCondition)
	}
	set := false
	for _, is := range issues {
		if is.Field == core.FieldGoogleCondition && is.Severity == core.SeverityInfo {
			set = true
		}
	}
	if !set {
		t.Errorf("expected condition issue, got %+v", issues)
	}
}
