package classify

import (
	"strings"
	"testing"

	"shopscrub/internal/config"
	"shopscrub/internal/core"
)

func testConfig() *config.Config {
	return &config.Config{
		SOP: config.SOPRules{DefaultCategory: "Allgemein"},
		Keywords: map[string]config.CategoryKeywords{
			"Brushes": {
				Primary:    []string{"pinsel", "brush"},
				Secondary:  []string{"borsten"},
				Attributes: []string{"flach", "rund"},
			},
			"Paint": {
				Primary:    []string{"farbe", "acryl"},
				Secondary:  []string{"pigment"},
				Attributes: []string{"matt"},
			},
		},
		CollectionAliases: map[string]string{"malzubehoer": "Brushes"},
		InferenceMap:      map[string]string{"reispapier": "Reispapier"},
	}
}

func TestClassifyViaAlias(t *testing.T) {
	rec := core.Record{Handle: "h", Title: "Irgendein Produkt", Collections: "Malzubehoer, Sale"}
	issues := Classify(&rec, testConfig(), 2)
	if rec.Category != "Brushes" {
		t.Errorf("category = %q, want Brushes", rec.Category)
	}
	if len(issues) != 1 || !strings.Contains(issues[0].Reason, "collection alias") {
		t.Errorf("expected one alias issue, got %+v", issues)
	}
}

func TestClassifyViaScoring(t *testing.T) {
	rec := core.Record{
		Handle:   "brush-01",
		Title:    "PINSEL SET 6 TEILIG",
		BodyHTML: "<p>Flache und runde Borsten</p>",
	}
	issues := Classify(&rec, testConfig(), 2)
	if rec.Category != "Brushes" {
		t.Fatalf("category = %q, want Brushes", rec.Category)
	}
	// pinsel(3) + borsten(2) + flach(1) + rund(1) = 7 -> HIGH
	found := false
	for _, is := range issues {
		if strings.Contains(is.Reason, "HIGH confidence: 7 points") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected HIGH confidence reason, got %+v", issues)
	}
}

func TestClassifyTieBreaksInDictionaryOrder(t *testing.T) {
	cfg := testConfig()
	// Both categories score identically for this text.
	cfg.Keywords = map[string]config.CategoryKeywords{
		"Paint":   {Primary: []string{"kreativ"}},
		"Brushes": {Primary: []string{"kreativ"}},
	}
	rec := core.Record{Handle: "h", Title: "kreativ"}
	Classify(&rec, cfg, 2)
	if rec.Category != "Brushes" {
		t.Errorf("tie should keep first category in sorted order, got %q", rec.Category)
	}
}

func TestClassifyBelowThresholdFallsThrough(t *testing.T) {
	cfg := testConfig()
	rec := core.Record{Handle: "h", Title: "nur matt"} // attribute only, score 1
	Classify(&rec, cfg, 2)
	if rec.Category != "Allgemein" {
		t.Errorf("score below threshold should fall to default, got %q", rec.Category)
	}
}

func TestClassifyViaInferenceMap(t *testing.T) {
	rec := core.Record{Handle: "h", Title: "Reispapier Vintage Rosen"}
	issues := Classify(&rec, testConfig(), 2)
	if rec.Category != "Reispapier" {
		t.Errorf("category = %q, want Reispapier", rec.Category)
	}
	found := false
	for _, is := range issues {
		if is.Reason == "Smart category inference (LOW confidence: 1 points)" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected inference issue, got %+v", issues)
	}
}

func TestClassifyDefaultsWhenNothingMatches(t *testing.T) {
	rec := core.Record{Handle: "h", Title: "xyz"}
	issues := Classify(&rec, testConfig(), 2)
	if rec.Category != "Allgemein" {
		t.Errorf("category = %q, want default", rec.Category)
	}
	if len(issues) != 1 || issues[0].Reason != "Default category assigned" {
		t.Errorf("expected default issue, got %+v", issues)
	}
}

func TestClassifyReevaluatesFilledCategory(t *testing.T) {
	rec := core.Record{Handle: "h", Title: "Pinsel mit Borsten", Category: "Old"}
	Classify(&rec, testConfig(), 2)
	if rec.Category != "Brushes" {
		t.Errorf("filled category should be re-evaluated, got %q", rec.Category)
	}
}
