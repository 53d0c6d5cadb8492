package seo

import (
	"strings"
	"testing"
	"unicode/utf8"

	"shopscrub/internal/config"
	"shopscrub/internal/core"
)

func testConfig() *config.Config {
	return &config.Config{
		SOP: config.SOPRules{
			GenericSEODesc: "Hochwertige Produkte für kreative Projekte und Bastelarbeiten.",
		},
		BannedTerms: config.BannedTerms{
			CaseInsensitive: true,
			Terms:           map[string]string{"billig": "preiswert"},
		},
		Keywords:          map[string]config.CategoryKeywords{},
		CollectionAliases: map[string]string{},
		CollectionSEO:     map[string]string{},
	}
}

func TestBuildDescriptionWithinBand(t *testing.T) {
	rec := core.Record{Handle: "lack-01"}
	title := "Acryl Lack Metallic Blau Matt Glanz für Holz Karton und Stoff"
	res := Build("", "", title, "", testConfig(), &rec)
	n := utf8.RuneCountInString(res.Description)
	if n < core.SEODescMin || n > core.SEODescMax {
		t.Errorf("description length = %d, want [%d,%d]: %q", n, core.SEODescMin, core.SEODescMax, res.Description)
	}
	if !strings.Contains(res.Description, title) {
		t.Error("description should mention the title")
	}
}

func TestBuildUsesQualitiesWhenPresent(t *testing.T) {
	rec := core.Record{Handle: "p-01", Vendor: "Pentart", Type: "Acrylmalerei", Tags: "pinsel,acryl"}
	res := Build("", "", "Hochwertiger Flachpinsel", "", testConfig(), &rec)
	if !strings.Contains(res.Description, "überzeugt durch") {
		t.Errorf("adjective qualities should drive the second sentence: %q", res.Description)
	}
	if n := utf8.RuneCountInString(res.Description); n > core.SEODescMax {
		t.Errorf("description exceeds max: %d", n)
	}
}

func TestBuildAllEmptyFallbackContract(t *testing.T) {
	// The all-empty record has no usable signal; the builder must still
	// return a fixed deterministic string.
	want := "Hochwertige Produkte für kreative Projekte und Bastelarbeiten. Entdecken Sie das hochwertige Produkt '' für kreative Projekte und professionelle Anwendungen."
	rec := core.Record{}
	first := Build("", "", "", "", testConfig(), &rec)
	second := Build("", "", "", "", testConfig(), &rec)
	if first.Description != want {
		t.Errorf("fallback description = %q", first.Description)
	}
	if first.Description != second.Description {
		t.Error("fallback must be deterministic")
	}
	if n := utf8.RuneCountInString(first.Description); n != 157 {
		t.Errorf("fallback length = %d, want 157", n)
	}
}

func TestBuildTitleStripsBrandSuffix(t *testing.T) {
	res := Build("", "", "Pinsel Set | bastelschachtel", "", testConfig(), &core.Record{})
	if res.Title != "Pinsel Set" {
		t.Errorf("title = %q, want brand suffix stripped", res.Title)
	}

	// Reverting when only the brand remains.
	res = Build("", "", "Bastelschachtel | bastelschachtel", "", testConfig(), &core.Record{})
	if res.Title != "Bastelschachtel | bastelschachtel" {
		t.Errorf("title = %q, want original kept", res.Title)
	}
}

func TestBuildTitleTruncates(t *testing.T) {
	long := strings.Repeat("Acrylfarbe ", 10)
	res := Build("", "", long, "", testConfig(), &core.Record{})
	if n := utf8.RuneCountInString(res.Title); n > core.SEOTitleMax {
		t.Errorf("SEO title length = %d, want <= %d", n, core.SEOTitleMax)
	}
}

func TestFoundationalSentencePrefersCollectionSEO(t *testing.T) {
	cfg := testConfig()
	cfg.CollectionAliases["pinsel"] = "Brushes"
	cfg.CollectionSEO["pinsel"] = "Pinsel für jede Technik und jedes Projekt."
	if got := foundationalSentence("Brushes", cfg); got != "Pinsel für jede Technik und jedes Projekt." {
		t.Errorf("foundationalSentence = %q", got)
	}
	if got := foundationalSentence("Paint", cfg); got != cfg.SOP.GenericSEODesc {
		t.Errorf("unknown category should use the generic sentence, got %q", got)
	}
}

func TestExtractQualities(t *testing.T) {
	cfg := testConfig()
	cfg.Keywords["Brushes"] = config.CategoryKeywords{Attributes: []string{"flach"}}
	got := ExtractQualities("Hochwertiger flacher Pinsel", "", cfg)
	if len(got) == 0 || len(got) > 3 {
		t.Fatalf("qualities = %v", got)
	}
	joined := strings.Join(got, " ")
	if !strings.Contains(joined, "hochwertiger") {
		t.Errorf("adjective missing from qualities: %v", got)
	}
	if !strings.Contains(joined, "flach") {
		t.Errorf("dictionary keyword missing from qualities: %v", got)
	}
}

func TestExtractQualitiesSkipsStopwords(t *testing.T) {
	got := ExtractQualities("eine neue Packung mit verschiedene Farben", "", testConfig())
	for _, q := range got {
		if qualityStopwords[q] {
			t.Errorf("stopword %q leaked into qualities", q)
		}
	}
}

func TestCleanTitleBannedTerms(t *testing.T) {
	got := CleanTitle("Billig Pinsel Set", testConfig())
	if strings.Contains(strings.ToLower(got), "billig") {
		t.Errorf("banned term survived: %q", got)
	}
	if !strings.Contains(got, "preiswert") {
		t.Errorf("replacement missing: %q", got)
	}
}

func TestCleanTitleAllCaps(t *testing.T) {
	if got := CleanTitle("PINSEL SET 6 TEILIG", testConfig()); got != "Pinsel Set 6 Teilig" {
		t.Errorf("CleanTitle = %q", got)
	}
	// Mixed case stays untouched.
	if got := CleanTitle("Pinsel SET", testConfig()); got != "Pinsel SET" {
		t.Errorf("mixed case should be kept, got %q", got)
	}
}

func TestCleanTitleTruncates(t *testing.T) {
	long := strings.Repeat("Acrylfarbe ", 12)
	got := CleanTitle(long, testConfig())
	if n := utf8.RuneCountInString(got); n > core.TitleMax {
		t.Errorf("title length = %d, want <= %d", n, core.TitleMax)
	}
}
