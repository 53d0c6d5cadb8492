package body

import (
	"encoding/json"
	"strings"
	"testing"

	"shopscrub/internal/config"
	"shopscrub/internal/core"
)

func testConfig() *config.Config {
	return &config.Config{
		SOP: config.SOPRules{
			SiteName:       "Bastelschachtel",
			ShopDomain:     "bastelschachtel.at",
			GenericClosing: "Jetzt im Shop entdecken.",
		},
		Keywords: map[string]config.CategoryKeywords{
			"Brushes": {Primary: []string{"Pinsel"}, Secondary: []string{"Acrylmalerei"}},
		},
		CategoryAlignment: map[string]config.CategoryAlignment{
			"Brushes": {
				MustIncludeAnyOf: []string{"Synthetische Borsten", "Ergonomischer Griff", "a", "b", "c"},
				ClosingLines:     []string{"Perfekt für Ihre Malprojekte."},
			},
		},
		IntroTemplates: map[string]string{},
	}
}

func TestCleanVisibleHTML(t *testing.T) {
	in := `<!-- note --><meta charset="utf-8"><div style="color:red">Text</div><p></p><font>alt</font><script>evil()</script>`
	got := CleanVisibleHTML(in)
	for _, banned := range []string{"<!--", "<meta", "<div", "style=", "<font", "<script"} {
		if strings.Contains(got, banned) {
			t.Errorf("CleanVisibleHTML left %q in %q", banned, got)
		}
	}
	if !strings.Contains(got, "<p>Text</p>") {
		t.Errorf("divs should become paragraphs, got %q", got)
	}
	if strings.Contains(got, "<p >") {
		t.Errorf("attribute removal left whitespace inside the tag: %q", got)
	}
}

func TestExtractVideoContent(t *testing.T) {
	in := `<p>Anleitung</p>https://www.youtube.com/watch?v=abc123XYZ_-`
	videos, cleaned := ExtractVideoContent(in)
	if !strings.Contains(videos, "youtube.com/watch?v=abc123XYZ_-") {
		t.Errorf("video link not extracted: %q", videos)
	}
	if !strings.Contains(videos, "Video ansehen") {
		t.Errorf("bare links should become anchor paragraphs: %q", videos)
	}
	if strings.Contains(cleaned, "youtube") {
		t.Errorf("video reference should be removed from body: %q", cleaned)
	}

	videos, cleaned = ExtractVideoContent("<p>Nur Text</p>")
	if videos != "" || cleaned != "<p>Nur Text</p>" {
		t.Errorf("no-video input should pass through, got %q / %q", videos, cleaned)
	}
}

func TestAssessQuality(t *testing.T) {
	longText := "<p>" + strings.Repeat("Hochwertige Acrylfarbe für alle Projekte. ", 8) + "</p>"
	if q := AssessQuality(longText); q != QualityHigh {
		t.Errorf("long structured content should be HIGH, got %s", q)
	}
	if q := AssessQuality("Ein kurzer Satz über das Produkt mit etwas mehr Inhalt."); q != QualityMedium {
		t.Errorf("plain sentence should be MEDIUM, got %s", q)
	}
	if q := AssessQuality("<p>kurz</p>"); q != QualityLow {
		t.Errorf("near-empty content should be LOW, got %s", q)
	}
	if q := AssessQuality(""); q != QualityLow {
		t.Errorf("empty content should be LOW, got %s", q)
	}
}

func TestRestructurePreservesHighQuality(t *testing.T) {
	rec := core.Record{
		Handle:   "brush-01",
		Title:    "Pinsel Set",
		Category: "Brushes",
		BodyHTML: "<p>" + strings.Repeat("Ausführliche Beschreibung des Pinselsets mit vielen Details. ", 6) + "</p>",
	}
	out, issues := Restructure(&rec, testConfig(), 2)
	if len(issues) != 1 || !strings.Contains(issues[0].Reason, "preserved") {
		t.Errorf("expected preserve decision, got %+v", issues)
	}
	if !strings.Contains(out, "Ausführliche Beschreibung") {
		t.Error("high quality content must survive")
	}
	if !strings.Contains(out, `rel="canonical"`) {
		t.Error("metadata block missing")
	}
	if !strings.Contains(out, "application/ld+json") {
		t.Error("JSON-LD block missing")
	}
	if !strings.Contains(out, closingLineMarker) {
		t.Error("closing line missing")
	}
}

func TestRestructureRegeneratesLowQuality(t *testing.T) {
	rec := core.Record{
		Handle:   "brush-02",
		Title:    "Flachpinsel 20mm",
		Category: "Brushes",
		Vendor:   "Pentart",
		BodyHTML: "",
	}
	out, issues := Restructure(&rec, testConfig(), 2)
	if len(issues) != 1 || !strings.Contains(issues[0].Reason, "regenerated") {
		t.Errorf("expected regenerate decision, got %+v", issues)
	}
	if !strings.Contains(out, "Synthetische Borsten") {
		t.Errorf("feature list missing: %q", out)
	}
	if !strings.Contains(out, "Perfekt für Ihre Malprojekte.") {
		t.Error("category closing line missing")
	}
	// Decision issue references the payloads instead of embedding them.
	if issues[0].Original != "(original)" || issues[0].Updated != "(see output)" {
		t.Errorf("decision issue should use placeholders, got %+v", issues[0])
	}
}

func TestFeatureListCap(t *testing.T) {
	got := featureList([]string{"a", "b", "c", "d", "e", "f"})
	if strings.Count(got, "<li>") != featureListCap {
		t.Errorf("feature list should cap at %d items, got %q", featureListCap, got)
	}
}

func TestIntroSentenceFallbackChain(t *testing.T) {
	cfg := testConfig()
	if got := IntroSentence("Pinsel", "Flachpinsel", "Brushes", "Pentart", cfg); !strings.Contains(got, "Flachpinsel") {
		t.Errorf("primary+title case failed: %q", got)
	}
	if got := IntroSentence("", "", "Brushes", "Pentart", cfg); !strings.Contains(got, "Pentart") {
		t.Errorf("category+vendor case failed: %q", got)
	}
	if got := IntroSentence("", "", "", "", cfg); got != "Ein vielseitiges Produkt für kreative Anwendungen." {
		t.Errorf("empty fallback = %q", got)
	}

	cfg.IntroTemplates["Brushes"] = "für feinste Details."
	if got := IntroSentence("Pinsel", "x", "Brushes", "", cfg); got != "Pinsel für feinste Details." {
		t.Errorf("configured template should win, got %q", got)
	}
}

func TestEnsureClosingLineIdempotent(t *testing.T) {
	cfg := testConfig()
	once := EnsureClosingLine("<p>Inhalt</p>", "Brushes", cfg)
	twice := EnsureClosingLine(once, "Brushes", cfg)
	if strings.Count(twice, closingLineMarker) != 1 {
		t.Errorf("closing line should not be duplicated: %q", twice)
	}
}

func TestEnsureClosingLineGenericFallback(t *testing.T) {
	cfg := testConfig()
	out := EnsureClosingLine("<p>Inhalt</p>", "Unknown", cfg)
	if !strings.Contains(out, "Jetzt im Shop entdecken.") {
		t.Errorf("generic closing missing: %q", out)
	}
	out = EnsureClosingLine("<p>Inhalt</p>", "Schule", cfg)
	if !strings.Contains(out, genericClosingFallback) {
		t.Errorf("excluded category should use the neutral fallback: %q", out)
	}
}

func TestProductURL(t *testing.T) {
	cfg := testConfig()
	if got := ProductURL("brush-01", cfg); got != "https://bastelschachtel.at/products/brush-01" {
		t.Errorf("ProductURL = %q", got)
	}
}

func TestMetadataIncludesImageDimensions(t *testing.T) {
	rec := core.Record{
		Handle:   "brush-01",
		Title:    "Pinsel Set",
		ImageSrc: "https://cdn.example.com/img.jpg",
	}
	got := Metadata(&rec, testConfig())
	for _, want := range []string{`og:image:width" content="1200"`, `og:image:height" content="1200"`, "twitter:card"} {
		if !strings.Contains(got, want) {
			t.Errorf("metadata missing %q", want)
		}
	}

	rec.ImageSrc = ""
	got = Metadata(&rec, testConfig())
	if strings.Contains(got, "og:image") {
		t.Error("image tags should be omitted without an image")
	}
}

func TestJSONLDIsValid(t *testing.T) {
	rec := core.Record{
		Handle:        "brush-01",
		Title:         "Pinsel Set",
		Vendor:        "Pentart",
		VariantSKU:    "PEN-PINS-A1B2",
		VariantPrice:  "12.90",
		PriceCurrency: "EUR",
	}
	block := JSONLD(&rec, testConfig())
	start := strings.Index(block, ">")
	end := strings.LastIndex(block, "</script>")
	if start < 0 || end < 0 {
		t.Fatalf("malformed script block: %q", block)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(block[start+1:end]), &payload); err != nil {
		t.Fatalf("JSON-LD does not parse: %v", err)
	}
	if payload["@type"] != "Product" {
		t.Errorf("@type = %v", payload["@type"])
	}
	offers, ok := payload["offers"].(map[string]any)
	if !ok {
		t.Fatal("offers block missing")
	}
	if offers["itemCondition"] != "https://schema.org/NewCondition" {
		t.Errorf("itemCondition = %v", offers["itemCondition"])
	}
	if offers["availability"] != "https://schema.org/InStock" {
		t.Errorf("availability = %v", offers["availability"])
	}
}
