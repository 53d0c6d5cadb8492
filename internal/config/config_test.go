package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "app:\n  log_level: debug\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.App.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.App.LogLevel)
	}
	if cfg.App.InputPath != "input.csv" {
		t.Errorf("default input path = %q", cfg.App.InputPath)
	}
	if cfg.BannedTerms.Terms == nil || cfg.TaxonomyMap == nil {
		t.Error("essential tables should fall back to empty maps")
	}
	if cfg.Keywords == nil || cfg.IntroTemplates == nil {
		t.Error("optional tables should fall back to empty maps")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "banned_term_list:\n  foo: bar\n")
	if _, err := Load(path); err == nil {
		t.Error("unknown top-level key should fail loudly")
	}
}

func TestLoadFullTables(t *testing.T) {
	path := writeConfig(t, `
banned_terms:
  case_insensitive: true
  terms:
    billig: "preiswert"
keyword_dictionary:
  Brushes:
    primary: [pinsel, brush]
    secondary: [borsten]
    attributes: [flach, rund]
collection_aliases:
  " Pinsel ": Brushes
  malzubehoer: Brushes
google_taxonomy_map:
  Brushes: "Arts & Entertainment > Hobbies & Creative Arts > Arts & Crafts > Art & Crafting Tools > Brushes"
known_vendors:
  pentart: Pentart
tag_relevance_map:
  "Arts & Entertainment > Hobbies & Creative Arts > Arts & Crafts > Art & Crafting Tools > Brushes":
    required_keywords: [pinsel]
    forbidden_keywords: [farbe]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.BannedTerms.CaseInsensitive || cfg.BannedTerms.Terms["billig"] != "preiswert" {
		t.Errorf("banned terms not loaded: %+v", cfg.BannedTerms)
	}

	kw, ok := cfg.KeywordsFor("brushes")
	if !ok || len(kw.Primary) != 2 {
		t.Errorf("KeywordsFor should match case-insensitively, got %+v ok=%v", kw, ok)
	}

	aliases := cfg.AliasesFor("Brushes")
	if len(aliases) != 2 {
		t.Errorf("AliasesFor returned %v", aliases)
	}
	for _, a := range aliases {
		if a != "pinsel" && a != "malzubehoer" {
			t.Errorf("alias keys should be lowercased and trimmed, got %q", a)
		}
	}

	if _, ok := cfg.CollectionKeyFor("Brushes"); !ok {
		t.Error("CollectionKeyFor should find a reverse alias")
	}

	counts := cfg.TableCounts()
	if counts["known_vendors"] != 1 || counts["google_taxonomy_map"] != 1 {
		t.Errorf("TableCounts = %v", counts)
	}
}

func TestAlignmentFor(t *testing.T) {
	cfg := &Config{CategoryAlignment: map[string]CategoryAlignment{
		"Brushes": {MustIncludeAnyOf: []string{"pinsel"}},
	}}
	if _, ok := cfg.AlignmentFor("BRUSHES"); !ok {
		t.Error("AlignmentFor should match case-insensitively")
	}
	if _, ok := cfg.AlignmentFor("Paint"); ok {
		t.Error("AlignmentFor should miss unknown categories")
	}
}
