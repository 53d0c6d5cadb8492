// Package classify resolves a product's category from collection aliases,
// a weighted keyword dictionary, and configured fallbacks.
package classify

import (
	"fmt"
	"sort"
	"strings"

	"shopscrub/internal/config"
	"shopscrub/internal/core"
	"shopscrub/internal/textutil"
)

// Scoring weights for the keyword dictionary tiers.
const (
	primaryWeight   = 3
	secondaryWeight = 2
	attributeWeight = 1
	minThreshold    = 2
)

// Classify resolves the record's category and mutates it in place. The
// category is re-evaluated on every run, not only when empty. Returned
// issues document every adopted value.
func Classify(rec *core.Record, cfg *config.Config, rowNum int) []core.Issue {
	var issues []core.Issue
	existing := strings.TrimSpace(rec.Category)
	mapped := existing

	// 1. Direct alias lookup over the record's collections.
	for _, coll := range textutil.SplitList(strings.ToLower(rec.Collections)) {
		alias, ok := cfg.CollectionAliases[coll]
		if ok && alias != "" && alias != existing {
			issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
				core.FieldCategory, existing, alias,
				"Mapped via collection alias", core.SeverityInfo, core.PhaseCategorize))
			mapped = alias
			break
		}
	}

	// 2. Weighted keyword scoring when no alias matched.
	if mapped == "" || mapped == existing {
		text := combinedText(rec)
		best, score := scoreCategories(text, cfg)

		// 3. Flat inference map fallback.
		if best == "" {
			if inferred := inferFromKeywords(text, cfg); inferred != "" {
				best = inferred
				score = 1
			}
		}

		if best != "" {
			reason := fmt.Sprintf("Smart category inference (%s confidence: %d points)", confidenceLabel(score), score)
			issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
				core.FieldCategory, existing, best, reason, core.SeverityInfo, core.PhaseCategorize))
			mapped = best
		}
	}

	// 4. Configured default as last resort.
	if mapped == "" && cfg.SOP.DefaultCategory != "" {
		issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
			core.FieldCategory, existing, cfg.SOP.DefaultCategory,
			"Default category assigned", core.SeverityInfo, core.PhaseCategorize))
		mapped = cfg.SOP.DefaultCategory
	}

	rec.Category = mapped
	return issues
}

// combinedText builds the lowercase match text from title plus stripped body.
func combinedText(rec *core.Record) string {
	title := strings.ToLower(rec.Title)
	body := strings.ToLower(textutil.StripHTML(rec.BodyHTML))
	return title + " " + body
}

// scoreCategories scores every dictionary category against the text and
// returns the winner, if any reaches the minimum threshold. Ties keep the
// first category in sorted dictionary order.
func scoreCategories(text string, cfg *config.Config) (string, int) {
	categories := make([]string, 0, len(cfg.Keywords))
	for cat := range cfg.Keywords {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	best := ""
	bestScore := 0
	for _, cat := range categories {
		kw := cfg.Keywords[cat]
		score := 0
		for _, k := range kw.Primary {
			if strings.Contains(text, strings.ToLower(k)) {
				score += primaryWeight
			}
		}
		for _, k := range kw.Secondary {
			if strings.Contains(text, strings.ToLower(k)) {
				score += secondaryWeight
			}
		}
		for _, k := range kw.Attributes {
			if strings.Contains(text, strings.ToLower(k)) {
				score += attributeWeight
			}
		}
		if score > bestScore && score >= minThreshold {
			bestScore = score
			best = cat
		}
	}
	return best, bestScore
}

// inferFromKeywords scans the flat keyword inference map and returns the
// category of the first substring match, in sorted key order.
func inferFromKeywords(text string, cfg *config.Config) string {
	keys := make([]string, 0, len(cfg.InferenceMap))
	for k := range cfg.InferenceMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(text, strings.ToLower(k)) {
			return cfg.InferenceMap[k]
		}
	}
	return ""
}

// confidenceLabel buckets a score into HIGH/MEDIUM/LOW. The label is
// informational only; it never changes control flow.
func confidenceLabel(score int) string {
	switch {
	case score >= 6:
		return "HIGH"
	case score >= 4:
		return "MEDIUM"
	default:
		return "LOW"
	}
}
