// Package brand determines and validates the vendor field from explicit
// values, known-vendor keyword inference, and category overrides.
package brand

import (
	"fmt"
	"sort"
	"strings"

	"shopscrub/internal/config"
	"shopscrub/internal/core"
	"shopscrub/internal/textutil"
)

// categoryOverrides short-circuit all other vendor logic for two categories
// whose supplier is fixed.
var categoryOverrides = map[string]string{
	"reispapier": "Itd Collection",
	"korbboden":  "Istvan",
}

// handmadeVendor is the house brand reserved for handmade products.
const handmadeVendor = "bastelschachtel"

// handmadeKeywords gate the house brand: one of these must appear in the
// title or collections.
var handmadeKeywords = []string{
	"handmade", "die bastelschachtel ecke", "unsere bastelecke",
	"handgegossen", "beton", "handgemacht",
}

// Resolve determines the vendor for the record and mutates it in place.
func Resolve(rec *core.Record, cfg *config.Config, rowNum int) []core.Issue {
	var issues []core.Issue
	vendor := strings.TrimSpace(rec.Vendor)
	title := strings.ToLower(rec.Title)
	body := strings.ToLower(rec.BodyHTML)
	handle := strings.ToLower(rec.Handle)
	collections := strings.ToLower(rec.Collections)
	category := strings.ToLower(rec.Category)

	if override, ok := categoryOverrides[category]; ok {
		issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
			core.FieldVendor, vendor, override,
			fmt.Sprintf("Vendor set to %s for %s", override, rec.Category),
			core.SeverityInfo, core.PhaseCategorize))
		rec.Vendor = override
		return issues
	}

	final := vendor
	if vendor != "" {
		// Verify a filled vendor is actually mentioned; keep it either way.
		if !textutil.WholeWord(title, vendor) && !textutil.WholeWord(body, vendor) {
			issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
				core.FieldVendor, vendor, vendor,
				fmt.Sprintf("Vendor %q not mentioned in title or description", vendor),
				core.SeverityWarn, core.PhaseCategorize))
		}
	} else {
		if inferred := infer(title, body, handle, cfg); inferred != "" {
			final = inferred
			issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
				core.FieldVendor, "", inferred,
				fmt.Sprintf("Inferred vendor %q from product data", inferred),
				core.SeverityInfo, core.PhaseCategorize))
		}
	}

	// The house brand is only valid on handmade products.
	if strings.EqualFold(final, handmadeVendor) && !isHandmade(title, collections) {
		issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
			core.FieldVendor, final, "",
			"Vendor set to Bastelschachtel, but product does not seem to be handmade. Please verify.",
			core.SeverityWarn, core.PhaseCategorize))
		final = ""
	}

	rec.Vendor = final
	return issues
}

// infer scans the known-vendor keyword map for the first whole-word match in
// title, body, or handle. Keys are checked in sorted order so runs are
// deterministic.
func infer(title, body, handle string, cfg *config.Config) string {
	keys := make([]string, 0, len(cfg.KnownVendors))
	for k := range cfg.KnownVendors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, known := range keys {
		if textutil.WholeWord(title, known) || textutil.WholeWord(body, known) || textutil.WholeWord(handle, known) {
			return cfg.KnownVendors[known]
		}
	}
	return ""
}

func isHandmade(title, collections string) bool {
	for _, kw := range handmadeKeywords {
		if strings.Contains(title, kw) || strings.Contains(collections, kw) {
			return true
		}
	}
	return false
}
