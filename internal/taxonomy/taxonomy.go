// Package taxonomy maps the internal product category onto the Google
// Shopping product taxonomy and enforces the condition flag.
package taxonomy

import (
	"fmt"
	"strings"

	"shopscrub/internal/config"
	"shopscrub/internal/core"
)

const (
	pathFolders   = "Business & Industrial > Office Supplies > Filing & Organization > Folders"
	pathSheetProt = "Business & Industrial > Office Supplies > Filing & Organization > Binding Supplies > Binder Accessories > Sheet Protectors"
	pathNotebooks = "Business & Industrial > Office Supplies > General Office Supplies > Paper Products > Notebooks & Notepads"
	pathPencils   = "Business & Industrial > Office Supplies > Office Instruments > Writing & Drawing Instruments > Pens & Pencils > Pencils"
	pathFeltTip   = "Business & Industrial > Office Supplies > Office Instruments > Writing & Drawing Instruments > Pens & Pencils > Pens > Felt-Tip Pens"
	pathErasers   = "Business & Industrial > Office Supplies > General Office Supplies > Erasers"
	pathBrushes   = "Arts & Entertainment > Hobbies & Creative Arts > Arts & Crafts > Art & Crafting Tools > Brushes"
	pathPaint     = "Arts & Entertainment > Hobbies & Creative Arts > Arts & Crafts > Art & Crafting Materials > Drawing & Painting Supplies > Paint"
	pathCraftPap  = "Arts & Entertainment > Hobbies & Creative Arts > Arts & Crafts > Art & Crafting Materials > Art & Craft Paper"
)

// titleFallback pairs title keywords with the taxonomy path they imply.
// Order matters; the first matching rule wins.
type titleFallback struct {
	keywords []string
	path     string
}

var titleFallbacks = []titleFallback{
	{[]string{"dreiflügel", "mappe", "ordner"}, pathFolders},
	{[]string{"heftschoner", "schoner"}, pathSheetProt},
	{[]string{"aufgabenheft", "notenheft", "heft"}, pathNotebooks},
	{[]string{"bleistift", "stift"}, pathPencils},
	{[]string{"filzstift", "marker"}, pathFeltTip},
	{[]string{"radierer", "gummi"}, pathErasers},
	{[]string{"pinsel", "brush"}, pathBrushes},
	{[]string{"farbe", "paint", "acryl", "wachspaste", "paste"}, pathPaint},
	{[]string{"papier", "paper", "karton", "chipboard"}, pathCraftPap},
	{[]string{"metallic", "chamäleon", "chamleon", "wachs"}, pathPaint},
	{[]string{"rost", "patina", "effekt"}, pathPaint},
}

// Apply fills the Google Shopping category when it is empty, first through
// the configured map and then through title keyword heuristics, keeping the
// internal category in sync. The condition flag is always forced to "new".
func Apply(rec *core.Record, cfg *config.Config, rowNum int) []core.Issue {
	var issues []core.Issue
	cat := strings.TrimSpace(rec.Category)

	if strings.TrimSpace(rec.GoogleCategory) == "" {
		if mapped := cfg.TaxonomyMap[cat]; mapped != "" {
			issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
				core.FieldGoogleCategory, rec.GoogleCategory, mapped,
				"Mapped via google_taxonomy_map", core.SeverityInfo, core.PhaseTaxonomy))
			rec.GoogleCategory = mapped
			if rec.Category != mapped {
				issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
					core.FieldCategory, rec.Category, mapped,
					"Updated to match Google Product Category", core.SeverityInfo, core.PhaseTaxonomy))
				rec.Category = mapped
			}
		} else if fallback := fallbackForTitle(rec.Title); fallback != "" {
			issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
				core.FieldGoogleCategory, rec.GoogleCategory, fallback,
				"Mapped via title keyword detection", core.SeverityInfo, core.PhaseTaxonomy))
			rec.GoogleCategory = fallback
			if rec.Category != fallback {
				issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
					core.FieldCategory, rec.Category, fallback,
					"Updated to match Google Product Category (title-based)", core.SeverityInfo, core.PhaseTaxonomy))
				rec.Category = fallback
			}
		} else {
			issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
				core.FieldGoogleCategory, "", "",
				fmt.Sprintf("Missing google category (no map entry for Product Category: %q, title: %q)", cat, rec.Title),
				core.SeverityWarn, core.PhaseTaxonomy))
		}
	}

	if !strings.EqualFold(strings.TrimSpace(rec.GoogleCondition), "new") {
		issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
			core.FieldGoogleCondition, rec.GoogleCondition, "new",
			"Condition set to new", core.SeverityInfo, core.PhaseTaxonomy))
		rec.GoogleCondition = "new"
	}
	return issues
}

func fallbackForTitle(title string) string {
	t := strings.ToLower(title)
	for _, fb := range titleFallbacks {
		for _, kw := range fb.keywords {
			if strings.Contains(t, kw) {
				return fb.path
			}
		}
	}
	// Sets that pair with brushes or paint map to brushes.
	if strings.Contains(t, "set") &&
		(strings.Contains(t, "pinsel") || strings.Contains(t, "farb") || strings.Contains(t, "brush")) {
		return pathBrushes
	}
	return ""
}
