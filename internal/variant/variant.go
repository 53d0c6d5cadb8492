// Package variant enforces technical defaults on variant-level fields: SKU
// shape, weight, shipping and tax flags, and barcode validity.
package variant

import (
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"shopscrub/internal/core"
)

var (
	skuPattern     = regexp.MustCompile(`^[A-Z0-9_-]{2,16}$`)
	alnumOnly      = regexp.MustCompile(`[^A-Za-z0-9]`)
	numericBarcode = regexp.MustCompile(`^[0-9]+$`)
)

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Normalize fixes the record's variant fields in place and returns a change
// descriptor per adjustment. It never logs; the caller turns changes into
// issues so the function stays pure apart from the record mutation.
func Normalize(rec *core.Record) []core.Change {
	var changes []core.Change

	if !skuPattern.MatchString(rec.VariantSKU) {
		generated := GenerateSKU(rec.Vendor, rec.Title)
		changes = append(changes, core.Change{
			Field:    core.FieldVariantSKU,
			Original: rec.VariantSKU,
			Updated:  generated,
			Reason:   "Generated per SOP",
			Severity: core.SeverityInfo,
		})
		if generated != "" {
			rec.VariantSKU = generated
		}
	}

	if !isFiniteNumber(rec.VariantGrams) {
		changes = append(changes, core.Change{
			Field:    core.FieldVariantGrams,
			Original: rec.VariantGrams,
			Updated:  "0",
			Reason:   "Defaulted to 0",
			Severity: core.SeverityInfo,
		})
		rec.VariantGrams = "0"
	}

	if !strings.EqualFold(strings.TrimSpace(rec.RequiresShipping), "TRUE") {
		changes = append(changes, core.Change{
			Field:    core.FieldRequiresShipping,
			Original: rec.RequiresShipping,
			Updated:  "TRUE",
			Reason:   "Requires shipping default",
			Severity: core.SeverityInfo,
		})
		rec.RequiresShipping = "TRUE"
	}

	if !strings.EqualFold(strings.TrimSpace(rec.Taxable), "TRUE") {
		changes = append(changes, core.Change{
			Field:    core.FieldTaxable,
			Original: rec.Taxable,
			Updated:  "TRUE",
			Reason:   "Taxable default",
			Severity: core.SeverityInfo,
		})
		rec.Taxable = "TRUE"
	}

	// A barcode is only ever validated or removed, never invented.
	if rec.VariantBarcode != "" && !numericBarcode.MatchString(rec.VariantBarcode) {
		changes = append(changes, core.Change{
			Field:    core.FieldVariantBarcode,
			Original: rec.VariantBarcode,
			Updated:  "",
			Reason:   "Invalid barcode cleared",
			Severity: core.SeverityWarn,
		})
		rec.VariantBarcode = ""
	}

	return changes
}

// GenerateSKU builds {vendorCode}-{titleCode}-{random4} with uppercased
// alphanumeric codes and a 4 character base-36 suffix.
func GenerateSKU(vendor, title string) string {
	v := skuCode(vendor, "BA", 3)
	t := skuCode(title, "PRD", 4)
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = base36[rand.Intn(len(base36))]
	}
	return v + "-" + t + "-" + string(suffix)
}

func skuCode(s, fallback string, max int) string {
	if s == "" {
		s = fallback
	}
	cleaned := strings.ToUpper(alnumOnly.ReplaceAllString(s, ""))
	if cleaned == "" {
		cleaned = strings.ToUpper(fallback)
	}
	if len(cleaned) > max {
		cleaned = cleaned[:max]
	}
	return cleaned
}

// isFiniteNumber treats an empty value as zero, matching spreadsheet
// numeric coercion.
func isFiniteNumber(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
