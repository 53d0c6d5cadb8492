package core

import (
	"fmt"
	"time"
)

// Length limits enforced across the pipeline.
const (
	TitleMax    = 70
	SEOTitleMax = 60
	SEODescMin  = 155
	SEODescMax  = 160
)

// Severity classifies an issue entry.
type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warn"
	SeverityInfo  Severity = "info"
)

// Phase identifies a stage in the fixed per-record processing order.
type Phase string

const (
	PhaseIdentity   Phase = "1"
	PhaseCategorize Phase = "2"
	PhaseTitle      Phase = "3a"
	PhaseBody       Phase = "3b"
	PhaseSEO        Phase = "3c"
	PhaseVariant    Phase = "3d"
	PhaseTags       Phase = "3e"
	PhaseTaxonomy   Phase = "4"
	PhaseTagRecheck Phase = "4b"
)

// Column names as they appear in the input table.
const (
	FieldHandle           = "Handle"
	FieldTitle            = "Title"
	FieldBodyHTML         = "Body (HTML)"
	FieldVendor           = "Vendor"
	FieldType             = "Type"
	FieldTags             = "Tags"
	FieldCategory         = "Product Category"
	FieldCollections      = "Collections"
	FieldSEOTitle         = "SEO Title"
	FieldSEODescription   = "SEO Description"
	FieldVariantSKU       = "Variant SKU"
	FieldVariantGrams     = "Variant Grams"
	FieldRequiresShipping = "Variant Requires Shipping"
	FieldTaxable          = "Variant Taxable"
	FieldVariantBarcode   = "Variant Barcode"
	FieldVariantPrice     = "Variant Price"
	FieldPriceCurrency    = "Variant Price Currency"
	FieldVariantImage     = "Variant Image"
	FieldImageSrc         = "Image Src"
	FieldID               = "ID"
	FieldVariantID        = "Variant ID"
	FieldGoogleCategory   = "Google Shopping / Google Product Category"
	FieldGoogleCondition  = "Google Shopping / Condition"
)

// ImmutableFields must carry their input values through to the output
// unchanged, regardless of anything the pipeline does in between.
var ImmutableFields = []string{
	FieldHandle, FieldImageSrc, FieldVariantImage, FieldID, FieldVariantID,
}

// Record is one product row. Known columns get typed fields; anything else
// rides along in Extra so the output table round-trips every input column.
type Record struct {
	Handle           string
	Title            string
	BodyHTML         string
	Vendor           string
	Type             string
	Tags             string
	Category         string
	Collections      string
	SEOTitle         string
	SEODescription   string
	VariantSKU       string
	VariantGrams     string
	RequiresShipping string
	Taxable          string
	VariantBarcode   string
	VariantPrice     string
	PriceCurrency    string
	VariantImage     string
	ImageSrc         string
	ID               string
	VariantID        string
	GoogleCategory   string
	GoogleCondition  string

	Extra map[string]string
}

// NewRecord builds a Record from a header-keyed row.
func NewRecord(row map[string]string) Record {
	r := Record{Extra: map[string]string{}}
	for k, v := range row {
		r.Set(k, v)
	}
	return r
}

// Get returns the value for a named column.
func (r *Record) Get(field string) string {
	switch field {
	case FieldHandle:
		return r.Handle
	case FieldTitle:
		return r.Title
	case FieldBodyHTML:
		return r.BodyHTML
	case FieldVendor:
		return r.Vendor
	case FieldType:
		return r.Type
	case FieldTags:
		return r.Tags
	case FieldCategory:
		return r.Category
	case FieldCollections:
		return r.Collections
	case FieldSEOTitle:
		return r.SEOTitle
	case FieldSEODescription:
		return r.SEODescription
	case FieldVariantSKU:
		return r.VariantSKU
	case FieldVariantGrams:
		return r.VariantGrams
	case FieldRequiresShipping:
		return r.RequiresShipping
	case FieldTaxable:
		return r.Taxable
	case FieldVariantBarcode:
		return r.VariantBarcode
	case FieldVariantPrice:
		return r.VariantPrice
	case FieldPriceCurrency:
		return r.PriceCurrency
	case FieldVariantImage:
		return r.VariantImage
	case FieldImageSrc:
		return r.ImageSrc
	case FieldID:
		return r.ID
	case FieldVariantID:
		return r.VariantID
	case FieldGoogleCategory:
		return r.GoogleCategory
	case FieldGoogleCondition:
		return r.GoogleCondition
	default:
		return r.Extra[field]
	}
}

// Set assigns the value for a named column.
func (r *Record) Set(field, value string) {
	switch field {
	case FieldHandle:
		r.Handle = value
	case FieldTitle:
		r.Title = value
	case FieldBodyHTML:
		r.BodyHTML = value
	case FieldVendor:
		r.Vendor = value
	case FieldType:
		r.Type = value
	case FieldTags:
		r.Tags = value
	case FieldCategory:
		r.Category = value
	case FieldCollections:
		r.Collections = value
	case FieldSEOTitle:
		r.SEOTitle = value
	case FieldSEODescription:
		r.SEODescription = value
	case FieldVariantSKU:
		r.VariantSKU = value
	case FieldVariantGrams:
		r.VariantGrams = value
	case FieldRequiresShipping:
		r.RequiresShipping = value
	case FieldTaxable:
		r.Taxable = value
	case FieldVariantBarcode:
		r.VariantBarcode = value
	case FieldVariantPrice:
		r.VariantPrice = value
	case FieldPriceCurrency:
		r.PriceCurrency = value
	case FieldVariantImage:
		r.VariantImage = value
	case FieldImageSrc:
		r.ImageSrc = value
	case FieldID:
		r.ID = value
	case FieldVariantID:
		r.VariantID = value
	case FieldGoogleCategory:
		r.GoogleCategory = value
	case FieldGoogleCondition:
		r.GoogleCondition = value
	default:
		if r.Extra == nil {
			r.Extra = map[string]string{}
		}
		r.Extra[field] = value
	}
}

// ToRow serializes the record back into a header-keyed row.
func (r *Record) ToRow(headers []string) map[string]string {
	row := make(map[string]string, len(headers))
	for _, h := range headers {
		row[h] = r.Get(h)
	}
	return row
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() Record {
	c := *r
	c.Extra = make(map[string]string, len(r.Extra))
	for k, v := range r.Extra {
		c.Extra[k] = v
	}
	return c
}

// RestoreImmutables copies the immutable fields from the snapshot back onto
// the record, overriding any intermediate mutation.
func (r *Record) RestoreImmutables(snapshot Record) {
	for _, f := range ImmutableFields {
		r.Set(f, snapshot.Get(f))
	}
}

// ValidateIdentity checks the invariant a record must satisfy before any
// phase runs.
func (r *Record) ValidateIdentity() error {
	if r.Handle == "" {
		return fmt.Errorf("missing handle")
	}
	return nil
}

// Issue is one audit entry describing a single field-level decision or
// problem. Issues are append-only for the lifetime of a run.
type Issue struct {
	Row          int
	Timestamp    time.Time
	Handle       string
	ProductTitle string
	Field        string
	Original     string
	Updated      string
	Reason       string
	Severity     Severity
	Phase        Phase
}

// NewIssue stamps an issue with the current time.
func NewIssue(row int, handle, title, field, original, updated, reason string, sev Severity, phase Phase) Issue {
	if sev == "" {
		sev = SeverityInfo
	}
	return Issue{
		Row:          row,
		Timestamp:    time.Now(),
		Handle:       handle,
		ProductTitle: title,
		Field:        field,
		Original:     original,
		Updated:      updated,
		Reason:       reason,
		Severity:     sev,
		Phase:        phase,
	}
}

// Change is a structured field mutation descriptor returned by pure
// normalizers; the caller converts changes into issues.
type Change struct {
	Field    string
	Original string
	Updated  string
	Reason   string
	Severity Severity
}

// CountBySeverity tallies issues per severity.
func CountBySeverity(issues []Issue) (errs, warns, infos int) {
	for _, is := range issues {
		switch is.Severity {
		case SeverityError:
			errs++
		case SeverityWarn:
			warns++
		default:
			infos++
		}
	}
	return errs, warns, infos
}
