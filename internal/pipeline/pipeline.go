// Package pipeline drives the full cleanup run: it groups records by
// handle, pushes each one through the fixed phase order, isolates
// per-record failures, and collects the issue trail.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"shopscrub/internal/body"
	"shopscrub/internal/brand"
	"shopscrub/internal/classify"
	"shopscrub/internal/config"
	"shopscrub/internal/core"
	"shopscrub/internal/logger"
	"shopscrub/internal/seo"
	"shopscrub/internal/table"
	"shopscrub/internal/tags"
	"shopscrub/internal/taxonomy"
	"shopscrub/internal/variant"
)

const progressBatch = 50

// Options configures a run.
type Options struct {
	// Mutate writes cleaned values; when false the run validates only and
	// emits the original rows, with suggested values in the issue trail.
	Mutate bool
}

// Result is the outcome of a completed run.
type Result struct {
	RunID    string
	Rows     int
	Output   *table.Table
	Issues   []core.Issue
	Errors   int
	Warnings int
	Infos    int
	Mutate   bool
}

// group is the set of rows sharing one handle, in input order. The first
// row is the parent.
type group struct {
	handle string
	rows   []int
}

// Run processes the input table and returns the cleaned table plus the
// issue trail. Per-record panics become error issues; they never abort
// the run.
func Run(in *table.Table, cfg *config.Config, opts Options) (*Result, error) {
	if !contains(in.Headers, core.FieldHandle) {
		return nil, fmt.Errorf("input missing %q column", core.FieldHandle)
	}

	res := &Result{
		RunID:  uuid.NewString(),
		Mutate: opts.Mutate,
		Output: &table.Table{Headers: in.Headers},
	}
	logger.Info("starting run", "run_id", res.RunID, "rows", len(in.Rows), "mutate", opts.Mutate)

	groups := groupByHandle(in)
	total := len(in.Rows)
	processed := 0

	for _, g := range groups {
		var parentCategory string
		for j, rowIdx := range g.rows {
			rowNum := rowIdx + 2
			raw := in.Rows[rowIdx]
			rec := core.NewRecord(raw)
			snapshot := rec.Clone()
			isParent := j == 0

			issues := processRecord(&rec, cfg, rowNum, isParent, &parentCategory, opts)
			rec.RestoreImmutables(snapshot)
			res.Issues = append(res.Issues, issues...)

			if opts.Mutate {
				res.Output.Rows = append(res.Output.Rows, rec.ToRow(in.Headers))
			} else {
				res.Output.Rows = append(res.Output.Rows, raw)
			}

			processed++
			if processed%progressBatch == 0 || processed == total {
				logger.Info("progress", "processed", processed, "total", total)
			}
		}
	}

	res.Rows = len(res.Output.Rows)
	res.Errors, res.Warnings, res.Infos = core.CountBySeverity(res.Issues)
	logger.Info("run complete",
		"run_id", res.RunID, "rows", res.Rows, "issues", len(res.Issues),
		"errors", res.Errors, "warnings", res.Warnings)
	return res, nil
}

// processRecord runs every phase on one record. A panic in any phase is
// converted into an error issue attributed to that phase.
func processRecord(rec *core.Record, cfg *config.Config, rowNum int, isParent bool, parentCategory *string, opts Options) (issues []core.Issue) {
	phase := core.PhaseIdentity
	defer func() {
		if r := recover(); r != nil {
			title := rec.Title
			if title == "" {
				title = "Unknown"
			}
			issues = append(issues, core.NewIssue(rowNum, rec.Handle, title,
				"System", "", "", fmt.Sprintf("Row processing failed: %v", r),
				core.SeverityError, phase))
		}
	}()

	// Phase 1: identity.
	if err := rec.ValidateIdentity(); err != nil {
		issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
			core.FieldHandle, "", "", "Missing handle", core.SeverityError, phase))
		return issues
	}

	// Phase 2: vendor, then category with parent inheritance.
	phase = core.PhaseCategorize
	issues = append(issues, brand.Resolve(rec, cfg, rowNum)...)
	if isParent {
		issues = append(issues, classify.Classify(rec, cfg, rowNum)...)
		*parentCategory = rec.Category
	} else if *parentCategory != "" {
		rec.Category = *parentCategory
		issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
			core.FieldCategory, "", *parentCategory,
			"Inherited from parent product", core.SeverityInfo, phase))
	} else {
		issues = append(issues, classify.Classify(rec, cfg, rowNum)...)
	}

	// Phase 3a: title.
	phase = core.PhaseTitle
	if titleNew := seo.CleanTitle(rec.Title, cfg); opts.Mutate && titleNew != rec.Title {
		issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
			core.FieldTitle, rec.Title, titleNew, "Title normalized",
			core.SeverityInfo, phase))
		rec.Title = titleNew
	}

	// Phase 3b: body.
	phase = core.PhaseBody
	bodyNew, bodyIssues := body.Restructure(rec, cfg, rowNum)
	issues = append(issues, bodyIssues...)
	if opts.Mutate && bodyNew != rec.BodyHTML {
		issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
			core.FieldBodyHTML, "(modified)", "(see output)",
			"Body restructured with SEO template", core.SeverityInfo, phase))
		rec.BodyHTML = bodyNew
	}

	// Phase 3c: SEO fields, parent only. Variants carry no SEO of their own.
	phase = core.PhaseSEO
	if isParent {
		origTitle := rec.SEOTitle
		origDesc := rec.SEODescription
		built := seo.Build(origTitle, origDesc, rec.Title, rec.Category, cfg, rec)
		if opts.Mutate {
			if built.Title != origTitle {
				issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
					core.FieldSEOTitle, origTitle, built.Title,
					"SEO title standardized per SOP", core.SeverityInfo, phase))
			}
			rec.SEOTitle = built.Title
			if built.Description != origDesc {
				issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
					core.FieldSEODescription, origDesc, built.Description,
					"SEO description standardized per SOP", core.SeverityInfo, phase))
			}
			rec.SEODescription = built.Description
		} else {
			issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
				core.FieldSEOTitle+" (suggested)", origTitle, built.Title,
				"Preview only (Validate Mode)", core.SeverityInfo, phase))
			issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
				core.FieldSEODescription+" (suggested)", origDesc, built.Description,
				"Preview only (Validate Mode)", core.SeverityInfo, phase))
		}
	} else {
		rec.SEOTitle = ""
		rec.SEODescription = ""
	}

	// Phase 3d: variant technicals.
	phase = core.PhaseVariant
	for _, ch := range variant.Normalize(rec) {
		issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
			ch.Field, ch.Original, ch.Updated, ch.Reason, ch.Severity, phase))
	}

	// Phase 3e: tags, alignment deferred until the category is final.
	phase = core.PhaseTags
	issues = append(issues, tags.Cleanup(rec, cfg, rowNum, phase)...)

	// Phase 4: external taxonomy.
	phase = core.PhaseTaxonomy
	issues = append(issues, taxonomy.Apply(rec, cfg, rowNum)...)

	// Phase 4b: re-validate tags against the possibly-updated category.
	phase = core.PhaseTagRecheck
	issues = append(issues, tags.Revalidate(rec, cfg, rowNum)...)

	return issues
}

// groupByHandle buckets row indices by handle, preserving first-seen order
// of handles and input order within each group.
func groupByHandle(in *table.Table) []group {
	index := map[string]int{}
	var groups []group
	for i, row := range in.Rows {
		handle := strings.TrimSpace(row[core.FieldHandle])
		gi, ok := index[handle]
		if !ok {
			gi = len(groups)
			index[handle] = gi
			groups = append(groups, group{handle: handle})
		}
		groups[gi].rows = append(groups[gi].rows, i)
	}
	return groups
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
