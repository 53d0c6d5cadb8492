// Package tags normalizes, filters, generates, and trims the product tag
// list so every record ends up with 5–10 clean, relevant tags.
package tags

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"shopscrub/internal/config"
	"shopscrub/internal/core"
	"shopscrub/internal/textutil"
)

const (
	minTags    = 5
	maxTags    = 10
	keepOnTrim = 8

	maxTagLen         = 20
	recommendedTagLen = 16
)

// irrelevantPattern is a known-bad substring with the reason it is dropped.
type irrelevantPattern struct {
	pattern string
	reason  string
}

var irrelevantPatterns = []irrelevantPattern{
	{"hibiskus", "hibiscus flowers not relevant to craft tools"},
	{"lisa", "personal names not relevant for product tags"},
	{"bluten", "flower-related terms not relevant for tools/supplies"},
	{"von", "preposition indicates personal attribution"},
	{"tshirt", "clothing items not relevant to craft supplies"},
	{"flamingo", "animal themes not relevant to craft tools/supplies"},
	{"kleidung", "clothing terms not relevant to craft supplies"},
	{"shirt", "clothing items not relevant to craft supplies"},
	{"hose", "clothing items not relevant to craft supplies"},
	{"jacke", "clothing items not relevant to craft supplies"},
	{"mit", "German preposition indicates composite irrelevant tags"},
}

// Word-priority tables for tag generation from title keywords.
var (
	coreTerms        = map[string]bool{"pinsel": true, "brush": true, "farbe": true, "paint": true, "acryl": true, "set": true}
	descriptiveTerms = map[string]bool{"spitzig": true, "rund": true, "flach": true, "matt": true, "metallic": true}
	genericTerms     = map[string]bool{"bastelbedarf": true, "zubehor": true, "material": true}
	categoryTerms    = map[string]bool{"malen": true, "basteln": true, "kreativ": true, "acryl": true}
	genericCraft     = map[string]bool{"basteln": true, "kreativ": true, "diy": true, "hobby": true, "handwerk": true}
)

var titleStopwords = map[string]bool{
	"und": true, "der": true, "die": true, "das": true, "ein": true,
	"eine": true, "eines": true, "einen": true, "einem": true, "mit": true,
	"von": true, "zu": true, "fur": true, "für": true, "ist": true,
	"sind": true, "hat": true, "haben": true, "wird": true, "werden": true,
	"kann": true, "konnen": true, "können": true, "auch": true, "sich": true,
	"als": true, "ihr": true, "ihre": true, "sein": true, "seine": true,
	"wir": true, "sie": true, "es": true, "ich": true, "du": true,
	"nicht": true, "nur": true, "schon": true, "noch": true, "sehr": true,
	"hier": true, "dort": true, "jetzt": true, "immer": true,
	"artikel": true, "produkt": true, "packung": true, "grosse": true,
	"material": true, "stuck": true, "zubehor": true, "neu": true,
	"hochwertig": true, "verschiedene": true, "teilig": true,
}

// Cleanup runs the full tag pipeline on the record and replaces its Tags
// field. Category-alignment warnings are suppressed during the initial tag
// phase because the category may still change; Revalidate covers them later.
func Cleanup(rec *core.Record, cfg *config.Config, rowNum int, phase core.Phase) []core.Issue {
	var issues []core.Issue
	raw := rec.Tags
	list := textutil.SplitList(raw)

	// Normalize and drop anything that cleans down to nothing.
	normalized := make([]string, 0, len(list))
	for _, t := range list {
		if n := textutil.NormalizeTag(t); n != "" {
			normalized = append(normalized, n)
		}
	}

	// Deduplicate, order-preserving.
	seen := map[string]bool{}
	deduped := normalized[:0]
	for _, t := range normalized {
		if !seen[t] {
			seen[t] = true
			deduped = append(deduped, t)
		}
	}
	list = deduped

	titleLower := strings.ToLower(rec.Title)
	categoryLower := strings.ToLower(rec.Category)
	isTool := strings.Contains(titleLower, "pinsel") || strings.Contains(titleLower, "brush") ||
		strings.Contains(categoryLower, "brush") || strings.Contains(categoryLower, "tool")
	isPaint := strings.Contains(titleLower, "farbe") || strings.Contains(titleLower, "paint") ||
		strings.Contains(categoryLower, "paint")

	// Relevance filter.
	kept := list[:0]
	for _, tag := range list {
		if drop, reason := irrelevant(tag, titleLower, isTool, isPaint); drop {
			issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
				core.FieldTags, tag, "", "Irrelevant tag removed: "+reason,
				core.SeverityInfo, phase))
			continue
		}
		kept = append(kept, tag)
	}
	list = kept

	// Banned-term filter.
	kept = list[:0]
	for _, tag := range list {
		if isBanned(tag, cfg) {
			issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
				core.FieldTags, tag, "", fmt.Sprintf("Banned term %q removed", tag),
				core.SeverityWarn, phase))
			continue
		}
		kept = append(kept, tag)
	}
	list = kept

	// Forbidden keywords for the record's external taxonomy leaf.
	forbidden := forbiddenKeywords(rec, cfg)
	kept = list[:0]
	for _, tag := range list {
		if forbidden[tag] {
			issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
				core.FieldTags, tag, "",
				fmt.Sprintf("Forbidden keyword %q for Google Product Category %q removed", tag, rec.GoogleCategory),
				core.SeverityWarn, phase))
			continue
		}
		kept = append(kept, tag)
	}
	list = kept

	// Length warning only; long tags stay.
	for _, tag := range list {
		if len(tag) > recommendedTagLen {
			issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
				core.FieldTags, tag, tag,
				fmt.Sprintf("Tag %q exceeds recommended length of %d characters", tag, recommendedTagLen),
				core.SeverityWarn, phase))
		}
	}

	// Alignment warnings run only once the category is final.
	if phase != core.PhaseTags {
		issues = append(issues, alignmentWarnings(list, rec, cfg, rowNum, phase, core.SeverityWarn)...)
	}

	// Generation when short.
	if len(list) < minTags {
		generated, genIssues := generate(list, rec, cfg, rowNum, phase, titleLower)
		issues = append(issues, genIssues...)
		if len(generated) > len(list) {
			issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
				core.FieldTags, strings.Join(list, ","), strings.Join(generated, ","),
				"Tags generated to meet minimum count", core.SeverityInfo, phase))
			list = generated
		}
	}

	// Trimming when long.
	if len(list) > maxTags {
		trimmed := trim(list, titleLower, categoryLower)
		issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
			core.FieldTags, strings.Join(list, ","), strings.Join(trimmed, ","),
			fmt.Sprintf("Tag count optimized from %d to %d tags", len(list), len(trimmed)),
			core.SeverityInfo, phase))
		list = trimmed
	}

	if len(list) < minTags || len(list) > maxTags {
		joined := strings.Join(list, ",")
		issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
			core.FieldTags, joined, joined,
			fmt.Sprintf("Tag count (%d) is outside the recommended range of %d-%d", len(list), minTags, maxTags),
			core.SeverityWarn, phase))
	}

	rec.Tags = strings.Join(list, ",")
	if rec.Tags != raw {
		issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
			core.FieldTags, raw, rec.Tags,
			"Tags normalized, duplicates/banned terms removed, and validated",
			core.SeverityInfo, phase))
	}
	return issues
}

// Revalidate re-checks category alignment after the taxonomy phase may have
// rewritten the category. Generic craft terms are exempt.
func Revalidate(rec *core.Record, cfg *config.Config, rowNum int) []core.Issue {
	category := strings.ToLower(rec.Category)
	if category == "" || category == "uncategorized" || category == "allgemein" {
		return nil
	}
	list := textutil.SplitList(rec.Tags)
	keywords := dictionaryKeywordSet(rec.Category, cfg)
	if len(keywords) == 0 {
		return nil
	}
	var issues []core.Issue
	for _, tag := range list {
		if !keywords[tag] && !genericCraft[tag] {
			issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
				core.FieldTags, tag, tag,
				fmt.Sprintf("Tag %q may not align with updated product category %q", tag, rec.Category),
				core.SeverityInfo, core.PhaseTagRecheck))
		}
	}
	return issues
}

func irrelevant(tag, titleLower string, isTool, isPaint bool) (bool, string) {
	if len(tag) > maxTagLen {
		return true, fmt.Sprintf("tag too long (>%d chars) likely compound irrelevant term", maxTagLen)
	}
	for _, p := range irrelevantPatterns {
		if strings.Contains(tag, p.pattern) {
			return true, p.reason
		}
	}
	if isTool && (strings.Contains(tag, "rost") || strings.Contains(tag, "effekt") || strings.Contains(tag, "patina")) {
		return true, "paint effect terms not relevant for tools"
	}
	if !isPaint && !isTool && (strings.Contains(tag, "farb") || strings.Contains(tag, "paint")) {
		if !strings.Contains(titleLower, "farb") && !strings.Contains(titleLower, "paint") {
			return true, "paint terms not relevant for non-paint products"
		}
	}
	return false, ""
}

func isBanned(tag string, cfg *config.Config) bool {
	for banned := range cfg.BannedTerms.Terms {
		if cfg.BannedTerms.CaseInsensitive {
			if strings.EqualFold(tag, banned) {
				return true
			}
		} else if tag == banned {
			return true
		}
		flags := ""
		if cfg.BannedTerms.CaseInsensitive {
			flags = "(?i)"
		}
		re, err := regexp.Compile(flags + `\b` + regexp.QuoteMeta(banned) + `\b`)
		if err == nil && re.MatchString(tag) {
			return true
		}
	}
	return false
}

func forbiddenKeywords(rec *core.Record, cfg *config.Config) map[string]bool {
	out := map[string]bool{}
	entry, ok := cfg.TagRelevance[strings.TrimSpace(rec.GoogleCategory)]
	if !ok {
		return out
	}
	for _, k := range entry.Forbidden {
		out[k] = true
	}
	return out
}

// dictionaryKeywordSet collects the category's keyword dictionary entries
// across all tiers, normalized the same way tags are.
func dictionaryKeywordSet(category string, cfg *config.Config) map[string]bool {
	set := map[string]bool{}
	if kw, ok := cfg.KeywordsFor(category); ok {
		for _, lists := range [][]string{kw.Primary, kw.Secondary, kw.Attributes} {
			for _, k := range lists {
				if n := textutil.NormalizeTag(k); n != "" {
					set[n] = true
				}
			}
		}
	}
	return set
}

// categoryKeywordSet extends the dictionary set with the aliases that map
// to the category.
func categoryKeywordSet(category string, cfg *config.Config) map[string]bool {
	set := dictionaryKeywordSet(category, cfg)
	for _, alias := range cfg.AliasesFor(category) {
		if n := textutil.NormalizeTag(alias); n != "" {
			set[n] = true
		}
	}
	return set
}

func alignmentWarnings(list []string, rec *core.Record, cfg *config.Config, rowNum int, phase core.Phase, sev core.Severity) []core.Issue {
	keywords := categoryKeywordSet(rec.Category, cfg)
	var issues []core.Issue
	for _, tag := range list {
		if !keywords[tag] {
			issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
				core.FieldTags, tag, tag,
				fmt.Sprintf("Tag %q does not align with product category %q", tag, strings.ToLower(rec.Category)),
				sev, phase))
		}
	}
	return issues
}

// scoredWord pairs a title word with its generation priority.
type scoredWord struct {
	word     string
	priority float64
}

// generate synthesizes additional tags from title keywords and category
// dictionaries until the minimum count is met, capped at maxTags.
func generate(list []string, rec *core.Record, cfg *config.Config, rowNum int, phase core.Phase, titleLower string) ([]string, []core.Issue) {
	var issues []core.Issue
	out := append([]string(nil), list...)
	have := map[string]bool{}
	for _, t := range out {
		have[t] = true
	}
	add := func(tag string) bool {
		n := textutil.NormalizeTag(tag)
		if n == "" || have[n] || isBanned(n, cfg) || len(n) > recommendedTagLen {
			return false
		}
		have[n] = true
		out = append(out, n)
		return true
	}

	// (a) Title words, priority-scored.
	var words []scoredWord
	for _, w := range strings.Fields(titleLower) {
		cleaned := textutil.NormalizeTag(w)
		if len(cleaned) <= 2 || len(cleaned) > recommendedTagLen || titleStopwords[cleaned] {
			continue
		}
		priority := 1.0
		switch {
		case coreTerms[cleaned]:
			priority = 3
		case descriptiveTerms[cleaned]:
			priority = 2
		case strings.Contains(cleaned, "pentart") || len(cleaned) > 12:
			priority = 0.5
		}
		words = append(words, scoredWord{cleaned, priority})
	}
	sort.SliceStable(words, func(i, j int) bool { return words[i].priority > words[j].priority })
	for _, sw := range words {
		if len(out) >= maxTags {
			break
		}
		if add(sw.word) {
			issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
				core.FieldTags, "", sw.word,
				fmt.Sprintf("Tag inferred from title (priority: %g): %q", sw.priority, sw.word),
				core.SeverityInfo, phase))
		}
	}

	// (b)+(c) Category primary, then secondary keywords.
	keywords, _ := cfg.KeywordsFor(rec.Category)
	for _, tier := range [][]string{keywords.Primary, keywords.Secondary} {
		for _, k := range tier {
			if len(out) >= minTags {
				break
			}
			add(k)
		}
	}

	// (d) Collection aliases mapping to the category.
	if len(out) < minTags {
		aliases := cfg.AliasesFor(rec.Category)
		sort.Strings(aliases)
		for _, alias := range aliases {
			if len(out) >= minTags {
				break
			}
			add(alias)
		}
	}

	// (e) Required keywords for the external taxonomy leaf.
	if len(out) < minTags {
		if entry, ok := cfg.TagRelevance[strings.TrimSpace(rec.GoogleCategory)]; ok {
			for _, k := range entry.Required {
				if len(out) >= minTags {
					break
				}
				add(k)
			}
		}
	}

	// (f) Configured defaults, last resort.
	if len(out) < minTags && len(cfg.SOP.DefaultTags) > 0 {
		issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
			core.FieldTags, "", "",
			"Applying default tags as insufficient specific tags were generated.",
			core.SeverityWarn, phase))
		for _, d := range cfg.SOP.DefaultTags {
			if len(out) >= minTags {
				break
			}
			add(d)
		}
	}

	return out, issues
}

// trim keeps the highest scoring tags when over the maximum.
func trim(list []string, titleLower, categoryLower string) []string {
	type scored struct {
		tag   string
		score int
	}
	scoredTags := make([]scored, 0, len(list))
	for _, tag := range list {
		score := 1
		if strings.Contains(titleLower, tag) || coreTerms[tag] {
			score += 2
		}
		if strings.Contains(categoryLower, tag) || categoryTerms[tag] {
			score++
		}
		if genericTerms[tag] {
			score--
		}
		if len(tag) > 12 {
			score -= 2
		}
		scoredTags = append(scoredTags, scored{tag, score})
	}
	sort.SliceStable(scoredTags, func(i, j int) bool { return scoredTags[i].score > scoredTags[j].score })
	out := make([]string, 0, keepOnTrim)
	for i := 0; i < keepOnTrim && i < len(scoredTags); i++ {
		out = append(out, scoredTags[i].tag)
	}
	return out
}
