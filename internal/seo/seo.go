// Package seo builds the SEO title and the length-banded SEO description
// through a cascading fallback chain that keeps the result inside
// [SEODescMin, SEODescMax] whenever any content signal exists.
package seo

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"shopscrub/internal/config"
	"shopscrub/internal/core"
	"shopscrub/internal/textutil"
)

// brandSuffix is the shop-name suffix stripped off SEO titles.
const brandSuffix = " | bastelschachtel"

// genericFoundation is the last-resort foundational sentence.
const genericFoundation = "Hochwertige Produkte für kreative Projekte und Bastelarbeiten."

// fillerSentences pad a too-short description; exactly one is used.
var fillerSentences = []string{
	"Hochwertige Qualität und sorgfältige Verarbeitung.",
	"Ideal für kreative Projekte und professionelle Anwendungen.",
	"Schnelle Lieferung und erstklassiger Kundenservice.",
	"Perfekt für Hobby und professionelle Nutzung.",
}

// adjectiveRegex matches German adjective suffix forms.
var adjectiveRegex = regexp.MustCompile(`\b([a-zäöüß]+(?:er|e|es|en|em))\b`)

// qualityStopwords are frequent words that are never descriptive qualities.
var qualityStopwords = map[string]bool{
	"der": true, "die": true, "das": true, "ein": true, "eine": true,
	"eines": true, "einen": true, "einem": true, "und": true, "oder": true,
	"aber": true, "mit": true, "von": true, "zu": true, "für": true,
	"ist": true, "sind": true, "hat": true, "haben": true, "wird": true,
	"werden": true, "kann": true, "können": true, "auch": true, "sich": true,
	"als": true, "ihr": true, "ihre": true, "sein": true, "seine": true,
	"wir": true, "sie": true, "es": true, "ich": true, "du": true,
	"nicht": true, "nur": true, "schon": true, "noch": true, "sehr": true,
	"hier": true, "dort": true, "jetzt": true, "immer": true,
	"artikel": true, "produkt": true, "set": true, "packung": true,
	"farbe": true, "größe": true, "material": true, "stück": true,
	"zubehör": true, "neu": true, "hochwertig": true, "verschiedene": true,
}

// Result holds the built SEO fields.
type Result struct {
	Title       string
	Description string
}

// Build constructs the SEO title and description for a parent record.
func Build(origTitle, origDesc, title, category string, cfg *config.Config, rec *core.Record) Result {
	foundation := foundationalSentence(category, cfg)
	desc := foundation

	// First addition: descriptive qualities or a generic product mention.
	qualities := ExtractQualities(title, origDesc, cfg)
	if len(qualities) > 0 {
		use := qualities
		if len(use) > 2 {
			use = use[:2]
		}
		desc = tryAppend(desc, fmt.Sprintf(" '%s' überzeugt durch %se Eigenschaften.", title, strings.Join(use, " und ")))
	} else {
		desc = tryAppend(desc, fmt.Sprintf(" Entdecken Sie '%s' für Ihre Projekte.", title))
	}

	// Padding chain, each gated by the max-length check.
	if utf8.RuneCountInString(desc) < core.SEODescMin && rec.Vendor != "" {
		desc = tryAppend(desc, fmt.Sprintf(" Von der Marke %s.", rec.Vendor))
	}
	if utf8.RuneCountInString(desc) < core.SEODescMin && rec.Type != "" {
		desc = tryAppend(desc, fmt.Sprintf(" Ideal für %s.", rec.Type))
	}
	if utf8.RuneCountInString(desc) < core.SEODescMin {
		tags := textutil.SplitList(rec.Tags)
		if len(tags) > 0 {
			if len(tags) > 2 {
				tags = tags[:2]
			}
			desc = tryAppend(desc, fmt.Sprintf(" Perfekt für %s.", strings.Join(tags, ", ")))
		}
	}

	desc = textutil.CollapseWhitespace(desc)

	if utf8.RuneCountInString(desc) < core.SEODescMin {
		desc = padShortDescription(desc, foundation, title, rec)
	}

	if utf8.RuneCountInString(desc) > core.SEODescMax {
		desc = truncateKeepingBand(desc)
	}

	return Result{Title: buildTitle(title), Description: desc}
}

// truncateKeepingBand prefers a whole-word cut, but never lets it drop the
// result below the minimum once the text already covers the band.
func truncateKeepingBand(desc string) string {
	atWord := textutil.TruncateAtWord(desc, core.SEODescMax)
	if utf8.RuneCountInString(atWord) >= core.SEODescMin {
		return atWord
	}
	return textutil.Truncate(desc, core.SEODescMax)
}

// tryAppend adds the addition only when the result stays within the max.
func tryAppend(desc, addition string) string {
	if utf8.RuneCountInString(desc+addition) <= core.SEODescMax {
		return desc + addition
	}
	return desc
}

func foundationalSentence(category string, cfg *config.Config) string {
	if key, ok := cfg.CollectionKeyFor(category); ok {
		if s, ok := cfg.CollectionSEO[key]; ok && s != "" {
			return s
		}
	}
	if cfg.SOP.GenericSEODesc != "" {
		return cfg.SOP.GenericSEODesc
	}
	return genericFoundation
}

// padShortDescription appends increasingly generic detail until the minimum
// is met, ending in a synthesized guaranteed-length fallback.
func padShortDescription(desc, foundation, title string, rec *core.Record) string {
	details := []string{}
	if rec.Category != "" && !strings.Contains(desc, rec.Category) {
		details = append(details, fmt.Sprintf("Kategorie: %s.", rec.Category))
	}
	if rec.Vendor != "" && !strings.Contains(desc, rec.Vendor) {
		details = append(details, fmt.Sprintf("Von %s.", rec.Vendor))
	}
	if rec.Type != "" && !strings.Contains(desc, rec.Type) {
		details = append(details, fmt.Sprintf("Geeignet für %s.", rec.Type))
	}
	for _, d := range details {
		if utf8.RuneCountInString(desc) < core.SEODescMin && utf8.RuneCountInString(desc)+1+utf8.RuneCountInString(d) <= core.SEODescMax {
			desc += " " + d
		}
	}

	if utf8.RuneCountInString(desc) < core.SEODescMin {
		for _, filler := range fillerSentences {
			if utf8.RuneCountInString(desc)+1+utf8.RuneCountInString(filler) <= core.SEODescMax {
				desc += " " + filler
				break
			}
		}
	}

	if utf8.RuneCountInString(desc) < core.SEODescMin {
		base := fmt.Sprintf("%s Entdecken Sie das hochwertige Produkt '%s' für kreative Projekte und professionelle Anwendungen. Ideal für Hobby und Beruf mit erstklassiger Qualität.", foundation, title)
		desc = truncateKeepingBand(base)
	}
	return desc
}

// buildTitle strips the brand suffix, reverts when only the brand remains,
// and truncates to the SEO title limit.
func buildTitle(title string) string {
	t := title
	if strings.HasSuffix(strings.ToLower(t), brandSuffix) {
		t = t[:len(t)-len(brandSuffix)]
	}
	if strings.EqualFold(strings.TrimSpace(t), "bastelschachtel") {
		t = title
	}
	if utf8.RuneCountInString(t) > core.SEOTitleMax {
		t = textutil.Truncate(t, core.SEOTitleMax)
	}
	return t
}

// ExtractQualities pulls up to three descriptive qualities from the title
// and description: German adjective forms filtered against stopwords, plus
// any dictionary keyword substring matches.
func ExtractQualities(title, description string, cfg *config.Config) []string {
	text := strings.ToLower(title) + " " + strings.ToLower(textutil.StripHTML(description))

	seen := map[string]bool{}
	var qualities []string
	add := func(q string) {
		if !seen[q] && len(qualities) < 3 {
			seen[q] = true
			qualities = append(qualities, q)
		}
	}

	for _, m := range adjectiveRegex.FindAllString(text, -1) {
		if len([]rune(m)) > 3 && !qualityStopwords[m] {
			add(m)
		}
	}

	for _, kw := range cfg.Keywords {
		for _, lists := range [][]string{kw.Primary, kw.Secondary, kw.Attributes} {
			for _, k := range lists {
				if strings.Contains(text, strings.ToLower(k)) {
					add(k)
				}
			}
		}
	}

	return qualities
}

// CleanTitle normalizes a product title: banned-term substitution on word
// boundaries, ALL-CAPS conversion to title case, truncation to the limit.
func CleanTitle(orig string, cfg *config.Config) string {
	t := strings.TrimSpace(textutil.StripHTML(orig))
	for bad, replacement := range cfg.BannedTerms.Terms {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(bad) + `\b`)
		if err != nil {
			continue
		}
		t = re.ReplaceAllString(t, replacement)
	}
	if t != "" && t == strings.ToUpper(t) {
		t = textutil.TitleCase(t)
	}
	if utf8.RuneCountInString(t) > core.TitleMax {
		t = textutil.Truncate(t, core.TitleMax)
	}
	return t
}
