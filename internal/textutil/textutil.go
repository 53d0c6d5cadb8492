// Package textutil provides the string normalization primitives shared by
// the cleanup passes: HTML stripping, diacritic folding, whitespace
// collapsing, and length-aware truncation.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	tagRegex        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	tagCharRegex    = regexp.MustCompile(`[^a-z0-9-]`)

	diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// StripHTML returns the plain text of an HTML fragment. Parseable markup
// goes through goquery; anything else falls back to tag removal.
func StripHTML(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(tagRegex.ReplaceAllString(html, " "))
	}
	return CollapseWhitespace(doc.Text())
}

// CollapseWhitespace folds runs of whitespace into single spaces and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// FoldDiacritics removes combining marks: "grüßen" -> "grußen".
func FoldDiacritics(s string) string {
	out, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeTag lowercases, folds diacritics, and drops every character
// outside [a-z0-9-].
func NormalizeTag(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	t = FoldDiacritics(t)
	return tagCharRegex.ReplaceAllString(t, "")
}

// WholeWord reports whether word occurs in text on word boundaries,
// case-insensitively.
func WholeWord(text, word string) bool {
	if word == "" {
		return false
	}
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

// TitleCase uppercases the first letter of each word and lowercases the
// rest: "PINSEL SET 6 TEILIG" -> "Pinsel Set 6 Teilig".
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		if len(r) > 0 {
			r[0] = unicode.ToUpper(r[0])
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// Truncate hard-cuts a string to max runes and trims trailing space.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max]))
}

// TruncateAtWord cuts to at most max runes, then backs up to the last
// complete word when one exists.
func TruncateAtWord(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	cut := string(r[:max])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}

// SplitList splits a comma-separated field into trimmed non-empty entries.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
