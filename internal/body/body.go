// Package body assesses existing description quality and preserves,
// augments, or regenerates body content from category templates. It also
// injects SEO metadata, a structured data payload, and a category-specific
// closing line.
package body

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"shopscrub/internal/config"
	"shopscrub/internal/core"
	"shopscrub/internal/textutil"
)

// Quality is the content quality assessment of an existing body.
type Quality string

const (
	QualityHigh   Quality = "HIGH"
	QualityMedium Quality = "MEDIUM"
	QualityLow    Quality = "LOW"
)

const (
	featureListCap    = 4
	shortBodyLen      = 100
	closingLineMarker = `class="closing-line"`
)

// genericClosingFallback is used when a category has no closing template and
// is excluded from the configured generic closing.
const genericClosingFallback = "Für kreative Projekte und saubere Ergebnisse."

// excludedFromGenericClosing lists categories that never get the generic
// closing line.
var excludedFromGenericClosing = map[string]bool{"schule": true}

var (
	commentRegex    = regexp.MustCompile(`(?s)<!--.*?-->`)
	metaRegex       = regexp.MustCompile(`(?i)<meta[^>]*>`)
	linkRegex       = regexp.MustCompile(`(?i)<link[^>]*>`)
	scriptRegex     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	deprecatedRegex = regexp.MustCompile(`(?i)</?(font|center)[^>]*>`)
	styleAttrRegex  = regexp.MustCompile(`(?i)\s*style="[^"]*"`)
	divOpenRegex    = regexp.MustCompile(`(?i)<div([^>]*)>`)
	divCloseRegex   = regexp.MustCompile(`(?i)</div>`)
	emptyParaRegex  = regexp.MustCompile(`(?i)<p>\s*</p>`)
	leadingTextRe   = regexp.MustCompile(`^([^<]+)`)

	videoRegex = regexp.MustCompile(`(?i)<iframe[^>]*(?:youtube\.com/embed|youtu\.be)[^>]*></iframe>|https?://(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)[\w-]+`)
)

// Restructure rebuilds the record's body HTML and returns the new content
// together with the decision issue. The record itself is not mutated; the
// caller decides whether to commit the result.
func Restructure(rec *core.Record, cfg *config.Config, rowNum int) (string, []core.Issue) {
	var issues []core.Issue

	html := CleanVisibleHTML(strings.TrimSpace(rec.BodyHTML))
	videos, html := ExtractVideoContent(html)
	quality := AssessQuality(html)

	final := Metadata(rec, cfg)
	var reason string
	switch quality {
	case QualityHigh:
		final += html
		reason = "Body preserved - high quality existing content."
	case QualityMedium:
		final += augment(html, rec.Category, cfg)
		reason = "Body augmented - medium quality existing content."
	default:
		final += buildFromTemplate(rec.Category, cfg, rec)
		reason = "Body regenerated - low quality existing content."
	}

	// The original and new payloads are referenced, not duplicated, to keep
	// the issue log readable.
	issues = append(issues, core.NewIssue(rowNum, rec.Handle, rec.Title,
		core.FieldBodyHTML, "(original)", "(see output)", reason,
		core.SeverityInfo, core.PhaseBody))

	if videos != "" {
		final += "\n" + videos
	}

	final = EnsureClosingLine(final, rec.Category, cfg)
	final += "\n" + JSONLD(rec, cfg)
	return final, issues
}

// CleanVisibleHTML strips comments, meta/link/script tags, deprecated tags
// and inline styles, converts divs to paragraphs, and drops empty
// paragraphs.
func CleanVisibleHTML(html string) string {
	if html == "" {
		return ""
	}
	cleaned := commentRegex.ReplaceAllString(html, "")
	cleaned = metaRegex.ReplaceAllString(cleaned, "")
	cleaned = linkRegex.ReplaceAllString(cleaned, "")
	cleaned = scriptRegex.ReplaceAllString(cleaned, "")
	cleaned = deprecatedRegex.ReplaceAllString(cleaned, "")
	cleaned = styleAttrRegex.ReplaceAllString(cleaned, "")
	cleaned = divOpenRegex.ReplaceAllString(cleaned, "<p$1>")
	cleaned = divCloseRegex.ReplaceAllString(cleaned, "</p>")
	cleaned = emptyParaRegex.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// ExtractVideoContent pulls embedded video references out of the HTML and
// returns them as plain links/embeds, plus the remaining HTML.
func ExtractVideoContent(html string) (videos string, cleaned string) {
	matches := videoRegex.FindAllString(html, -1)
	if len(matches) == 0 {
		return "", html
	}
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		if strings.HasPrefix(m, "http") {
			parts = append(parts, fmt.Sprintf(`<p><a href="%s" target="_blank">Video ansehen</a></p>`, m))
		} else {
			parts = append(parts, m)
		}
	}
	cleaned = strings.TrimSpace(videoRegex.ReplaceAllString(html, ""))
	return strings.Join(parts, "\n"), cleaned
}

// AssessQuality grades the remaining content: HIGH needs substantial plain
// text plus structural markup, MEDIUM needs a sentence or two, everything
// else is LOW.
func AssessQuality(html string) Quality {
	length := len(textutil.StripHTML(html))
	if length > 200 && (strings.Contains(html, "<p>") || strings.Contains(html, "<ul>") || strings.Contains(html, "<ol>")) {
		return QualityHigh
	}
	if length > 50 {
		return QualityMedium
	}
	return QualityLow
}

// augment appends a feature list and a usage sentence to medium quality
// content, skipping each when already present.
func augment(html, category string, cfg *config.Config) string {
	out := html
	alignment, _ := cfg.AlignmentFor(category)
	if len(alignment.MustIncludeAnyOf) > 0 && !strings.Contains(out, "<ul>") {
		out += featureList(alignment.MustIncludeAnyOf)
	}
	keywords, _ := cfg.KeywordsFor(category)
	if len(keywords.Secondary) > 0 {
		secondary := strings.ToLower(keywords.Secondary[0])
		if secondary != "" && !strings.Contains(strings.ToLower(out), secondary) {
			out += usageSentence(secondary)
		}
	}
	return out
}

// buildFromTemplate regenerates a body from scratch: intro sentence,
// feature list, usage sentence, and supplementary lines when still short.
func buildFromTemplate(category string, cfg *config.Config, rec *core.Record) string {
	keywords, _ := cfg.KeywordsFor(category)
	alignment, _ := cfg.AlignmentFor(category)

	primary := ""
	if len(keywords.Primary) > 0 {
		primary = keywords.Primary[0]
	}
	out := "<p>" + IntroSentence(primary, rec.Title, category, rec.Vendor, cfg) + "</p>"

	if len(alignment.MustIncludeAnyOf) > 0 {
		out += featureList(alignment.MustIncludeAnyOf)
	}
	if len(keywords.Secondary) > 0 {
		out += usageSentence(strings.ToLower(keywords.Secondary[0]))
	}

	if len(textutil.StripHTML(out)) < shortBodyLen {
		if rec.Type != "" && !strings.Contains(out, rec.Type) {
			out += fmt.Sprintf("\n<p>Produkttyp: %s.</p>", rec.Type)
		}
		tags := textutil.SplitList(rec.Tags)
		if len(tags) > 0 {
			if len(tags) > 3 {
				tags = tags[:3]
			}
			out += fmt.Sprintf("\n<p>Schlagwörter: %s.</p>", strings.Join(tags, ", "))
		}
	}
	return out
}

func featureList(features []string) string {
	if len(features) > featureListCap {
		features = features[:featureListCap]
	}
	var b strings.Builder
	b.WriteString("\n<ul>")
	for _, f := range features {
		b.WriteString("\n<li>" + f + "</li>")
	}
	b.WriteString("\n</ul>")
	return b.String()
}

func usageSentence(secondary string) string {
	return fmt.Sprintf("\n<p>Ideal für %s und vielseitige Anwendungen.</p>", secondary)
}

// IntroSentence composes the opening sentence of a regenerated body. A
// configured template for the category wins; otherwise the fallback chain
// combines whatever signals exist.
func IntroSentence(primary, title, category, vendor string, cfg *config.Config) string {
	if tmpl, ok := cfg.IntroTemplates[category]; ok && tmpl != "" {
		return strings.TrimSpace(primary + " " + tmpl)
	}
	switch {
	case primary != "" && title != "":
		return fmt.Sprintf("%s %s für kreative Projekte und professionelle Ergebnisse.", primary, title)
	case category != "" && vendor != "":
		return fmt.Sprintf("Entdecken Sie hochwertige %s von %s für Ihre Projekte.", category, vendor)
	case category != "":
		return fmt.Sprintf("Entdecken Sie unsere %s für kreative Projekte.", category)
	case title != "":
		return fmt.Sprintf("%s für kreative Projekte und professionelle Ergebnisse.", title)
	default:
		return "Ein vielseitiges Produkt für kreative Anwendungen."
	}
}

// EnsureClosingLine wraps leading bare text in a paragraph and appends the
// category's closing line unless one is already present.
func EnsureClosingLine(html, category string, cfg *config.Config) string {
	out := html
	if out != "" && !strings.HasPrefix(out, "<p>") {
		if m := leadingTextRe.FindString(out); strings.TrimSpace(m) != "" {
			out = strings.Replace(out, m, "<p>"+strings.TrimSpace(m)+"</p>", 1)
		}
	}

	alignment, _ := cfg.AlignmentFor(category)
	closing := ""
	if len(alignment.ClosingLines) > 0 {
		closing = alignment.ClosingLines[0]
	}
	if closing == "" {
		if excludedFromGenericClosing[strings.ToLower(category)] {
			closing = genericClosingFallback
		} else if cfg.SOP.GenericClosing != "" {
			closing = cfg.SOP.GenericClosing
		} else {
			closing = genericClosingFallback
		}
	}

	if !strings.Contains(out, closingLineMarker) {
		out += fmt.Sprintf("\n<p class=\"closing-line\">%s</p>", closing)
	}
	return out
}

// ProductURL derives the storefront URL for a handle from the SOP shop
// domain.
func ProductURL(handle string, cfg *config.Config) string {
	domain := cfg.SOP.ShopDomain
	if domain == "" {
		domain = "your-shop.myshopify.com"
	}
	return fmt.Sprintf("https://%s/products/%s", domain, handle)
}

// Metadata builds the SEO metadata block: canonical link, meta description,
// Open Graph, and Twitter Card tags.
func Metadata(rec *core.Record, cfg *config.Config) string {
	siteName := cfg.SOP.SiteName
	if siteName == "" {
		siteName = "My Shop"
	}

	seoTitle := rec.SEOTitle
	if seoTitle == "" {
		seoTitle = rec.Title
	}
	if seoTitle == "" {
		switch {
		case rec.Category != "" && rec.Vendor != "":
			seoTitle = fmt.Sprintf("%s von %s", rec.Category, rec.Vendor)
		default:
			seoTitle = fmt.Sprintf("Produkt bei %s", siteName)
		}
	}

	seoDesc := rec.SEODescription
	if seoDesc == "" {
		var b strings.Builder
		if rec.Title != "" {
			fmt.Fprintf(&b, "Entdecken Sie das Produkt '%s'. ", rec.Title)
		}
		if rec.Category != "" {
			fmt.Fprintf(&b, "Kategorie: %s. ", rec.Category)
		}
		if rec.Vendor != "" {
			fmt.Fprintf(&b, "Marke: %s. ", rec.Vendor)
		}
		fmt.Fprintf(&b, "Jetzt bei %s entdecken.", siteName)
		seoDesc = strings.TrimSpace(b.String())
	}

	productURL := ProductURL(rec.Handle, cfg)
	var b strings.Builder
	fmt.Fprintf(&b, "<p><link rel=\"canonical\" href=\"%s\"></p>", productURL)
	fmt.Fprintf(&b, "<p><meta name=\"description\" content=\"%s\"></p>", seoDesc)
	fmt.Fprintf(&b, "<p><meta property=\"og:type\" content=\"product\"></p>")
	fmt.Fprintf(&b, "<p><meta property=\"og:title\" content=\"%s\"></p>", seoTitle)
	fmt.Fprintf(&b, "<p><meta property=\"og:description\" content=\"%s\"></p>", seoDesc)
	fmt.Fprintf(&b, "<p><meta property=\"og:url\" content=\"%s\"></p>", productURL)
	if rec.ImageSrc != "" {
		fmt.Fprintf(&b, "<p><meta property=\"og:image\" content=\"%s\"></p>", rec.ImageSrc)
		fmt.Fprintf(&b, "<p><meta property=\"og:image:alt\" content=\"%s – Produktbild\"></p>", seoTitle)
		fmt.Fprintf(&b, "<p><meta property=\"og:image:width\" content=\"1200\"></p>")
		fmt.Fprintf(&b, "<p><meta property=\"og:image:height\" content=\"1200\"></p>")
	}
	fmt.Fprintf(&b, "<p><meta name=\"twitter:card\" content=\"summary_large_image\"></p>")
	fmt.Fprintf(&b, "<p><meta name=\"twitter:title\" content=\"%s\"></p>", seoTitle)
	fmt.Fprintf(&b, "<p><meta name=\"twitter:description\" content=\"%s\"></p>", seoDesc)
	if rec.ImageSrc != "" {
		fmt.Fprintf(&b, "<p><meta name=\"twitter:image\" content=\"%s\"></p>", rec.ImageSrc)
	}
	return b.String()
}

// jsonLDProduct is the schema.org Product payload embedded in every body.
type jsonLDProduct struct {
	Context     string      `json:"@context"`
	Type        string      `json:"@type"`
	Name        string      `json:"name"`
	Image       string      `json:"image"`
	Description string      `json:"description"`
	SKU         string      `json:"sku"`
	MPN         string      `json:"mpn"`
	Brand       jsonLDBrand `json:"brand"`
	Offers      jsonLDOffer `json:"offers"`
}

type jsonLDBrand struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type jsonLDOffer struct {
	Type          string `json:"@type"`
	URL           string `json:"url"`
	PriceCurrency string `json:"priceCurrency"`
	Price         string `json:"price"`
	ItemCondition string `json:"itemCondition"`
	Availability  string `json:"availability"`
}

// JSONLD renders the structured product data script block.
func JSONLD(rec *core.Record, cfg *config.Config) string {
	price := rec.VariantPrice
	if price == "" {
		price = "0.00"
	}
	currency := rec.PriceCurrency
	if currency == "" {
		currency = "EUR"
	}
	payload := jsonLDProduct{
		Context:     "https://schema.org/",
		Type:        "Product",
		Name:        rec.Title,
		Image:       rec.ImageSrc,
		Description: rec.SEODescription,
		SKU:         rec.VariantSKU,
		MPN:         rec.VariantBarcode,
		Brand:       jsonLDBrand{Type: "Brand", Name: rec.Vendor},
		Offers: jsonLDOffer{
			Type:          "Offer",
			URL:           ProductURL(rec.Handle, cfg),
			PriceCurrency: currency,
			Price:         price,
			ItemCondition: "https://schema.org/NewCondition",
			Availability:  "https://schema.org/InStock",
		},
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return ""
	}
	return fmt.Sprintf("<script type=\"application/ld+json\">%s</script>", data)
}
