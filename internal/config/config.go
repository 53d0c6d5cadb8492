// Package config loads the rule tables that drive the cleanup pipeline.
// The configuration is read once per run, validated at load time, and
// treated as immutable afterwards.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"shopscrub/internal/logger"
)

// Config holds every rule table the pipeline consults.
type Config struct {
	App               App                          `mapstructure:"app"`
	SOP               SOPRules                     `mapstructure:"sop_rules"`
	BannedTerms       BannedTerms                  `mapstructure:"banned_terms"`
	CategoryAlignment map[string]CategoryAlignment `mapstructure:"category_alignment"`
	Keywords          map[string]CategoryKeywords  `mapstructure:"keyword_dictionary"`
	CollectionAliases map[string]string            `mapstructure:"collection_aliases"`
	CollectionSEO     map[string]string            `mapstructure:"collection_seo_descriptions"`
	KnownVendors      map[string]string            `mapstructure:"known_vendors"`
	TaxonomyMap       map[string]string            `mapstructure:"google_taxonomy_map"`
	TagRelevance      map[string]TagRelevance      `mapstructure:"tag_relevance_map"`
	InferenceMap      map[string]string            `mapstructure:"category_keywords_inference"`
	IntroTemplates    map[string]string            `mapstructure:"intro_templates"`
}

// App holds general application settings.
type App struct {
	LogLevel   string `mapstructure:"log_level"`
	InputPath  string `mapstructure:"input_path"`
	OutputPath string `mapstructure:"output_path"`
	IssuesPath string `mapstructure:"issues_path"`
	LockPath   string `mapstructure:"lock_path"`
}

// SOPRules holds the shop-level defaults from the standard operating
// procedure.
type SOPRules struct {
	SiteName        string   `mapstructure:"site_name"`
	ShopDomain      string   `mapstructure:"shop_domain"`
	GenericClosing  string   `mapstructure:"generic_closing"`
	GenericSEODesc  string   `mapstructure:"generic_seo_description"`
	DefaultCategory string   `mapstructure:"default_product_category"`
	DefaultTags     []string `mapstructure:"default_tags"`
}

// BannedTerms maps each banned term to its substitution, plus the matching
// rule.
type BannedTerms struct {
	Terms           map[string]string `mapstructure:"terms"`
	CaseInsensitive bool              `mapstructure:"case_insensitive"`
}

// CategoryKeywords is one keyword-dictionary entry with three weight tiers.
type CategoryKeywords struct {
	Primary    []string `mapstructure:"primary"`
	Secondary  []string `mapstructure:"secondary"`
	Attributes []string `mapstructure:"attributes"`
}

// CategoryAlignment carries the per-category content requirements.
type CategoryAlignment struct {
	MustIncludeAnyOf []string `mapstructure:"must_include_any_of"`
	ClosingLines     []string `mapstructure:"closing_line_templates"`
}

// TagRelevance lists the required and forbidden tag keywords for one
// external taxonomy leaf.
type TagRelevance struct {
	Required  []string `mapstructure:"required_keywords"`
	Forbidden []string `mapstructure:"forbidden_keywords"`
}

// Load reads the configuration from the given file (or the default search
// path), validates it, and returns the immutable result.
func Load(configFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			logger.Warn("could not load .env file", "error", err)
		}
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		v.SetConfigName(".shopscrub")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix("SHOPSCRUB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	// UnmarshalExact fails loudly on unknown keys instead of silently
	// defaulting, so typos in rule table names surface at load time.
	if err := v.UnmarshalExact(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	applyFallbacks(cfg)
	normalizeTables(cfg)
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.input_path", "input.csv")
	v.SetDefault("app.output_path", "output.csv")
	v.SetDefault("app.issues_path", "issues.csv")
	v.SetDefault("app.lock_path", ".shopscrub.lock")

	v.SetDefault("sop_rules.site_name", "My Shop")
	v.SetDefault("sop_rules.shop_domain", "your-shop.myshopify.com")
	v.SetDefault("sop_rules.generic_closing", "Für kreative Projekte und saubere Ergebnisse.")
	v.SetDefault("sop_rules.generic_seo_description", "Hochwertige Produkte für kreative Projekte und Bastelarbeiten.")
}

// applyFallbacks substitutes empty maps for the two essential-but-degradable
// tables and for every optional table, so lookups never hit a nil map.
func applyFallbacks(cfg *Config) {
	if cfg.BannedTerms.Terms == nil {
		logger.Warn("banned_terms not configured, using empty fallback")
		cfg.BannedTerms.Terms = map[string]string{}
	}
	if cfg.TaxonomyMap == nil {
		logger.Warn("google_taxonomy_map not configured, using empty fallback")
		cfg.TaxonomyMap = map[string]string{}
	}
	if cfg.CategoryAlignment == nil {
		cfg.CategoryAlignment = map[string]CategoryAlignment{}
	}
	if cfg.Keywords == nil {
		cfg.Keywords = map[string]CategoryKeywords{}
	}
	if cfg.CollectionAliases == nil {
		cfg.CollectionAliases = map[string]string{}
	}
	if cfg.CollectionSEO == nil {
		cfg.CollectionSEO = map[string]string{}
	}
	if cfg.KnownVendors == nil {
		cfg.KnownVendors = map[string]string{}
	}
	if cfg.TagRelevance == nil {
		cfg.TagRelevance = map[string]TagRelevance{}
	}
	if cfg.InferenceMap == nil {
		cfg.InferenceMap = map[string]string{}
	}
	if cfg.IntroTemplates == nil {
		cfg.IntroTemplates = map[string]string{}
	}
}

// normalizeTables lowercases the keys that are always compared
// case-insensitively.
func normalizeTables(cfg *Config) {
	aliases := make(map[string]string, len(cfg.CollectionAliases))
	for k, v := range cfg.CollectionAliases {
		aliases[strings.ToLower(strings.TrimSpace(k))] = v
	}
	cfg.CollectionAliases = aliases
}

// KeywordsFor returns the keyword tiers for a category, matching the key
// case-insensitively.
func (c *Config) KeywordsFor(category string) (CategoryKeywords, bool) {
	if kw, ok := c.Keywords[category]; ok {
		return kw, true
	}
	lower := strings.ToLower(category)
	for k, kw := range c.Keywords {
		if strings.ToLower(k) == lower {
			return kw, true
		}
	}
	return CategoryKeywords{}, false
}

// AlignmentFor returns the alignment entry for a category, matching the key
// case-insensitively.
func (c *Config) AlignmentFor(category string) (CategoryAlignment, bool) {
	if a, ok := c.CategoryAlignment[category]; ok {
		return a, true
	}
	lower := strings.ToLower(category)
	for k, a := range c.CategoryAlignment {
		if strings.ToLower(k) == lower {
			return a, true
		}
	}
	return CategoryAlignment{}, false
}

// AliasesFor lists every collection alias that maps to the given category.
func (c *Config) AliasesFor(category string) []string {
	var out []string
	lower := strings.ToLower(category)
	for alias, mapped := range c.CollectionAliases {
		if strings.ToLower(mapped) == lower {
			out = append(out, alias)
		}
	}
	return out
}

// CollectionKeyFor finds the first collection alias whose mapped category
// equals the given one. Used for the reverse lookup in the SEO builder.
func (c *Config) CollectionKeyFor(category string) (string, bool) {
	for alias, mapped := range c.CollectionAliases {
		if mapped == category {
			return alias, true
		}
	}
	return "", false
}

// TableCounts reports entry counts per rule table, for the config check
// command.
func (c *Config) TableCounts() map[string]int {
	return map[string]int{
		"banned_terms":                len(c.BannedTerms.Terms),
		"category_alignment":          len(c.CategoryAlignment),
		"keyword_dictionary":          len(c.Keywords),
		"collection_aliases":          len(c.CollectionAliases),
		"collection_seo_descriptions": len(c.CollectionSEO),
		"known_vendors":               len(c.KnownVendors),
		"google_taxonomy_map":         len(c.TaxonomyMap),
		"tag_relevance_map":           len(c.TagRelevance),
		"category_keywords_inference": len(c.InferenceMap),
		"intro_templates":             len(c.IntroTemplates),
	}
}
