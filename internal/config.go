package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Heuristics holds the policy constants that drive extraction and inference.
// The defaults encode the domain assumptions of the supported statement
// exports; all of them can be overridden from the config file for per-locale
// tuning.
type Heuristics struct {
	// Day-gap windows used by cycle inference (inclusive bounds).
	MonthGapMin int `yaml:"month_gap_min,omitempty"`
	MonthGapMax int `yaml:"month_gap_max,omitempty"`
	YearGapMin  int `yaml:"year_gap_min,omitempty"`
	YearGapMax  int `yaml:"year_gap_max,omitempty"`

	// NameMaxLen is the display-title truncation length in runes.
	NameMaxLen int `yaml:"name_max_len,omitempty"`

	// MarkerPhrase separates records in the legacy single-marker export.
	// When the blob does not contain it, line layout is assumed.
	MarkerPhrase string `yaml:"marker_phrase,omitempty"`

	// Minimum fragment lengths (runes) below which segments are noise.
	MinSegmentLen int `yaml:"min_segment_len,omitempty"`
	MinLineLen    int `yaml:"min_line_len,omitempty"`

	// Stopwords are generic banking words removed during merchant
	// normalization.
	Stopwords []string `yaml:"stopwords,omitempty"`

	// BoilerplateWords are currency/format words stripped from descriptions.
	BoilerplateWords []string `yaml:"boilerplate_words,omitempty"`

	// YearKeywords mark a single observation as a yearly subscription.
	YearKeywords []string `yaml:"year_keywords,omitempty"`
}

// DefaultHeuristics returns the built-in policy constants.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		MonthGapMin:      28,
		MonthGapMax:      33,
		YearGapMin:       350,
		YearGapMax:       380,
		NameMaxLen:       40,
		MarkerPhrase:     "Плати по миру",
		MinSegmentLen:    11,
		MinLineLen:       6,
		Stopwords:        []string{"оплата", "покупка", "списание", "карта", "перевод", "услуги", "подписка"},
		BoilerplateWords: []string{"RUB", "USD", "EUR", "руб"},
		YearKeywords:     []string{"год", "year", "yearly", "annual"},
	}
}

type Config struct {
	// Heuristics overrides; zero-valued fields keep their defaults.
	Heuristics Heuristics `yaml:"heuristics,omitempty"`

	// Descriptions maps subscription names to custom display descriptions.
	Descriptions map[string]string `yaml:"descriptions,omitempty"`

	// DefaultGroup is the grouping label applied to newly imported
	// subscriptions when the caller does not supply one.
	DefaultGroup string `yaml:"default_group,omitempty"`

	// DefaultCategory is applied to newly imported subscriptions.
	DefaultCategory string `yaml:"default_category,omitempty"`
}

// DefaultConfigPath returns the default config file path
// (~/.subtrack/config.yaml).
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".subtrack", "config.yaml")
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// EffectiveHeuristics merges the config's overrides onto the defaults. A nil
// config yields the defaults untouched.
func (c *Config) EffectiveHeuristics() Heuristics {
	h := DefaultHeuristics()
	if c == nil {
		return h
	}
	o := c.Heuristics
	if o.MonthGapMin != 0 {
		h.MonthGapMin = o.MonthGapMin
	}
	if o.MonthGapMax != 0 {
		h.MonthGapMax = o.MonthGapMax
	}
	if o.YearGapMin != 0 {
		h.YearGapMin = o.YearGapMin
	}
	if o.YearGapMax != 0 {
		h.YearGapMax = o.YearGapMax
	}
	if o.NameMaxLen != 0 {
		h.NameMaxLen = o.NameMaxLen
	}
	if o.MarkerPhrase != "" {
		h.MarkerPhrase = o.MarkerPhrase
	}
	if o.MinSegmentLen != 0 {
		h.MinSegmentLen = o.MinSegmentLen
	}
	if o.MinLineLen != 0 {
		h.MinLineLen = o.MinLineLen
	}
	if len(o.Stopwords) > 0 {
		h.Stopwords = o.Stopwords
	}
	if len(o.BoilerplateWords) > 0 {
		h.BoilerplateWords = o.BoilerplateWords
	}
	if len(o.YearKeywords) > 0 {
		h.YearKeywords = o.YearKeywords
	}
	return h
}

// GetDescription returns the custom description for a subscription name, or
// an empty string.
func (c *Config) GetDescription(name string) string {
	if c == nil || c.Descriptions == nil {
		return ""
	}
	return c.Descriptions[name]
}
