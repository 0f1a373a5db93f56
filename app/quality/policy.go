package quality

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy is the runtime-configurable quality and relevance policy. It also
// carries the keyword classifier table and the search queries the scheduled
// passes poll, so everything domain-specific lives in one file instead of
// code.
type Policy struct {
	DefaultMinViews int64            `yaml:"default_min_views"`
	MinViews        map[string]int64 `yaml:"min_views"`

	Exclusions      []string             `yaml:"exclusions"`
	Disambiguations []DisambiguationRule `yaml:"disambiguations"`
	AllowChannels   []string             `yaml:"allow_channels"`

	SearchQueries []SearchQuery `yaml:"search_queries"`

	Categories []Category `yaml:"categories"`

	DefaultLanguage string            `yaml:"default_language"`
	SourceKeywords  map[string][]string `yaml:"source_keywords"`
}

// DisambiguationRule makes an exclusion term conditional: the term rejects a
// candidate only when none of the UnlessAny keywords appear alongside it.
// This covers brand-name collisions like a rival's name inside a derby title.
type DisambiguationRule struct {
	Term      string   `yaml:"term"`
	UnlessAny []string `yaml:"unless_any"`
}

type SearchQuery struct {
	Platform string `yaml:"platform"`
	Query    string `yaml:"query"`
}

type Category struct {
	ID       string   `yaml:"id"`
	Keywords []string `yaml:"keywords"`
}

func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var policy Policy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("failed to parse policy YAML: %w", err)
	}

	if policy.DefaultMinViews == 0 {
		policy.DefaultMinViews = 1000
	}
	if policy.DefaultLanguage == "" {
		policy.DefaultLanguage = "es"
	}

	if err := policy.validate(); err != nil {
		return nil, fmt.Errorf("invalid policy %s: %w", path, err)
	}

	return &policy, nil
}

func (p *Policy) validate() error {
	if p.DefaultMinViews < 0 {
		return fmt.Errorf("default_min_views must be non-negative")
	}
	for platform, floor := range p.MinViews {
		if floor < 0 {
			return fmt.Errorf("min_views for platform '%s' must be non-negative", platform)
		}
	}

	for i, rule := range p.Disambiguations {
		if rule.Term == "" {
			return fmt.Errorf("disambiguation rule at index %d has an empty term", i)
		}
		if len(rule.UnlessAny) == 0 {
			return fmt.Errorf("disambiguation rule '%s' must have at least one unless_any keyword", rule.Term)
		}
	}

	seen := make(map[string]bool, len(p.Categories))
	for i, category := range p.Categories {
		if category.ID == "" {
			return fmt.Errorf("category at index %d has an empty id", i)
		}
		if seen[category.ID] {
			return fmt.Errorf("duplicate category id '%s'", category.ID)
		}
		seen[category.ID] = true
	}

	for i, query := range p.SearchQueries {
		if query.Platform == "" || query.Query == "" {
			return fmt.Errorf("search query at index %d must set platform and query", i)
		}
	}

	return nil
}

// MinViewsFor returns the per-platform floor, falling back to the default.
func (p *Policy) MinViewsFor(platform string) int64 {
	if floor, ok := p.MinViews[platform]; ok {
		return floor
	}
	return p.DefaultMinViews
}

// CategoryIDs returns the known category ids in declaration order.
func (p *Policy) CategoryIDs() []string {
	ids := make([]string, 0, len(p.Categories))
	for _, category := range p.Categories {
		ids = append(ids, category.ID)
	}
	return ids
}

// KeywordTable returns the per-category keyword table consumed by the
// fallback classifier.
func (p *Policy) KeywordTable() map[string][]string {
	table := make(map[string][]string, len(p.Categories))
	for _, category := range p.Categories {
		table[category.ID] = category.Keywords
	}
	return table
}
