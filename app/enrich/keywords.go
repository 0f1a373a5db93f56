package enrich

import (
	"fmt"
	"sort"
	"strings"
)

// KeywordClassifier is the deterministic final fallback: it scans
// title+description against a static per-category keyword table. One shared
// table serves every cascade.
type KeywordClassifier struct {
	table map[string][]string
}

func NewKeywordClassifier(table map[string][]string) *KeywordClassifier {
	return &KeywordClassifier{table: table}
}

// Classify returns the matched category ids with the fixed mid-range scores,
// so consumers can distinguish heuristic results from provider results.
func (k *KeywordClassifier) Classify(title, description string) Classification {
	text := strings.ToLower(title + " " + description)

	var matched []string
	for categoryID, keywords := range k.table {
		for _, keyword := range keywords {
			if strings.Contains(text, strings.ToLower(keyword)) {
				matched = append(matched, categoryID)
				break
			}
		}
	}
	sort.Strings(matched)

	return Classification{
		CategoryIDs: matched,
		Relevance:   FallbackRelevance,
		Confidence:  FallbackConfidence,
	}
}

// TemplateSummary builds the degraded summary from the title, with a
// stop-word language guess over the full text.
func TemplateSummary(title, description string, detector *LanguageDetector) Summary {
	return Summary{
		Text:     fmt.Sprintf("%s%s.", DegradedPrefix, strings.TrimRight(strings.TrimSpace(title), ".")),
		Language: detector.Detect(title + " " + description),
	}
}
