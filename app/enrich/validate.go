package enrich

import (
	"fmt"
)

// validateClassification checks a provider payload before it is trusted.
// Unknown category ids, out-of-range scores or an empty result fail the
// provider rather than being silently accepted.
func validateClassification(c *Classification, knownIDs []string) error {
	if c.Relevance < 0 || c.Relevance > 100 {
		return fmt.Errorf("relevance %d out of range [0,100]: %w", c.Relevance, ErrMalformedResponse)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("confidence %g out of range [0,1]: %w", c.Confidence, ErrMalformedResponse)
	}

	known := make(map[string]bool, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = true
	}
	for _, id := range c.CategoryIDs {
		if !known[id] {
			return fmt.Errorf("unknown category id '%s': %w", id, ErrMalformedResponse)
		}
	}

	return nil
}

func validateSummary(s *Summary) error {
	if s.Text == "" {
		return fmt.Errorf("empty summary text: %w", ErrMalformedResponse)
	}
	if s.Language == "" {
		return fmt.Errorf("empty language code: %w", ErrMalformedResponse)
	}
	return nil
}
