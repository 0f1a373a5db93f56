package enrich

import (
	"context"
	"errors"
	"strings"
)

// Fallback constants mark heuristically classified results so downstream
// consumers can tell them apart from provider-classified ones.
const (
	FallbackRelevance  = 50
	FallbackConfidence = 0.5

	// DegradedPrefix is the sentinel on template summaries, letting a later
	// pass detect items that only ever got the degraded summary.
	DegradedPrefix = "[auto] "
)

// ErrMalformedResponse marks a provider payload that failed validation:
// unknown category ids, out-of-range scores, or undecodable JSON. Treated
// exactly like an unreachable provider.
var ErrMalformedResponse = errors.New("malformed provider response")

type Classification struct {
	CategoryIDs []string
	Relevance   int     // 0-100
	Confidence  float64 // 0-1
}

type Summary struct {
	Text     string
	Language string
}

// Degraded reports whether the summary is the deterministic fallback.
func (s Summary) Degraded() bool {
	return strings.HasPrefix(s.Text, DegradedPrefix)
}

type Classifier interface {
	Name() string
	Classify(ctx context.Context, title, description string, categoryIDs []string) (Classification, error)
}

type Summarizer interface {
	Name() string
	Summarize(ctx context.Context, title, description string) (Summary, error)
}
