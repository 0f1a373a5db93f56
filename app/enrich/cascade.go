package enrich

import (
	"context"
	"log/slog"
	"time"
)

// ClassifierCascade tries providers strictly in order, treating errors and
// malformed payloads alike, and falls back to the deterministic keyword
// classifier when every provider fails. It never returns an error: the
// fallback always produces a usable result.
type ClassifierCascade struct {
	providers []Classifier
	fallback  *KeywordClassifier
	timeout   time.Duration
}

func NewClassifierCascade(providers []Classifier, fallback *KeywordClassifier, timeout time.Duration) *ClassifierCascade {
	return &ClassifierCascade{
		providers: providers,
		fallback:  fallback,
		timeout:   timeout,
	}
}

func (c *ClassifierCascade) Classify(ctx context.Context, title, description string, categoryIDs []string) Classification {
	for _, provider := range c.providers {
		providerCtx, cancel := context.WithTimeout(ctx, c.timeout)
		result, err := provider.Classify(providerCtx, title, description, categoryIDs)
		cancel()

		if err != nil {
			slog.Warn("Classification provider failed", "provider", provider.Name(), "error", err)
			continue
		}
		if err := validateClassification(&result, categoryIDs); err != nil {
			slog.Warn("Classification provider rejected", "provider", provider.Name(), "error", err)
			continue
		}

		return result
	}

	slog.Debug("All classification providers failed, using keyword fallback")
	return c.fallback.Classify(title, description)
}

// SummarizerCascade mirrors ClassifierCascade for summary generation. The
// final fallback is a template summary carrying the degraded sentinel plus a
// stop-word language guess.
type SummarizerCascade struct {
	providers []Summarizer
	detector  *LanguageDetector
	timeout   time.Duration
}

func NewSummarizerCascade(providers []Summarizer, detector *LanguageDetector, timeout time.Duration) *SummarizerCascade {
	return &SummarizerCascade{
		providers: providers,
		detector:  detector,
		timeout:   timeout,
	}
}

func (c *SummarizerCascade) Summarize(ctx context.Context, title, description string) Summary {
	for _, provider := range c.providers {
		providerCtx, cancel := context.WithTimeout(ctx, c.timeout)
		result, err := provider.Summarize(providerCtx, title, description)
		cancel()

		if err != nil {
			slog.Warn("Summary provider failed", "provider", provider.Name(), "error", err)
			continue
		}
		if err := validateSummary(&result); err != nil {
			slog.Warn("Summary provider rejected", "provider", provider.Name(), "error", err)
			continue
		}

		return result
	}

	slog.Debug("All summary providers failed, using template fallback")
	return TemplateSummary(title, description, c.detector)
}
